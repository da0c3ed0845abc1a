package models

// Article represents a published blog post. TitleUK and BodyUK hold the
// Ukrainian translation shown when the locale cookie selects "uk".
type Article struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	TitleUK   string `json:"title_uk"`
	Body      string `json:"body"`
	BodyUK    string `json:"body_uk"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

// LocalTitle returns the title for the given locale, falling back to the
// primary title when no translation exists.
func (a Article) LocalTitle(locale string) string {
	if locale == "uk" && a.TitleUK != "" {
		return a.TitleUK
	}
	return a.Title
}

// LocalBody returns the body for the given locale, falling back to the
// primary body when no translation exists.
func (a Article) LocalBody(locale string) string {
	if locale == "uk" && a.BodyUK != "" {
		return a.BodyUK
	}
	return a.Body
}
