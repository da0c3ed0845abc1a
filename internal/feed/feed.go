// Package feed builds the site's RSS 2.0 document.
package feed

import (
	"fmt"

	"github.com/Dan9191/blog-service/internal/models"
	"github.com/beevik/etree"
)

// Build renders articles as an RSS 2.0 feed. Titles and bodies follow the
// requested locale.
func Build(siteURL, locale string, articles []models.Article) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")

	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText("MyBlog")
	channel.CreateElement("link").SetText(siteURL)
	channel.CreateElement("description").SetText("Latest articles from MyBlog")
	channel.CreateElement("language").SetText(locale)

	for i := range articles {
		a := &articles[i]
		item := channel.CreateElement("item")
		item.CreateElement("title").SetText(a.LocalTitle(locale))
		item.CreateElement("link").SetText(fmt.Sprintf("%s/article/%d/", siteURL, a.ID))
		item.CreateElement("guid").SetText(fmt.Sprintf("%s/article/%d/", siteURL, a.ID))
		item.CreateElement("description").SetText(a.LocalBody(locale))
		item.CreateElement("author").SetText(a.Author)
		if a.CreatedAt != "" {
			item.CreateElement("pubDate").SetText(a.CreatedAt)
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize feed: %w", err)
	}
	return out, nil
}
