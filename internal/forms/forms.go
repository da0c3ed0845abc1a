// Package forms implements declarative validation for the site's HTML forms.
// A form is a list of fields, each with constraint rules; Validate fills the
// fields from the submitted values and collects per-field error messages.
// Validation is pure: no I/O, same result on GET pre-render and POST.
package forms

import (
	"fmt"
	"net/url"
	"unicode/utf8"
)

// Rule checks a single field value against the whole submitted value set
// (the set is needed for cross-field rules). It returns an error message,
// or "" when the value passes.
type Rule func(value string, values url.Values) string

// Field is one named input with its constraint rules, the last submitted
// value and any validation errors, so templates can re-render inline.
type Field struct {
	Name   string
	Label  string
	Rules  []Rule
	Value  string
	Errors []string
}

// Form is an ordered set of fields.
type Form struct {
	Fields []*Field
}

// Field returns the field with the given name, or nil.
func (f *Form) Field(name string) *Field {
	for _, fld := range f.Fields {
		if fld.Name == name {
			return fld
		}
	}
	return nil
}

// Validate fills every field from values and runs its rules.
// It reports whether the whole form is valid.
func (f *Form) Validate(values url.Values) bool {
	valid := true
	for _, fld := range f.Fields {
		fld.Value = values.Get(fld.Name)
		fld.Errors = nil
		for _, rule := range fld.Rules {
			if msg := rule(fld.Value, values); msg != "" {
				fld.Errors = append(fld.Errors, msg)
				valid = false
			}
		}
	}
	return valid
}

// Required fails on an empty value.
func Required() Rule {
	return func(value string, _ url.Values) string {
		if value == "" {
			return "This field is required"
		}
		return ""
	}
}

// Length constrains the value to [min, max] characters. A max of 0 means
// unbounded above.
func Length(min, max int) Rule {
	return func(value string, _ url.Values) string {
		n := utf8.RuneCountInString(value)
		if n < min {
			return fmt.Sprintf("Must be at least %d characters long", min)
		}
		if max > 0 && n > max {
			return fmt.Sprintf("Must be at most %d characters long", max)
		}
		return ""
	}
}

// EqualTo fails unless the value equals the named sibling field.
func EqualTo(other, message string) Rule {
	return func(value string, values url.Values) string {
		if value != values.Get(other) {
			return message
		}
		return ""
	}
}

// NewRegistrationForm builds the user registration form.
func NewRegistrationForm() *Form {
	return &Form{Fields: []*Field{
		{Name: "name", Label: "Name", Rules: []Rule{Length(1, 50)}},
		{Name: "username", Label: "Username", Rules: []Rule{Length(4, 25)}},
		{Name: "email", Label: "Email", Rules: []Rule{Length(6, 50)}},
		{Name: "password", Label: "Password", Rules: []Rule{
			Required(),
			EqualTo("confirm", "Passwords do not match"),
		}},
		{Name: "confirm", Label: "Confirm Password"},
	}}
}

// NewArticleForm builds the article create/edit form, including the
// Ukrainian translation fields.
func NewArticleForm() *Form {
	return &Form{Fields: []*Field{
		{Name: "title", Label: "Title", Rules: []Rule{Length(1, 200)}},
		{Name: "title_uk", Label: "Title (Ukrainian)", Rules: []Rule{Length(1, 200)}},
		{Name: "body", Label: "Body", Rules: []Rule{Length(20, 0)}},
		{Name: "body_uk", Label: "Body (Ukrainian)", Rules: []Rule{Length(20, 0)}},
	}}
}
