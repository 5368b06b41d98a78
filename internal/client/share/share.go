// Package share implements the OS share-target ingestion contract: parsing
// a shared payload out of redirect query or form values and folding it into
// the note composer draft.
package share

import (
	"net/url"
	"strings"
)

// Query parameter keys used on the redirect back into the app.
const (
	QueryTitleKey = "shared_title"
	QueryTextKey  = "shared_text"
	QueryURLKey   = "shared_url"
)

// Form field keys delivered by the OS share sheet.
const (
	FormTitleKey = "title"
	FormTextKey  = "text"
	FormURLKey   = "url"
)

// Payload is a sanitized shared payload. All fields are trimmed; URL is kept
// only when it parses as an http(s) URL.
type Payload struct {
	Title string
	Text  string
	URL   string
}

func sanitize(title, text, rawURL string) Payload {
	trimmedURL := strings.TrimSpace(rawURL)
	if !isHTTPURL(trimmedURL) {
		trimmedURL = ""
	}
	return Payload{
		Title: strings.TrimSpace(title),
		Text:  strings.TrimSpace(text),
		URL:   trimmedURL,
	}
}

// FromQuery extracts a payload from redirect query parameters.
func FromQuery(values url.Values) Payload {
	return sanitize(values.Get(QueryTitleKey), values.Get(QueryTextKey), values.Get(QueryURLKey))
}

// FromForm extracts a payload from share-sheet form fields.
func FromForm(values url.Values) Payload {
	return sanitize(values.Get(FormTitleKey), values.Get(FormTextKey), values.Get(FormURLKey))
}

// Query builds the redirect query for a payload. Empty fields are omitted.
func (p Payload) Query() url.Values {
	values := url.Values{}
	if p.Title != "" {
		values.Set(QueryTitleKey, p.Title)
	}
	if p.Text != "" {
		values.Set(QueryTextKey, p.Text)
	}
	if p.URL != "" {
		values.Set(QueryURLKey, p.URL)
	}
	return values
}

// Draft picks the seed for the note composer: a URL wins over free text,
// free text wins over the title.
func (p Payload) Draft() string {
	if p.URL != "" {
		return p.URL
	}
	if p.Text != "" {
		return p.Text
	}
	return p.Title
}

// MergeDraft folds the payload's draft seed into an existing composer draft.
// An empty seed or a draft that already contains the seed leaves the draft
// unchanged; otherwise the seed is appended on its own line.
func (p Payload) MergeDraft(current string) string {
	seed := p.Draft()
	if seed == "" {
		return current
	}

	trimmed := strings.TrimSpace(current)
	if trimmed == "" {
		return seed
	}
	if strings.Contains(trimmed, seed) {
		return current
	}
	return current + "\n" + seed
}

func isHTTPURL(value string) bool {
	if value == "" {
		return false
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
