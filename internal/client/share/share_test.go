package share

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromQuery_TrimsAndKeepsHTTPURL(t *testing.T) {
	values := url.Values{}
	values.Set(QueryTitleKey, "  Interesting read  ")
	values.Set(QueryTextKey, " some text ")
	values.Set(QueryURLKey, " https://example.org/a ")

	p := FromQuery(values)

	require.Equal(t, "Interesting read", p.Title)
	require.Equal(t, "some text", p.Text)
	require.Equal(t, "https://example.org/a", p.URL)
}

func TestFromQuery_DropsNonHTTPURL(t *testing.T) {
	cases := []string{
		"javascript:alert(1)",
		"ftp://example.org/file",
		"not a url",
		"",
	}
	for _, raw := range cases {
		values := url.Values{}
		values.Set(QueryURLKey, raw)
		require.Empty(t, FromQuery(values).URL, "url %q should be dropped", raw)
	}
}

func TestFromForm_UsesShareSheetKeys(t *testing.T) {
	values := url.Values{}
	values.Set(FormTitleKey, "Title")
	values.Set(FormTextKey, "Text")
	values.Set(FormURLKey, "http://example.org")

	p := FromForm(values)

	require.Equal(t, "Title", p.Title)
	require.Equal(t, "Text", p.Text)
	require.Equal(t, "http://example.org", p.URL)
}

func TestQuery_OmitsEmptyFields(t *testing.T) {
	p := Payload{Text: "just text"}

	values := p.Query()

	require.Equal(t, "just text", values.Get(QueryTextKey))
	require.False(t, values.Has(QueryTitleKey))
	require.False(t, values.Has(QueryURLKey))
}

func TestQuery_RoundTrips(t *testing.T) {
	p := Payload{Title: "T", Text: "x", URL: "https://example.org"}
	require.Equal(t, p, FromQuery(p.Query()))
}

func TestDraft_Precedence(t *testing.T) {
	full := Payload{Title: "T", Text: "x", URL: "https://example.org"}
	require.Equal(t, "https://example.org", full.Draft())

	require.Equal(t, "x", Payload{Title: "T", Text: "x"}.Draft())
	require.Equal(t, "T", Payload{Title: "T"}.Draft())
	require.Empty(t, Payload{}.Draft())
}

func TestMergeDraft(t *testing.T) {
	link := Payload{URL: "https://example.org/a"}

	// Empty draft: the seed becomes the draft.
	require.Equal(t, "https://example.org/a", link.MergeDraft(""))
	require.Equal(t, "https://example.org/a", link.MergeDraft("   "))

	// Draft already contains the seed: unchanged.
	existing := "see https://example.org/a later"
	require.Equal(t, existing, link.MergeDraft(existing))

	// Otherwise the seed is appended on its own line.
	require.Equal(t, "my notes\nhttps://example.org/a", link.MergeDraft("my notes"))

	// An empty payload never touches the draft.
	require.Equal(t, "my notes", Payload{}.MergeDraft("my notes"))
}
