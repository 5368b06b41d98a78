package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	t.Run("reads a trimmed line", func(t *testing.T) {
		reader := bufio.NewReader(strings.NewReader("  hello world  \n"))
		var out bytes.Buffer

		got, err := GetSimpleText(reader, "Say something", &out)
		require.NoError(t, err)
		assert.Equal(t, "hello world", got)
		assert.Contains(t, out.String(), "Say something")
	})

	t.Run("partial line at EOF is returned", func(t *testing.T) {
		reader := bufio.NewReader(strings.NewReader("no newline"))
		var out bytes.Buffer

		got, err := GetSimpleText(reader, "Prompt", &out)
		require.NoError(t, err)
		assert.Equal(t, "no newline", got)
	})

	t.Run("immediate EOF is an error", func(t *testing.T) {
		reader := bufio.NewReader(strings.NewReader(""))
		var out bytes.Buffer

		_, err := GetSimpleText(reader, "Prompt", &out)
		require.Error(t, err)
	})
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("hunter22"), nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	got, err := GetPassword("Enter password", &out)
	require.NoError(t, err)
	assert.Equal(t, "hunter22", got)
	assert.Contains(t, out.String(), "Enter password")
}

func TestGetMultiline(t *testing.T) {
	t.Run("joins lines until blank", func(t *testing.T) {
		reader := bufio.NewReader(strings.NewReader("first\nsecond\n\nignored\n"))
		var out bytes.Buffer

		got, err := GetMultiline(reader, "Note content", &out)
		require.NoError(t, err)
		assert.Equal(t, "first\nsecond", got)
	})

	t.Run("empty input yields empty string", func(t *testing.T) {
		reader := bufio.NewReader(strings.NewReader("\n"))
		var out bytes.Buffer

		got, err := GetMultiline(reader, "Note content", &out)
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})
}
