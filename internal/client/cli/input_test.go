package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword(&out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Unix newlines, stop on empty line",
			input:    "/a/1.jpg\n/a/2.jpg\n\n",
			expected: []string{"/a/1.jpg", "/a/2.jpg"},
		},
		{
			name:     "Windows CRLF, stop on empty line",
			input:    "/a/1.jpg\r\n/a/2.jpg\r\n\r\n",
			expected: []string{"/a/1.jpg", "/a/2.jpg"},
		},
		{
			name:     "Immediate blank line gives empty slice",
			input:    "\n",
			expected: []string{},
		},
		{
			name:     "EOF without trailing blank line",
			input:    "/a/1.jpg\n/a/2.jpg",
			expected: []string{"/a/1.jpg", "/a/2.jpg"},
		},
		{
			name:     "Surrounding spaces are trimmed",
			input:    "  /a/with space.jpg  \n\n",
			expected: []string{"/a/with space.jpg"},
		},
		{
			name:     "Line with only spaces terminates",
			input:    "   \n/a/1.jpg\n\n",
			expected: []string{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetPaths(rdr(tc.input), "Enter paths", &out)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}
