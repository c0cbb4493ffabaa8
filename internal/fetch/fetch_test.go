package fetch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageHost(t *testing.T) {
	cases := map[string]string{
		"https://Example.com/menu":      "example.com",
		"https://example.com:8443/menu": "example.com",
		"http://localhost/menu":         "localhost",
		"://not a url":                  "",
	}
	for rawURL, want := range cases {
		require.Equal(t, want, Page{URL: rawURL}.Host(), rawURL)
	}
}
