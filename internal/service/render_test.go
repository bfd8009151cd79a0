package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown("Hola **mundo**")
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>mundo</strong>")
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	html, err := RenderMarkdown("texto\n\n<script>alert('xss')</script>")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script")
	assert.Contains(t, html, "texto")
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b>", "bold"},
		{"<a href=\"http://evil\">link</a>", "link"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeText(tt.input), "SanitizeText(%q)", tt.input)
	}
}
