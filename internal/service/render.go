// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer provides a reusable HTML sanitization policy for rendered
// content. UGCPolicy allows safe formatting tags while stripping scripts,
// event handlers and other dangerous markup.
var htmlSanitizer = bluemonday.UGCPolicy()

// RenderMarkdown converts markdown source to sanitized HTML. The output is
// safe to store and serve without further escaping.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// SanitizeHTML strips dangerous markup from an HTML fragment.
func SanitizeHTML(fragment string) string {
	return htmlSanitizer.Sanitize(fragment)
}

// SanitizeText strips all HTML from a string, leaving plain text. Used for
// fields that must never contain markup, such as contact form input.
func SanitizeText(s string) string {
	return bluemonday.StrictPolicy().Sanitize(s)
}
