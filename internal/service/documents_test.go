// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"contract.pdf", "contract.pdf"},
		{"../../etc/passwd", "passwd"},
		{"informe legal.docx", "informe_legal.docx"},
		{"año-2026.pdf", "a_o-2026.pdf"},
		{"", "file"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.input); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMimeTypeFromExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"scan.jpg", "image/jpeg"},
		{"scan.JPEG", "image/jpeg"},
		{"contract.pdf", "application/pdf"},
		{"brief.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"unknown.xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := mimeTypeFromExtension(tt.filename); got != tt.want {
			t.Errorf("mimeTypeFromExtension(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestAllowedDocumentTypes(t *testing.T) {
	allowed := []string{"application/pdf", "image/jpeg", "image/png"}
	for _, mt := range allowed {
		if !AllowedDocumentTypes[mt] {
			t.Errorf("%s should be allowed", mt)
		}
	}

	denied := []string{"application/x-msdownload", "text/html", "video/mp4", ""}
	for _, mt := range denied {
		if AllowedDocumentTypes[mt] {
			t.Errorf("%s should not be allowed", mt)
		}
	}
}
