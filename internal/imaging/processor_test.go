// Copyright (c) 2025-2026 Zafiralex
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/sergio129/zafiralex-sub000/internal/model"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestProcessorIsImage(t *testing.T) {
	p := NewProcessor(t.TempDir())

	tests := []struct {
		mimeType string
		want     bool
	}{
		{model.MimeTypeJPEG, true},
		{model.MimeTypePNG, true},
		{model.MimeTypeGIF, true},
		{model.MimeTypeWebP, true},
		{model.MimeTypePDF, false},
		{model.MimeTypeDOCX, false},
		{"application/octet-stream", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := p.IsImage(tt.mimeType); got != tt.want {
				t.Errorf("IsImage(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestProcessCover(t *testing.T) {
	baseDir := t.TempDir()
	p := NewProcessor(baseDir)

	data := encodeJPEG(t, createTestImage(100, 80))

	result, err := p.ProcessCover(bytes.NewReader(data), "test-uuid", "photo.jpg")
	if err != nil {
		t.Fatalf("ProcessCover failed: %v", err)
	}

	if result.Width != 100 || result.Height != 80 {
		t.Errorf("dimensions = %dx%d, want 100x80", result.Width, result.Height)
	}
	if result.MimeType != model.MimeTypeJPEG {
		t.Errorf("MimeType = %q, want %q", result.MimeType, model.MimeTypeJPEG)
	}
	if _, err := os.Stat(result.FilePath); err != nil {
		t.Errorf("cover file not saved: %v", err)
	}
	if result.Filename != "photo.jpg" {
		t.Errorf("Filename = %q, want photo.jpg", result.Filename)
	}
}

func TestProcessCoverSanitizesFilename(t *testing.T) {
	baseDir := t.TempDir()
	p := NewProcessor(baseDir)

	data := encodeJPEG(t, createTestImage(50, 50))

	result, err := p.ProcessCover(bytes.NewReader(data), "dir-uuid", "../../evil/photo.jpg")
	if err != nil {
		t.Fatalf("ProcessCover failed: %v", err)
	}

	// The stored name must be the basename the file was written under
	if result.Filename != "photo.jpg" {
		t.Errorf("Filename = %q, want photo.jpg", result.Filename)
	}
	want := filepath.Join(baseDir, "news", "dir-uuid", "photo.jpg")
	if result.FilePath != want {
		t.Errorf("FilePath = %q, want %q", result.FilePath, want)
	}
}

func TestProcessCoverScalesDown(t *testing.T) {
	p := NewProcessor(t.TempDir())

	data := encodeJPEG(t, createTestImage(CoverMaxWidth*2, 400))

	result, err := p.ProcessCover(bytes.NewReader(data), "big-uuid", "big.jpg")
	if err != nil {
		t.Fatalf("ProcessCover failed: %v", err)
	}
	if result.Width > CoverMaxWidth {
		t.Errorf("width = %d, want <= %d", result.Width, CoverMaxWidth)
	}
}

func TestProcessCoverRejectsNonImage(t *testing.T) {
	p := NewProcessor(t.TempDir())

	_, err := p.ProcessCover(bytes.NewReader([]byte("not an image at all")), "uuid", "file.txt")
	if err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestCreateThumbnail(t *testing.T) {
	baseDir := t.TempDir()
	p := NewProcessor(baseDir)

	sourcePath := filepath.Join(baseDir, "source.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(800, 600)); err != nil {
		t.Fatalf("failed to encode source: %v", err)
	}
	if err := os.WriteFile(sourcePath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	thumbPath, err := p.CreateThumbnail(sourcePath, "doc-uuid")
	if err != nil {
		t.Fatalf("CreateThumbnail failed: %v", err)
	}

	f, err := os.Open(thumbPath)
	if err != nil {
		t.Fatalf("thumbnail not saved: %v", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("failed to decode thumbnail: %v", err)
	}
	if cfg.Width > ThumbnailWidth || cfg.Height > ThumbnailHeight {
		t.Errorf("thumbnail = %dx%d, want within %dx%d", cfg.Width, cfg.Height, ThumbnailWidth, ThumbnailHeight)
	}
}

func TestDeleteFiles(t *testing.T) {
	baseDir := t.TempDir()
	p := NewProcessor(baseDir)

	data := encodeJPEG(t, createTestImage(50, 50))
	result, err := p.ProcessCover(bytes.NewReader(data), "del-uuid", "gone.jpg")
	if err != nil {
		t.Fatalf("ProcessCover failed: %v", err)
	}

	if err := p.DeleteFiles("del-uuid"); err != nil {
		t.Fatalf("DeleteFiles failed: %v", err)
	}
	if _, err := os.Stat(result.FilePath); !os.IsNotExist(err) {
		t.Error("cover file should have been removed")
	}

	// Deleting a missing UUID is not an error
	if err := p.DeleteFiles("never-existed"); err != nil {
		t.Errorf("DeleteFiles on missing uuid: %v", err)
	}
}

func TestSaveImageFileRejectsTraversal(t *testing.T) {
	p := NewProcessor(t.TempDir())

	if _, err := p.saveImageFile("../outside", "f.jpg", []byte("x")); err == nil {
		t.Error("expected error for traversal subdir")
	}
	if _, err := p.saveImageFile("news/ok", "..", []byte("x")); err == nil {
		t.Error("expected error for invalid filename")
	}
}
