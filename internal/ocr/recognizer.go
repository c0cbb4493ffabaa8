// Package ocr turns menu images into text fragments with per-word
// confidence scores.
package ocr

import (
	"context"
	"errors"
	"strings"
)

// ErrImageNotFound reports that the input image path does not exist.
var ErrImageNotFound = errors.New("image not found")

// Fragment is a recognized piece of text with the engine's confidence
// in the range [0, 1].
type Fragment struct {
	Text       string
	Confidence float64
}

// Recognizer extracts text fragments from an image on disk.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) ([]Fragment, error)
}

// JoinText concatenates fragment text with newlines, preserving the
// recognizer's reading order. Fragments whose text is blank are skipped.
func JoinText(fragments []Fragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		text := strings.TrimSpace(f.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n")
}
