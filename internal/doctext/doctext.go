// Package doctext turns uploaded documents into analyzable text.
package doctext

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for document types no extractor handles.
var ErrUnsupported = errors.New("unsupported document type")

// Extractor converts an uploaded document into plain text.
type Extractor interface {
	Extract(filename string, data []byte) (string, error)
}

// Plain handles plain-text uploads. Binary formats (PDF, images) need
// their own Extractor behind the same interface.
type Plain struct{}

func (Plain) Extract(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case "", ".txt", ".text", ".md":
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errors.New("document contains no text")
	}

	return text, nil
}
