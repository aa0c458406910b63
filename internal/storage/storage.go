// Package storage persists uploaded product, banner and QR images.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
)

type ImageStore interface {
	// Save stores the image under a generated name and returns its public URL.
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// ObjectName builds "<unix>_<base><ext>" from an uploaded filename. Repeated
// image extensions are dropped and spaces become underscores.
func ObjectName(filename string, now time.Time) (string, error) {
	filename = filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExts[ext] {
		return "", domain.NewValidationError("image", "unsupported image type")
	}

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	for imageExts[strings.ToLower(filepath.Ext(base))] {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	base = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r == '/' || r == '\\' || r == '?' || r == '#' || r == '%':
			return -1
		}
		return r
	}, base)
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%d_%s%s", now.Unix(), base, ext), nil
}

func publicURL(baseURL, name string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + name
}
