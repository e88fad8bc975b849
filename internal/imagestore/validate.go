package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

type ValidationOptions struct {
	MaxSizeBytes int64
	AllowedTypes []string
	MinWidth     int
	MinHeight    int
	MaxWidth     int
	MaxHeight    int
}

func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		MaxSizeBytes: 5 * 1024 * 1024,
		AllowedTypes: []string{"image/jpeg", "image/jpg", "image/png", "image/gif"},
		MinWidth:     200,
		MinHeight:    200,
		MaxWidth:     2000,
		MaxHeight:    2000,
	}
}

// ValidationError is an upload rejection with a user-facing reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func rejected(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ValidateUpload checks declared MIME type, byte size, and decoded pixel
// dimensions, in that order; the first violation wins. The dimension probe
// decodes only the image header but still honors ctx cancellation.
func ValidateUpload(ctx context.Context, mimeType string, data []byte, opts ValidationOptions) error {
	if !typeAllowed(mimeType, opts.AllowedTypes) {
		return rejected("Invalid file type. Allowed types: %s", strings.Join(opts.AllowedTypes, ", "))
	}

	if int64(len(data)) > opts.MaxSizeBytes {
		return rejected("File size too large. Maximum size: %.1fMB", float64(opts.MaxSizeBytes)/(1024*1024))
	}

	cfg, err := probeDimensions(ctx, data)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return rejected("Invalid image file")
	}

	if cfg.Width < opts.MinWidth || cfg.Height < opts.MinHeight {
		return rejected("Image dimensions too small. Minimum: %dx%dpx", opts.MinWidth, opts.MinHeight)
	}
	if cfg.Width > opts.MaxWidth || cfg.Height > opts.MaxHeight {
		return rejected("Image dimensions too large. Maximum: %dx%dpx", opts.MaxWidth, opts.MaxHeight)
	}

	return nil
}

func typeAllowed(mimeType string, allowed []string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	for _, a := range allowed {
		if mt == a {
			return true
		}
	}
	return false
}

func probeDimensions(ctx context.Context, data []byte) (image.Config, error) {
	type result struct {
		cfg image.Config
		err error
	}

	ch := make(chan result, 1)
	go func() {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		ch <- result{cfg: cfg, err: err}
	}()

	select {
	case <-ctx.Done():
		return image.Config{}, ctx.Err()
	case res := <-ch:
		return res.cfg, res.err
	}
}
