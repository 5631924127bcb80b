// Package tesseract runs recognition through a local Tesseract install.
// It needs cgo and the tesseract/leptonica headers at build time.
package tesseract

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/zombor/expense-tracker/internal/extraction"
	"github.com/zombor/expense-tracker/internal/scanning"
)

// Tesseract implements scanning.Engine with gosseract
type Tesseract struct {
	languages      []string
	tessdataPrefix string
}

// New creates a Tesseract engine. Languages default to English.
func New(tessdataPrefix string, languages ...string) *Tesseract {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Tesseract{
		languages:      languages,
		tessdataPrefix: tessdataPrefix,
	}
}

// Recognize reads img with a fresh client so calls can run concurrently.
// gosseract always initializes with the default engine mode, so only
// extraction.EngineModeDefault is accepted.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image, cfg extraction.RecognizeConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if cfg.EngineMode != extraction.EngineModeDefault {
		return "", fmt.Errorf("unsupported engine mode %d", cfg.EngineMode)
	}

	data, err := scanning.EncodePNG(img)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.tessdataPrefix); err != nil {
			return "", fmt.Errorf("setting tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("setting language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode)); err != nil {
		return "", fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("loading image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}
	return text, nil
}

// Close is a no-op; clients are released after every call
func (t *Tesseract) Close() error {
	return nil
}

var _ scanning.Engine = (*Tesseract)(nil)
