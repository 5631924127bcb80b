package extraction

import (
	"context"
	"image"
)

// Tesseract-compatible recognition settings
const (
	// PageSegModeSingleBlock treats the image as a uniform block of text
	PageSegModeSingleBlock = 6
	// EngineModeDefault runs the legacy and LSTM engines together
	EngineModeDefault = 3
)

// RecognizeConfig tells an engine how to read the image
type RecognizeConfig struct {
	PageSegMode int
	EngineMode  int
}

// Recognizer is an external image-to-text engine
type Recognizer interface {
	// Recognize returns the text found in img. Empty text is not an error.
	Recognize(ctx context.Context, img image.Image, cfg RecognizeConfig) (string, error)
}

// RecognizerFunc adapts a function to the Recognizer interface
type RecognizerFunc func(ctx context.Context, img image.Image, cfg RecognizeConfig) (string, error)

func (f RecognizerFunc) Recognize(ctx context.Context, img image.Image, cfg RecognizeConfig) (string, error) {
	return f(ctx, img, cfg)
}

// TextExtractor runs a Recognizer with the receipt reading configuration
type TextExtractor struct {
	engine Recognizer
	config RecognizeConfig
}

// NewTextExtractor wraps engine with page-segmentation mode 6 and engine mode 3
func NewTextExtractor(engine Recognizer) *TextExtractor {
	return &TextExtractor{
		engine: engine,
		config: RecognizeConfig{
			PageSegMode: PageSegModeSingleBlock,
			EngineMode:  EngineModeDefault,
		},
	}
}

// Extract returns the raw text of img, which may be empty.
// Engine failures are reported as ErrOCREngine.
func (t *TextExtractor) Extract(ctx context.Context, img image.Image) (string, error) {
	text, err := t.engine.Recognize(ctx, img, t.config)
	if err != nil {
		return "", fail(StateStart, ErrOCREngine, err)
	}
	return text, nil
}
