package scanning

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/zombor/expense-tracker/internal/extraction"
)

// Engine is a recognition backend the extraction pipeline can drive
type Engine interface {
	extraction.Recognizer
	io.Closer
}

// transcribePrompt is shared by the vision-model engines. They are asked for
// a literal transcription so field extraction stays in the pipeline.
const transcribePrompt = `You are an OCR engine reading a photographed receipt.
Transcribe every line of text in the image exactly as printed, top to bottom.

Rules:
- Keep the original line breaks, one printed line per output line
- Keep the original capitalization, punctuation, currency symbols and numbers
- Do not summarize, translate, correct or reorder anything
- Do not add commentary, headings or markdown
- If the image contains no readable text, return an empty response`

// EncodePNG serializes a preprocessed image for engines that take file bytes
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}
