//go:build !cgo

package main

import (
	"errors"

	"github.com/zombor/expense-tracker/internal/scanning"
)

const tesseractSupported = false

// newTesseract fails in builds without cgo; gemini and ollama still work there
func newTesseract(engineConfig) (scanning.Engine, error) {
	return nil, errors.New("tesseract engine requires a cgo build: use --engine gemini or ollama")
}
