//go:build cgo

package main

import (
	"log/slog"
	"strings"

	"github.com/zombor/expense-tracker/internal/scanning"
	"github.com/zombor/expense-tracker/internal/scanning/tesseract"
)

const tesseractSupported = true

func newTesseract(cfg engineConfig) (scanning.Engine, error) {
	langs := strings.Split(cfg.tesseractLang, "+")
	slog.Info("Initializing Tesseract engine...", "languages", langs)
	return tesseract.New(cfg.tessdataPrefix, langs...), nil
}
