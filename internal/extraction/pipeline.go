package extraction

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// State is a step of the extraction state machine
type State string

const (
	StateStart           State = "start"
	StateTextExtracted   State = "text_extracted"
	StateFieldsExtracted State = "fields_extracted"
	StateClassified      State = "classified"
	StateScored          State = "scored"
	StateDone            State = "done"
	StateFailed          State = "failed"
)

// Pipeline turns a receipt image into a candidate expense.
// It keeps no per-call state; one instance can serve concurrent callers.
type Pipeline struct {
	preprocessor Preprocessor
	text         *TextExtractor
	merchants    MerchantExtractor
	amounts      AmountExtractor
	dates        DateExtractor
	classifier   Classifier
	scorer       Scorer
	logger       *slog.Logger
}

// NewPipeline creates a Pipeline reading text with engine and dating against the wall clock
func NewPipeline(engine Recognizer) *Pipeline {
	return NewPipelineWithDeps(engine, defaultTimeSource{}, slog.Default())
}

// NewPipelineWithDeps creates a Pipeline with custom dependencies for testing
func NewPipelineWithDeps(engine Recognizer, clock TimeSource, logger *slog.Logger) *Pipeline {
	if clock == nil {
		clock = defaultTimeSource{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		text:   NewTextExtractor(engine),
		dates:  NewDateExtractor(clock),
		scorer: NewScorer(clock),
		logger: logger,
	}
}

// Run decodes, preprocesses and recognizes the image, then extracts fields.
// It returns either a complete Result or a single *Error.
func (p *Pipeline) Run(ctx context.Context, data []byte, contentType string) (*Result, error) {
	start := time.Now()
	rawText, err := p.recognize(ctx, data, contentType)
	if err != nil {
		p.logger.Debug("extraction failed",
			"state", StateFailed,
			"content_type", contentType,
			"size", len(data),
			"error", err,
		)
		return nil, err
	}
	p.logger.Debug("text extracted",
		"state", StateTextExtracted,
		"chars", len(rawText),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return p.ExtractText(rawText)
}

// recognize keeps the decoded image scoped to this call so it can be
// released as soon as the text is available.
func (p *Pipeline) recognize(ctx context.Context, data []byte, contentType string) (string, error) {
	img, err := DecodeImage(data, contentType)
	if err != nil {
		return "", fail(StateStart, ErrImageDecode, err)
	}
	processed := p.preprocessor.Process(img)
	return p.text.Extract(ctx, processed)
}

// ExtractText runs the pipeline from already recognized text
func (p *Pipeline) ExtractText(rawText string) (*Result, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, p.failed(fail(StateStart, ErrEmptyText, nil))
	}

	merchant := p.merchants.Extract(rawText)
	amount, ok := p.amounts.Extract(rawText)
	if !ok {
		return nil, p.failed(fail(StateTextExtracted, ErrMissingAmount, nil), "merchant", merchant)
	}
	date := p.dates.Extract(rawText)
	p.logger.Debug("fields extracted",
		"state", StateFieldsExtracted,
		"merchant", merchant,
		"amount", amount.String(),
		"date", date.Format(DateLayout),
	)

	category := p.classifier.Classify(merchant, rawText)
	p.logger.Debug("classified", "state", StateClassified, "category", category)

	confidence := p.scorer.Score(Signals{
		Merchant:    merchant,
		AmountFound: true,
		Date:        date,
	})
	p.logger.Debug("scored", "state", StateScored, "confidence", confidence)

	result := &Result{
		Merchant:   merchant,
		Amount:     amount.Round(2),
		Date:       date,
		Category:   category,
		Confidence: confidence,
		RawText:    rawText,
	}
	p.logger.Debug("extraction done", "state", StateDone)
	return result, nil
}

func (p *Pipeline) failed(err *Error, attrs ...any) *Error {
	p.logger.Debug("extraction failed",
		append([]any{"state", StateFailed, "from", err.State, "reason", err.Reason()}, attrs...)...,
	)
	return err
}
