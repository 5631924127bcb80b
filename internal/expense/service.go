package expense

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/expense-tracker/internal/extraction"
)

// Extractor turns receipt bytes into a candidate expense
type Extractor interface {
	Run(ctx context.Context, data []byte, contentType string) (*extraction.Result, error)
}

// IDGenerator generates unique IDs for expenses
type IDGenerator interface {
	Generate() string
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles expense operations
type Service struct {
	db          DB
	extractor   Extractor
	storage     Storage
	idGenerator IDGenerator
	timeSource  extraction.TimeSource
}

// NewService creates a new Service with UUID IDs and the wall clock
func NewService(db DB, extractor Extractor, storage Storage) *Service {
	return NewServiceWithDeps(db, extractor, storage, uuidGenerator{}, defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, extractor Extractor, storage Storage, idGen IDGenerator, timeSrc extraction.TimeSource) *Service {
	return &Service{
		db:          db,
		extractor:   extractor,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// ScanResult is the outcome of scanning an uploaded receipt.
// The stored file can be attached to an expense through Input.ReceiptFile.
type ScanResult struct {
	ReceiptFile string             `json:"receipt_file"`
	ContentType string             `json:"content_type"`
	Extraction  *extraction.Result `json:"extraction"`
}

// ScanReceipt stores the upload and extracts a candidate expense from it.
// Nothing is kept when extraction fails.
func (s *Service) ScanReceipt(ctx context.Context, filename string, data []byte, contentType string) (*ScanResult, error) {
	name := fmt.Sprintf("%s_%s", s.idGenerator.Generate(), sanitizeFilename(filename))
	saved, err := s.storage.Save(name, data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	result, err := s.extractor.Run(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		if delErr := s.storage.Delete(saved); delErr != nil {
			slog.Warn("Failed to delete file", "filename", saved, "error", delErr)
		}
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	slog.Info("Scanned receipt",
		"file", saved,
		"merchant", result.Merchant,
		"amount", result.Amount.StringFixed(2),
		"category", result.Category,
		"confidence", result.Confidence,
	)

	return &ScanResult{
		ReceiptFile: saved,
		ContentType: contentType,
		Extraction:  result,
	}, nil
}

// CreateExpense validates and stores a new expense
func (s *Service) CreateExpense(in Input) (*Expense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.ReceiptFile != "" {
		if _, err := s.storage.Get(in.ReceiptFile); err != nil {
			return nil, invalid("receipt_file", "unknown receipt file")
		}
	}

	now := s.timeSource.Now()
	expense := &Expense{
		ID:          s.idGenerator.Generate(),
		Merchant:    in.Merchant,
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        in.Date,
		Notes:       in.Notes,
		ReceiptFile: in.ReceiptFile,
		ContentType: in.ContentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.SaveExpense(expense); err != nil {
		return nil, fmt.Errorf("saving expense: %w", err)
	}
	return expense, nil
}

// GetExpense retrieves an expense by ID
func (s *Service) GetExpense(id string) (*Expense, error) {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	return expense, nil
}

// UpdateExpense applies a partial update
func (s *Service) UpdateExpense(id string, patch Patch) (*Expense, error) {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	if err := patch.apply(expense); err != nil {
		return nil, err
	}
	expense.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveExpense(expense); err != nil {
		return nil, fmt.Errorf("saving expense: %w", err)
	}
	return expense, nil
}

// DeleteExpense removes an expense and its receipt file
func (s *Service) DeleteExpense(id string) error {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return fmt.Errorf("getting expense for deletion: %w", err)
	}

	if expense.ReceiptFile != "" {
		if err := s.storage.Delete(expense.ReceiptFile); err != nil {
			// the record is still removed
			slog.Warn("Failed to delete file", "filename", expense.ReceiptFile, "error", err)
		}
	}

	if err := s.db.DeleteExpense(id); err != nil {
		return fmt.Errorf("deleting expense from database: %w", err)
	}
	return nil
}

// GetReceiptFile returns the stored receipt of an expense and its content type
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting expense: %w", err)
	}
	if expense.ReceiptFile == "" {
		return nil, "", fmt.Errorf("expense %s: %w", id, ErrFileNotFound)
	}

	data, err := s.storage.Get(expense.ReceiptFile)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	contentType := expense.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

// ListExpenses returns the expenses matching filter, newest date first
func (s *Service) ListExpenses(filter Filter) ([]*Expense, error) {
	if filter.Category != "" {
		c, err := normalizeCategory(filter.Category)
		if err != nil {
			return nil, err
		}
		filter.Category = c
	}
	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() && filter.EndDate.Before(filter.StartDate.Time) {
		return nil, invalid("end_date", "must not be before start_date")
	}

	all, err := s.db.ListExpenses()
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	expenses := make([]*Expense, 0, len(all))
	for _, e := range all {
		if filter.matches(e) {
			expenses = append(expenses, e)
		}
	}
	slices.SortStableFunc(expenses, func(a, b *Expense) int {
		if c := b.Date.Compare(a.Date.Time); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return expenses, nil
}

// expensesBetween is used by the analytics and skips validation
func (s *Service) expensesBetween(start, end Date) ([]*Expense, error) {
	all, err := s.db.ListExpenses()
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	filter := Filter{StartDate: start, EndDate: end}
	out := make([]*Expense, 0, len(all))
	for _, e := range all {
		if filter.matches(e) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b *Expense) int {
		return cmp.Compare(a.Date.Unix(), b.Date.Unix())
	})
	return out, nil
}

// today is the current calendar day of the service clock
func (s *Service) today() Date {
	return DateOf(s.timeSource.Now())
}

// IsNotFound reports whether err means a missing expense or file
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrFileNotFound)
}
