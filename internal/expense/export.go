package expense

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"ID", "Date", "Merchant", "Category", "Amount", "Notes"}

const exportSheet = "Expenses"

func exportRow(e *Expense) []string {
	return []string{
		e.ID,
		e.Date.String(),
		e.Merchant,
		string(e.Category),
		e.Amount.StringFixed(2),
		e.Notes,
	}
}

// ExportCSV writes the expenses matching filter as CSV, newest first
func (s *Service) ExportCSV(w io.Writer, filter Filter) error {
	expenses, err := s.ListExpenses(filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range expenses {
		if err := cw.Write(exportRow(e)); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportXLSX writes the expenses matching filter as a workbook with one sheet
func (s *Service) ExportXLSX(w io.Writer, filter Filter) error {
	expenses, err := s.ListExpenses(filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range expenses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			e.ID,
			e.Date.String(),
			e.Merchant,
			string(e.Category),
			e.Amount.InexactFloat64(),
			e.Notes,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 38) // id
	_ = f.SetColWidth(exportSheet, "B", "B", 12) // date
	_ = f.SetColWidth(exportSheet, "C", "C", 32) // merchant
	_ = f.SetColWidth(exportSheet, "D", "E", 14)
	_ = f.SetColWidth(exportSheet, "F", "F", 48) // notes

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
