package expense

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zombor/expense-tracker/internal/extraction"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}

// writeServiceError maps service errors onto status codes
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	var extractionErr *extraction.Error
	switch {
	case errors.As(err, &validationErr):
		writeJSONError(w, validationErr.Error(), http.StatusBadRequest)
	case IsNotFound(err):
		writeJSONError(w, "Not found", http.StatusNotFound)
	case errors.As(err, &extractionErr):
		writeJSONError(w, extractionErr.Reason(), http.StatusUnprocessableEntity)
	default:
		slog.Error("Request failed", "error", err)
		writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// decodeBody rejects unknown fields so typos do not silently drop updates
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ValidationError{Field: "body", Message: err.Error()}
	}
	return nil
}

func queryDate(r *http.Request, name string) (Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return Date{}, nil
	}
	d, err := ParseDate(raw)
	if err != nil {
		return Date{}, invalid(name, "must be YYYY-MM-DD")
	}
	return d, nil
}

func queryFilter(r *http.Request) (Filter, error) {
	var f Filter
	var err error
	f.Category = extraction.Category(r.URL.Query().Get("category"))
	if f.StartDate, err = queryDate(r, "start_date"); err != nil {
		return f, err
	}
	if f.EndDate, err = queryDate(r, "end_date"); err != nil {
		return f, err
	}
	return f, nil
}

// contentTypeFor falls back to the file extension when the part has no type
func contentTypeFor(header string, filename string) string {
	contentType := strings.ToLower(strings.TrimSpace(header))
	if i := strings.Index(contentType, ";"); i != -1 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	return "application/octet-stream"
}

func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	// leave room for the multipart envelope around the file
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+1<<20)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, fmt.Sprintf("File is too large. Maximum size is %d bytes.", s.maxUpload), http.StatusRequestEntityTooLarge)
			return
		}
		writeJSONError(w, "Error parsing form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, "No file was provided", http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > s.maxUpload {
		writeJSONError(w, fmt.Sprintf("File is too large. Maximum size is %d bytes.", s.maxUpload), http.StatusRequestEntityTooLarge)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeJSONError(w, "Error reading file", http.StatusInternalServerError)
		return
	}
	if len(data) == 0 {
		writeJSONError(w, "File is empty", http.StatusBadRequest)
		return
	}

	contentType := contentTypeFor(header.Header.Get("Content-Type"), header.Filename)
	result, err := s.service.ScanReceipt(r.Context(), header.Filename, data, contentType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := queryFilter(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	expenses, err := s.service.ListExpenses(filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := decodeBody(r, &in); err != nil {
		writeServiceError(w, err)
		return
	}
	expense, err := s.service.CreateExpense(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.service.GetExpense(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if err := decodeBody(r, &patch); err != nil {
		writeServiceError(w, err)
		return
	}
	expense, err := s.service.UpdateExpense(r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteExpense(r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetReceiptFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetReceiptFile(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

func (s *Server) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := queryFilter(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// render first so a failure can still produce an error response
	var buf strings.Builder
	stamp := s.service.timeSource.Now().Format("20060102")
	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		if err := s.service.ExportCSV(&buf, filter); err != nil {
			writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=expenses_%s.csv", stamp))
	case "xlsx":
		if err := s.service.ExportXLSX(&buf, filter); err != nil {
			writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=expenses_%s.xlsx", stamp))
	default:
		writeServiceError(w, invalid("format", "must be csv or xlsx"))
		return
	}
	io.WriteString(w, buf.String())
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Categories())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start_date")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	end, err := queryDate(r, "end_date")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	summary, err := s.service.Summary(start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = PeriodMonthly
	}
	months := DefaultTrendMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeServiceError(w, invalid("months", "must be a number"))
			return
		}
		months = n
	}
	trends, err := s.service.Trends(period, months)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}
