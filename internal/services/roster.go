package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Roster column headers.
const (
	ColumnUserName    = "user name"
	ColumnUserEmail   = "user email"
	ColumnResumeLinks = "resume links"
)

var (
	ErrEmptyRoster       = errors.New("roster has no header row")
	ErrRosterColumns     = errors.New("roster is missing required columns")
	ErrUnsupportedRoster = errors.New("unsupported roster format")
)

// RosterEntry is one interviewee row from an uploaded candidate list.
type RosterEntry struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	ResumeLink string `json:"resumeLink"`
}

// ParseRoster picks the CSV or XLSX reader from the file extension.
func ParseRoster(filename string, data []byte) ([]RosterEntry, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseRosterCSV(bytes.NewReader(data))
	case ".xlsx":
		return ParseRosterXLSX(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRoster, filepath.Ext(filename))
	}
}

// ParseRosterCSV reads a header-first CSV. Rows missing a name, email or
// resume link are dropped and the kept values are trimmed.
func ParseRosterCSV(r io.Reader) ([]RosterEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	return rosterFromRows(records)
}

// ParseRosterXLSX reads the first sheet of a workbook with the same header
// contract as ParseRosterCSV.
func ParseRosterXLSX(r io.Reader) ([]RosterEntry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyRoster
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return rosterFromRows(rows)
}

func rosterFromRows(rows [][]string) ([]RosterEntry, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyRoster
	}

	index := make(map[string]int, len(rows[0]))
	for i, cell := range rows[0] {
		key := strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	var missing []string
	for _, col := range []string{ColumnUserName, ColumnUserEmail, ColumnResumeLinks} {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrRosterColumns, strings.Join(missing, ", "))
	}

	cell := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	entries := make([]RosterEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entry := RosterEntry{
			Name:       cell(row, ColumnUserName),
			Email:      cell(row, ColumnUserEmail),
			ResumeLink: cell(row, ColumnResumeLinks),
		}
		if entry.Name == "" || entry.Email == "" || entry.ResumeLink == "" {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
