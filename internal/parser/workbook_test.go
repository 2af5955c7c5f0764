package parser

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"rollcall/internal/model"
)

func buildRosterWorkbook(t *testing.T, header []string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow("Sheet1", "A1", &headerRow); err != nil {
		t.Fatalf("SetSheetRow header failed: %v", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow %d failed: %v", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf
}

func TestParseWorkbook_MatchesCSV(t *testing.T) {
	t.Parallel()

	buf := buildRosterWorkbook(t, model.RequiredColumns, [][]interface{}{
		{"301234567", "Lee", "Amy", "", "", "amy@example.com", "1 Main St", "555-0100"},
		{"301234568", "Smith", "Jonathan", "", "John", "john@example.com"},
	})

	result, err := ParseFile("roster.xlsx", buf)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("records=%d, want 2", len(result.Records))
	}
	if result.Records[0].DisplayName != "Amy Lee" {
		t.Fatalf("displayName=%q", result.Records[0].DisplayName)
	}
	if result.Records[1].DisplayName != "John Smith" {
		t.Fatalf("displayName=%q", result.Records[1].DisplayName)
	}
	if result.Records[1].Fields.Get("Phone Number") != "" {
		t.Fatalf("short row should pad with empty values")
	}
}

func TestParseWorkbook_MissingHeaders(t *testing.T) {
	t.Parallel()

	buf := buildRosterWorkbook(t, []string{"Student Number", "Primary Last Name"}, nil)

	_, err := ParseWorkbook(buf, "")
	if !errors.Is(err, ErrMissingHeaders) {
		t.Fatalf("expected ErrMissingHeaders, got %v", err)
	}
}
