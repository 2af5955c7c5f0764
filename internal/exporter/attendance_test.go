package exporter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"rollcall/internal/model"
)

func record(values ...string) model.Record {
	return model.NewRecord(model.NewFields(model.RequiredColumns, values))
}

func TestCSV_SingleRecord(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	r := record("301234567", "Lee", "Amy", "", "", "amy@example.com", "1 Main St", "555")

	out, err := NewExporter("").CSV([]model.Record{r}, at)
	if err != nil {
		t.Fatalf("CSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines=%d, want 2: %q", len(lines), out)
	}
	if lines[0] != "Student Number,Preferred First Name,Primary Last Name,Email Address,Verified At" {
		t.Fatalf("header=%q", lines[0])
	}
	if lines[1] != "301234567,Amy,Lee,amy@example.com,2026-03-05 14:30:00" {
		t.Fatalf("row=%q", lines[1])
	}
}

func TestCSV_PreferredNameAndQuoting(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	r := record("301234568", "Smith, Jr", "Jonathan", "", "John", "john@example.com", "", "")

	out, err := NewExporter(time.RFC3339).CSV([]model.Record{r}, at)
	if err != nil {
		t.Fatalf("CSV failed: %v", err)
	}
	want := "301234568,John,\"Smith, Jr\",john@example.com,2026-03-05T14:30:00Z"
	if !strings.Contains(out, want) {
		t.Fatalf("row not found in %q", out)
	}
}

func TestCSV_Empty(t *testing.T) {
	t.Parallel()

	if _, err := NewExporter("").CSV(nil, time.Now()); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}

func TestWorkbook(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	records := []model.Record{
		record("001234567", "Lee", "Amy", "", "", "amy@example.com"),
		record("301234568", "Smith", "Jonathan", "", "John", "john@example.com"),
	}

	data, err := NewExporter("").Render(FormatXLSX, records, at)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open exported workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows=%d, want 3", len(rows))
	}
	if rows[1][0] != "001234567" {
		t.Fatalf("leading zeros lost: %q", rows[1][0])
	}
	if rows[2][1] != "John" {
		t.Fatalf("first name=%q", rows[2][1])
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 10, 16, 23, 0, 0, 0, time.UTC)
	if got := FileName(at, FormatCSV); got != "attendance_2026-10-16.csv" {
		t.Fatalf("FileName=%q", got)
	}
	if got := FileName(at, FormatXLSX); got != "attendance_2026-10-16.xlsx" {
		t.Fatalf("FileName=%q", got)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if f, err := ParseFormat(""); err != nil || f != FormatCSV {
		t.Fatalf("ParseFormat(\"\")=%v,%v", f, err)
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Fatalf("expected error for pdf")
	}
}
