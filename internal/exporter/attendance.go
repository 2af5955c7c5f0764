package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"rollcall/internal/model"
)

// ErrNothingToExport 没有已签到记录
var ErrNothingToExport = errors.New("no verified records to export")

// DefaultTimeLayout 默认签到时间格式
const DefaultTimeLayout = "2006-01-02 15:04:05"

// Format 导出格式
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat 解析导出格式
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Headers 导出表头
var Headers = []string{
	model.ColStudentNumber,
	model.ColPreferredFirstName,
	model.ColPrimaryLastName,
	model.ColEmailAddress,
	"Verified At",
}

// Exporter 签到名单导出器
type Exporter struct {
	timeLayout string
}

// NewExporter 创建导出器，layout 为空时使用默认格式
func NewExporter(layout string) *Exporter {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return &Exporter{timeLayout: layout}
}

// Row 单条导出行
func (e *Exporter) Row(r model.Record, at time.Time) []string {
	return []string{
		r.Fields.Get(model.ColStudentNumber),
		r.FirstName(),
		r.LastName(),
		r.Fields.Get(model.ColEmailAddress),
		at.Format(e.timeLayout),
	}
}

// CSV 导出为 CSV 文本
// 含逗号、引号或换行的值会加引号
func (e *Exporter) CSV(records []model.Record, at time.Time) (string, error) {
	if len(records) == 0 {
		return "", ErrNothingToExport
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Headers); err != nil {
		return "", err
	}
	for _, r := range records {
		if err := w.Write(e.Row(r, at)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}

	return buf.String(), nil
}

// Workbook 导出为 Excel 工作簿
func (e *Exporter) Workbook(records []model.Record, at time.Time) (*excelize.File, error) {
	if len(records) == 0 {
		return nil, ErrNothingToExport
	}

	f := excelize.NewFile()
	sheetName := "Attendance"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	// 表头样式
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err == nil {
		f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for i, r := range records {
		// 学号按文本写入，避免前导零丢失
		row := e.Row(r, at)
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellStr(sheetName, cell, v)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 18)
	f.SetColWidth(sheetName, "B", "C", 20)
	f.SetColWidth(sheetName, "D", "D", 30)
	f.SetColWidth(sheetName, "E", "E", 22)

	return f, nil
}

// Render 按格式导出为字节
func (e *Exporter) Render(format Format, records []model.Record, at time.Time) ([]byte, error) {
	switch format {
	case FormatXLSX:
		f, err := e.Workbook(records, at)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		buf, err := f.WriteToBuffer()
		if err != nil {
			return nil, fmt.Errorf("write workbook: %w", err)
		}
		return buf.Bytes(), nil
	default:
		text, err := e.CSV(records, at)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	}
}

// FileName 生成导出文件名 attendance_<YYYY-MM-DD>.<ext>
func FileName(at time.Time, format Format) string {
	return fmt.Sprintf("attendance_%s.%s", at.UTC().Format("2006-01-02"), format)
}

// ContentType 导出格式对应的 MIME 类型
func ContentType(format Format) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}
