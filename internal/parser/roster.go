package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"rollcall/internal/model"
)

// ParseCSV 解析逗号分隔的花名册文本
// 第一行为表头，其余为数据行；空行忽略
func ParseCSV(text string) (*ParseResult, error) {
	rows, warnings := readCSVRows(StripBOM(text))
	result, err := parseRows(rows)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(warnings, result.Warnings...)
	return result, nil
}

// ParseFile 按扩展名选择解析方式
func ParseFile(name string, r io.Reader) (*ParseResult, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", "":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read roster: %w", err)
		}
		return ParseCSV(string(data))
	case ".xlsx", ".xlsm":
		return ParseWorkbook(r, "")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// readCSVRows 逐行读取，一条记录不跨行
// 带引号且含逗号的值保持为一个字段；引号不配对的行按逗号直接拆分并给出警告
func readCSVRows(text string) ([][]string, []string) {
	var (
		rows     [][]string
		warnings []string
	)
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		reader := csv.NewReader(strings.NewReader(line))
		reader.FieldsPerRecord = -1
		row, err := reader.Read()
		if err != nil {
			row = strings.Split(line, ",")
			warnings = append(warnings, UnbalancedQuoteWarning(i+1))
		}
		rows = append(rows, row)
	}
	return rows, warnings
}

// parseRows 校验表头并逐行构建记录
func parseRows(rows [][]string) (*ParseResult, error) {
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = NormalizeHeader(h)
	}

	if missing := MissingColumns(header); len(missing) > 0 {
		return nil, &MissingHeadersError{Missing: missing}
	}

	result := &ParseResult{
		Headers: header,
		Records: make([]model.Record, 0, len(rows)-1),
	}
	seen := make(map[string]int) // 学号 -> Records 下标
	firstRow := make(map[string]int)

	for i, row := range rows[1:] {
		rowNum := i + 2
		values := make([]string, len(header))
		for j := range header {
			if j < len(row) {
				values[j] = strings.TrimSpace(row[j])
			}
		}

		record := model.NewRecord(model.NewFields(header, values))
		if record.ID == "" {
			result.SkippedRows++
			continue
		}

		if idx, ok := seen[record.ID]; ok {
			result.Records[idx] = record
			result.Warnings = append(result.Warnings, DuplicateIDWarning(record.ID, firstRow[record.ID], rowNum))
			continue
		}
		seen[record.ID] = len(result.Records)
		firstRow[record.ID] = rowNum
		result.Records = append(result.Records, record)
	}

	return result, nil
}

// MissingColumns 返回表头中缺失的必需列（按必需列顺序）
func MissingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}

	var missing []string
	for _, col := range model.RequiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		if IsBlankRow(row) {
			continue
		}
		out = append(out, row)
	}
	return out
}
