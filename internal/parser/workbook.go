package parser

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseWorkbook 解析 xlsx 花名册
// sheet 为空时使用第一个工作表，表头与数据规则同 CSV
func ParseWorkbook(r io.Reader, sheet string) (*ParseResult, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer file.Close()

	return ParseSheet(file, sheet)
}

// ParseSheet 解析已打开工作簿中的工作表
func ParseSheet(file *excelize.File, sheet string) (*ParseResult, error) {
	if sheet == "" {
		sheets := file.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	return parseRows(rows)
}
