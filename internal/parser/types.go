package parser

import (
	"errors"
	"fmt"
	"strings"

	"rollcall/internal/model"
)

var (
	// ErrMissingHeaders 缺少必需表头
	ErrMissingHeaders = errors.New("missing required headers")
	// ErrEmptyInput 空文件
	ErrEmptyInput = errors.New("empty roster")
	// ErrUnsupportedFormat 不支持的文件类型
	ErrUnsupportedFormat = errors.New("unsupported roster format")
)

// MissingHeadersError 缺失表头明细
type MissingHeadersError struct {
	Missing []string
}

func (e *MissingHeadersError) Error() string {
	return "Missing required CSV headers: " + strings.Join(e.Missing, ", ")
}

// Is 使 errors.Is(err, ErrMissingHeaders) 成立
func (e *MissingHeadersError) Is(target error) bool {
	return target == ErrMissingHeaders
}

// ParseResult 解析结果
type ParseResult struct {
	Headers     []string       `json:"headers"`
	Records     []model.Record `json:"records"`
	SkippedRows int            `json:"skippedRows"` // 学号为空被跳过的行
	Warnings    []string       `json:"warnings,omitempty"`
}

// DuplicateIDWarning 重复学号提示
func DuplicateIDWarning(id string, firstRow, row int) string {
	return fmt.Sprintf("duplicate Student Number %s on row %d (first seen on row %d), later row wins", id, row, firstRow)
}

// UnbalancedQuoteWarning 引号不配对提示
func UnbalancedQuoteWarning(line int) string {
	return fmt.Sprintf("unbalanced quotes on line %d, values split on commas", line)
}
