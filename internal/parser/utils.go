package parser

import (
	"strings"
)

const utf8BOM = "\ufeff"

// StripBOM 去除表格软件导出时附带的 UTF-8 BOM
func StripBOM(text string) string {
	return strings.TrimPrefix(text, utf8BOM)
}

// NormalizeHeader 规范化表头：去 BOM、去首尾空白
// 不做模糊匹配，列名必须与必需列完全一致
func NormalizeHeader(name string) string {
	return strings.TrimSpace(StripBOM(name))
}

// IsBlankRow 判断是否为全空行
func IsBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
