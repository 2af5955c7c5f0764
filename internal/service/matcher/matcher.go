package matcher

import (
	"strings"

	"golang.org/x/text/cases"

	"rollcall/internal/model"
)

// Mode 匹配模式
type Mode string

const (
	ModeID   Mode = "id"   // 学号：精确匹配，其次后缀匹配
	ModeName Mode = "name" // 姓名：忽略大小写的相等、包含、Preferred 全名相等
)

// ResolveToken 将单个条目解析为花名册记录
// 各级规则按优先级依次尝试，同一级内按花名册顺序取第一个
func ResolveToken(token string, roster []model.Record, mode Mode) (model.Record, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.Record{}, false
	}

	switch mode {
	case ModeID:
		return resolveID(token, roster)
	case ModeName:
		return resolveName(token, roster)
	default:
		return model.Record{}, false
	}
}

// resolveID 精确匹配优先；无精确匹配时取第一个以 token 结尾的学号
// 后缀可能命中多条记录，沿用"先到先得"，不视为歧义
func resolveID(token string, roster []model.Record) (model.Record, bool) {
	for _, r := range roster {
		if r.ID == token {
			return r, true
		}
	}
	for _, r := range roster {
		if strings.HasSuffix(r.ID, token) {
			return r, true
		}
	}
	return model.Record{}, false
}

func resolveName(token string, roster []model.Record) (model.Record, bool) {
	folder := cases.Fold()
	needle := folder.String(token)

	for _, r := range roster {
		if folder.String(r.DisplayName) == needle {
			return r, true
		}
	}
	for _, r := range roster {
		if strings.Contains(folder.String(r.DisplayName), needle) {
			return r, true
		}
	}
	for _, r := range roster {
		if folder.String(r.PreferredFullName()) == needle {
			return r, true
		}
	}
	return model.Record{}, false
}

// Tokenize 拆分批量粘贴文本
// 含逗号时按逗号拆分，否则按行拆分；去空白、丢弃空条目
func Tokenize(text string) []string {
	if strings.Contains(text, ",") {
		return SplitList(text)
	}
	return splitTrim(text, "\n")
}

// SplitList 按逗号拆分
func SplitList(text string) []string {
	return splitTrim(text, ",")
}

func splitTrim(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
