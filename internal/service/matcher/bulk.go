package matcher

import (
	"strings"

	"rollcall/internal/model"
)

// Store 批量签到依赖的存储接口
type Store interface {
	Roster() []model.Record
	Verify(id string) model.VerifyOutcome
	Unverify(id string) model.UnverifyOutcome
}

// Matcher 批量签到/签退
type Matcher struct {
	store Store
}

// NewMatcher 创建批量匹配器
func NewMatcher(store Store) *Matcher {
	return &Matcher{store: store}
}

// CheckIn 批量签到
// 已签到的记录静默跳过，不计入 Changed
func (m *Matcher) CheckIn(tokens []string, mode Mode) model.Tally {
	return m.apply(tokens, mode, func(r model.Record) bool {
		return m.store.Verify(r.ID) == model.Verified
	})
}

// CheckOut 批量签退
// 未签到的记录静默跳过，不计入 Changed
func (m *Matcher) CheckOut(tokens []string, mode Mode) model.Tally {
	return m.apply(tokens, mode, func(r model.Record) bool {
		return m.store.Unverify(r.ID) == model.Removed
	})
}

// Import 处理自由粘贴文本（会议参会名单等）
// 含逗号时视为学号列表，否则每行一个姓名
func (m *Matcher) Import(text string) model.Tally {
	mode := ModeName
	if strings.Contains(text, ",") {
		mode = ModeID
	}
	return m.CheckIn(Tokenize(text), mode)
}

func (m *Matcher) apply(tokens []string, mode Mode, change func(model.Record) bool) model.Tally {
	roster := m.store.Roster()
	tally := model.Tally{Tokens: len(tokens)}

	for _, token := range tokens {
		record, ok := ResolveToken(token, roster, mode)
		if !ok {
			tally.Unmatched++
			continue
		}
		tally.Matched++
		if change(record) {
			tally.Changed++
		}
	}
	return tally
}
