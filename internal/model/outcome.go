package model

// VerifyOutcome 签到结果
type VerifyOutcome string

const (
	Verified        VerifyOutcome = "verified"         // 新签到
	AlreadyVerified VerifyOutcome = "already_verified" // 已签到，无变化
	VerifyNotFound  VerifyOutcome = "not_found"        // 花名册中不存在
)

// UnverifyOutcome 取消签到结果
type UnverifyOutcome string

const (
	Removed          UnverifyOutcome = "removed"
	UnverifyNotFound UnverifyOutcome = "not_found" // 未签到或不在花名册
)

// NoticeLevel 提示级别
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice 返回给界面的提示消息
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Tally 批量操作统计
type Tally struct {
	Tokens    int `json:"tokens"`    // 输入条目数
	Matched   int `json:"matched"`   // 匹配到花名册的条目数
	Changed   int `json:"changed"`   // 实际发生状态变化的条目数
	Unmatched int `json:"unmatched"` // 未匹配条目数
}

// Add 合并统计
func (t Tally) Add(o Tally) Tally {
	return Tally{
		Tokens:    t.Tokens + o.Tokens,
		Matched:   t.Matched + o.Matched,
		Changed:   t.Changed + o.Changed,
		Unmatched: t.Unmatched + o.Unmatched,
	}
}
