package model

import (
	"encoding/json"
	"strings"
	"time"
)

// 花名册列名
const (
	ColStudentNumber      = "Student Number"
	ColPrimaryLastName    = "Primary Last Name"
	ColPrimaryFirstName   = "Primary First Name"
	ColPrimaryMiddleName  = "Primary Middle Name"
	ColPreferredFirstName = "Preferred First Name"
	ColEmailAddress       = "Email Address"
	ColMailingAddress     = "Mailing Address"
	ColPhoneNumber        = "Phone Number"
)

// RequiredColumns 花名册必需列（顺序即报错顺序）
var RequiredColumns = []string{
	ColStudentNumber,
	ColPrimaryLastName,
	ColPrimaryFirstName,
	ColPrimaryMiddleName,
	ColPreferredFirstName,
	ColEmailAddress,
	ColMailingAddress,
	ColPhoneNumber,
}

// Fields 原始列值，保持列顺序
type Fields struct {
	columns []string
	values  map[string]string
}

// NewFields 按列顺序构建字段表，重复列名以后出现的值为准
func NewFields(columns, values []string) Fields {
	f := Fields{values: make(map[string]string, len(columns))}
	for i, col := range columns {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		f.Set(col, v)
	}
	return f
}

// Set 设置字段值，新列追加到末尾
func (f *Fields) Set(column, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[column]; !ok {
		f.columns = append(f.columns, column)
	}
	f.values[column] = value
}

// Get 获取字段值，列不存在时返回空串
func (f Fields) Get(column string) string {
	return f.values[column]
}

// Columns 列名（原始顺序）
func (f Fields) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// MarshalJSON 按列顺序输出
func (f Fields) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, col := range f.columns {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.values[col])
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// Record 花名册中的一条记录
type Record struct {
	ID          string `json:"id"`          // 学号
	DisplayName string `json:"displayName"` // 展示名
	Fields      Fields `json:"fields"`      // 原始列值
	Verified    bool   `json:"verified"`    // 是否已签到
}

// FirstName 优先取 Preferred First Name，为空时回退到 Primary First Name
func (r Record) FirstName() string {
	if v := r.Fields.Get(ColPreferredFirstName); v != "" {
		return v
	}
	return r.Fields.Get(ColPrimaryFirstName)
}

// LastName 姓
func (r Record) LastName() string {
	return r.Fields.Get(ColPrimaryLastName)
}

// PreferredFullName Preferred First Name + 空格 + Primary Last Name（不做回退）
func (r Record) PreferredFullName() string {
	return r.Fields.Get(ColPreferredFirstName) + " " + r.Fields.Get(ColPrimaryLastName)
}

// NewRecord 由字段表构建记录
func NewRecord(fields Fields) Record {
	r := Record{
		ID:     fields.Get(ColStudentNumber),
		Fields: fields,
	}
	r.DisplayName = r.FirstName() + " " + r.LastName()
	return r
}


// VerifiedEntry 已签到条目
type VerifiedEntry struct {
	Record     Record    `json:"record"`
	VerifiedAt time.Time `json:"verifiedAt"`
}
