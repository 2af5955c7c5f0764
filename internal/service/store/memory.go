package store

import (
	"strings"
	"sync"
	"time"

	"rollcall/internal/model"
)

// MemoryStore 花名册与签到集合的内存存储
// 会话结束即销毁，不做持久化
type MemoryStore struct {
	roster []model.Record
	index  map[string]int // 学号 -> roster 下标

	verifiedOrder []string             // 按签到先后排列的学号
	verifiedAt    map[string]time.Time // 学号 -> 签到时间

	now func() time.Time
	mu  sync.RWMutex
}

// Option 存储选项
type Option func(*MemoryStore)

// WithClock 注入时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore 创建内存存储
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		index:      make(map[string]int),
		verifiedAt: make(map[string]time.Time),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load 整体替换花名册并清空签到集合
func (s *MemoryStore) Load(records []model.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roster = make([]model.Record, 0, len(records))
	s.index = make(map[string]int, len(records))
	for _, r := range records {
		r.Verified = false
		if idx, ok := s.index[r.ID]; ok {
			// 重复学号以后出现的为准
			s.roster[idx] = r
			continue
		}
		s.index[r.ID] = len(s.roster)
		s.roster = append(s.roster, r)
	}

	s.verifiedOrder = nil
	s.verifiedAt = make(map[string]time.Time)
}

// Verify 签到
func (s *MemoryStore) Verify(id string) model.VerifyOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return model.VerifyNotFound
	}
	if _, ok := s.verifiedAt[id]; ok {
		return model.AlreadyVerified
	}

	s.verifiedAt[id] = s.now()
	s.verifiedOrder = append(s.verifiedOrder, id)
	return model.Verified
}

// Unverify 取消签到
func (s *MemoryStore) Unverify(id string) model.UnverifyOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.verifiedAt[id]; !ok {
		return model.UnverifyNotFound
	}

	delete(s.verifiedAt, id)
	for i, v := range s.verifiedOrder {
		if v == id {
			s.verifiedOrder = append(s.verifiedOrder[:i], s.verifiedOrder[i+1:]...)
			break
		}
	}
	return model.Removed
}

// IsVerified 是否已签到
func (s *MemoryStore) IsVerified(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.verifiedAt[id]
	return ok
}

// FindByID 按学号精确查找
func (s *MemoryStore) FindByID(id string) (model.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.index[id]
	if !ok {
		return model.Record{}, false
	}
	return s.recordLocked(idx), true
}

// FindByQuery 按展示名（忽略大小写）或学号包含关系查找，保持花名册顺序
func (s *MemoryStore) FindByQuery(query string) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	result := make([]model.Record, 0)
	for i, r := range s.roster {
		if strings.Contains(strings.ToLower(r.DisplayName), q) || strings.Contains(r.ID, query) {
			result = append(result, s.recordLocked(i))
		}
	}
	return result
}

// Roster 获取完整花名册（副本）
func (s *MemoryStore) Roster() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Record, len(s.roster))
	for i := range s.roster {
		result[i] = s.recordLocked(i)
	}
	return result
}

// Unverified 未签到记录（花名册顺序）
func (s *MemoryStore) Unverified() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Record, 0, len(s.roster)-len(s.verifiedOrder))
	for i, r := range s.roster {
		if _, ok := s.verifiedAt[r.ID]; ok {
			continue
		}
		result = append(result, s.recordLocked(i))
	}
	return result
}

// VerifiedRecords 已签到记录，按签到先后排列
func (s *MemoryStore) VerifiedRecords() []model.Record {
	entries := s.VerifiedEntries()
	result := make([]model.Record, len(entries))
	for i, e := range entries {
		result[i] = e.Record
	}
	return result
}

// VerifiedEntries 已签到条目（含签到时间），按签到先后排列
func (s *MemoryStore) VerifiedEntries() []model.VerifiedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.VerifiedEntry, 0, len(s.verifiedOrder))
	for _, id := range s.verifiedOrder {
		idx, ok := s.index[id]
		if !ok {
			continue
		}
		result = append(result, model.VerifiedEntry{
			Record:     s.recordLocked(idx),
			VerifiedAt: s.verifiedAt[id],
		})
	}
	return result
}

// Count 花名册人数
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.roster)
}

// VerifiedCount 已签到人数
func (s *MemoryStore) VerifiedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.verifiedOrder)
}

// recordLocked 返回带签到标记的记录副本，调用方需持有锁
func (s *MemoryStore) recordLocked(idx int) model.Record {
	r := s.roster[idx]
	_, r.Verified = s.verifiedAt[r.ID]
	return r
}
