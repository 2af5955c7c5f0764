package store

import (
	"sync"
	"testing"
	"time"

	"rollcall/internal/model"
)

func newRecord(id, first, preferred, last string) model.Record {
	fields := model.NewFields(model.RequiredColumns, []string{id, last, first, "", preferred, "", "", ""})
	return model.NewRecord(fields)
}

func sampleRoster() []model.Record {
	return []model.Record{
		newRecord("301234567", "Amy", "", "Lee"),
		newRecord("301234568", "Jonathan", "John", "Smith"),
		newRecord("301234569", "Ka Ho", "Kevin", "Wong"),
	}
}

// TestNewMemoryStore 测试创建存储
func TestNewMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	if store == nil {
		t.Fatal("NewMemoryStore() returned nil")
	}
	if store.Count() != 0 || store.VerifiedCount() != 0 {
		t.Errorf("New store should be empty, got %d/%d", store.Count(), store.VerifiedCount())
	}
}

// TestVerifyIdempotent 测试重复签到只计一次
func TestVerifyIdempotent(t *testing.T) {
	store := NewMemoryStore()
	store.Load(sampleRoster())

	if got := store.Verify("301234567"); got != model.Verified {
		t.Fatalf("first Verify = %s, want verified", got)
	}
	if got := store.Verify("301234567"); got != model.AlreadyVerified {
		t.Fatalf("second Verify = %s, want already_verified", got)
	}
	if n := len(store.VerifiedRecords()); n != 1 {
		t.Fatalf("VerifiedRecords len = %d, want 1", n)
	}
}

// TestVerifyNotFound 测试签到不存在的学号
func TestVerifyNotFound(t *testing.T) {
	store := NewMemoryStore()
	store.Load(sampleRoster())

	if got := store.Verify("999"); got != model.VerifyNotFound {
		t.Fatalf("Verify = %s, want not_found", got)
	}
	if store.VerifiedCount() != 0 {
		t.Fatalf("NotFound must not mutate state")
	}
}

// TestUnverifyRestoresCount 测试签到后取消恢复原计数
func TestUnverifyRestoresCount(t *testing.T) {
	store := NewMemoryStore()
	store.Load(sampleRoster())
	store.Verify("301234568")

	before := store.VerifiedCount()
	store.Verify("301234567")
	if got := store.Unverify("301234567"); got != model.Removed {
		t.Fatalf("Unverify = %s, want removed", got)
	}
	if store.VerifiedCount() != before {
		t.Fatalf("VerifiedCount = %d, want %d", store.VerifiedCount(), before)
	}

	if got := store.Unverify("301234567"); got != model.UnverifyNotFound {
		t.Fatalf("second Unverify = %s, want not_found", got)
	}
	if got := store.Unverify("nope"); got != model.UnverifyNotFound {
		t.Fatalf("Unverify unknown = %s, want not_found", got)
	}
}

// TestVerifiedOrder 测试按签到顺序而非花名册顺序返回
func TestVerifiedOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	store := NewMemoryStore(WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}))
	store.Load(sampleRoster())

	store.Verify("301234569")
	store.Verify("301234567")
	store.Verify("301234568")
	store.Unverify("301234567")
	store.Verify("301234567")

	entries := store.VerifiedEntries()
	want := []string{"301234569", "301234568", "301234567"}
	if len(entries) != len(want) {
		t.Fatalf("entries len = %d", len(entries))
	}
	for i, id := range want {
		if entries[i].Record.ID != id {
			t.Fatalf("entry %d = %s, want %s", i, entries[i].Record.ID, id)
		}
		if !entries[i].Record.Verified {
			t.Fatalf("entry %d should carry verified flag", i)
		}
	}
	if !entries[0].VerifiedAt.Before(entries[2].VerifiedAt) {
		t.Fatalf("re-verified entry should have a later timestamp")
	}
}

// TestLoadClearsVerified 测试重新加载花名册清空签到
func TestLoadClearsVerified(t *testing.T) {
	store := NewMemoryStore()
	store.Load(sampleRoster())
	store.Verify("301234567")

	store.Load([]model.Record{newRecord("301234567", "Amy", "", "Lee")})
	if store.VerifiedCount() != 0 {
		t.Fatalf("reload should clear verified ids, got %d", store.VerifiedCount())
	}
	if r, ok := store.FindByID("301234567"); !ok || r.Verified {
		t.Fatalf("reloaded record should exist and be unverified: %+v %v", r, ok)
	}
}

// TestFindByQuery 测试名称与学号模糊查找
func TestFindByQuery(t *testing.T) {
	store := NewMemoryStore()
	store.Load(sampleRoster())

	if got := store.FindByQuery("SMITH"); len(got) != 1 || got[0].ID != "301234568" {
		t.Fatalf("FindByQuery(SMITH) = %+v", got)
	}
	if got := store.FindByQuery("4569"); len(got) != 1 || got[0].DisplayName != "Kevin Wong" {
		t.Fatalf("FindByQuery(4569) = %+v", got)
	}
	if got := store.FindByQuery("3012345"); len(got) != 3 {
		t.Fatalf("FindByQuery(3012345) len = %d, want 3", len(got))
	}
	if got := store.FindByQuery("nobody"); len(got) != 0 {
		t.Fatalf("FindByQuery(nobody) = %+v", got)
	}
}

// TestUnverified 测试未签到列表
func TestUnverified(t *testing.T) {
	store := NewMemoryStore()
	store.Load(sampleRoster())
	store.Verify("301234568")

	got := store.Unverified()
	if len(got) != 2 || got[0].ID != "301234567" || got[1].ID != "301234569" {
		t.Fatalf("Unverified = %+v", got)
	}
}

// TestConcurrentVerify 测试并发签到
func TestConcurrentVerify(t *testing.T) {
	store := NewMemoryStore()
	store.Load(sampleRoster())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Verify("301234567")
			store.FindByQuery("a")
		}()
	}
	wg.Wait()

	if store.VerifiedCount() != 1 {
		t.Errorf("VerifiedCount = %d, want 1", store.VerifiedCount())
	}
}
