package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rollcall/internal/calculator"
	"rollcall/internal/capture"
	"rollcall/internal/exporter"
	"rollcall/internal/model"
	"rollcall/internal/parser"
	"rollcall/internal/service/matcher"
	"rollcall/internal/service/store"
)

// Options 服务选项
type Options struct {
	Threshold            int    // 法定人数
	ManualEntryMinLength int    // 手动输入学号的最小触发长度
	TimeLayout           string // 导出时间格式
	Recognizer           capture.Recognizer
	Logger               *zap.Logger
	Now                  func() time.Time
}

// Service 签到服务
type Service struct {
	sessionID string
	store     *store.MemoryStore
	matcher   *matcher.Matcher
	exporter  *exporter.Exporter
	recognize capture.Recognizer
	logger    *zap.Logger
	now       func() time.Time

	threshold      int
	manualMinChars int
}

// NewService 创建签到服务
func NewService(st *store.MemoryStore, opts Options) (*Service, error) {
	if opts.Threshold <= 0 {
		return nil, fmt.Errorf("%w: %d", calculator.ErrInvalidThreshold, opts.Threshold)
	}
	if opts.ManualEntryMinLength <= 0 {
		opts.ManualEntryMinLength = 7
	}
	if opts.Recognizer == nil {
		opts.Recognizer = capture.ForFrame(capture.NewRandomPick(nil))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sessionID := uuid.NewString()
	return &Service{
		sessionID:      sessionID,
		store:          st,
		matcher:        matcher.NewMatcher(st),
		exporter:       exporter.NewExporter(opts.TimeLayout),
		recognize:      opts.Recognizer,
		logger:         opts.Logger.With(zap.String("session", sessionID)),
		now:            opts.Now,
		threshold:      opts.Threshold,
		manualMinChars: opts.ManualEntryMinLength,
	}, nil
}

// SessionID 会话 ID
func (s *Service) SessionID() string {
	return s.sessionID
}

// Store 底层存储
func (s *Service) Store() *store.MemoryStore {
	return s.store
}

// LoadResult 加载花名册结果
type LoadResult struct {
	Loaded  int            `json:"loaded"`
	Skipped int            `json:"skipped"`
	Notices []model.Notice `json:"notices"`
}

// LoadRoster 解析并加载花名册；解析失败时保持原花名册不变
func (s *Service) LoadRoster(name string, r io.Reader) (*LoadResult, error) {
	result, err := parser.ParseFile(name, r)
	if err != nil {
		s.logger.Warn("roster rejected", zap.String("file", name), zap.Error(err))
		return &LoadResult{Notices: []model.Notice{errorNotice(err)}}, err
	}
	return s.ApplyRoster(name, result), nil
}

// ApplyRoster 用已解析的结果替换花名册
func (s *Service) ApplyRoster(name string, result *parser.ParseResult) *LoadResult {
	s.store.Load(result.Records)
	for _, w := range result.Warnings {
		s.logger.Warn("roster warning", zap.String("file", name), zap.String("warning", w))
	}
	s.logger.Info("roster loaded",
		zap.String("file", name),
		zap.Int("records", len(result.Records)),
		zap.Int("skipped", result.SkippedRows),
	)

	return &LoadResult{
		Loaded:  len(result.Records),
		Skipped: result.SkippedRows,
		Notices: []model.Notice{{
			Level:   model.NoticeSuccess,
			Message: fmt.Sprintf("Loaded %d students from CSV", len(result.Records)),
		}},
	}
}

// Search 按姓名或学号搜索
func (s *Service) Search(query string) []model.Record {
	return s.store.FindByQuery(query)
}

// VerifyResult 单人签到结果
type VerifyResult struct {
	Outcome model.VerifyOutcome `json:"outcome"`
	Record  *model.Record       `json:"record,omitempty"`
	Notices []model.Notice      `json:"notices"`
}

// Verify 按学号签到
func (s *Service) Verify(id string) VerifyResult {
	outcome := s.store.Verify(id)
	record, ok := s.store.FindByID(id)

	res := VerifyResult{Outcome: outcome}
	if ok {
		res.Record = &record
	}

	switch outcome {
	case model.Verified:
		s.logger.Info("verified", zap.String("id", id), zap.Int("verified", s.store.VerifiedCount()))
		res.Notices = append(res.Notices, model.Notice{Level: model.NoticeSuccess, Message: "Verified: " + record.DisplayName})
	case model.AlreadyVerified:
		res.Notices = append(res.Notices, model.Notice{Level: model.NoticeWarning, Message: "Student already verified"})
	default:
		res.Notices = append(res.Notices, model.Notice{Level: model.NoticeError, Message: "Student ID not found in database"})
	}
	return res
}

// ManualEntry 手动输入学号
// 长度不足时不处理（返回 nil）；否则按学号精确、后缀规则匹配后签到
func (s *Service) ManualEntry(value string) *VerifyResult {
	value = strings.TrimSpace(value)
	if len([]rune(value)) < s.manualMinChars {
		return nil
	}

	record, ok := matcher.ResolveToken(value, s.store.Roster(), matcher.ModeID)
	if !ok {
		return &VerifyResult{
			Outcome: model.VerifyNotFound,
			Notices: []model.Notice{{Level: model.NoticeError, Message: "Student ID not found in database"}},
		}
	}
	res := s.Verify(record.ID)
	return &res
}

// RemoveResult 取消签到结果
type RemoveResult struct {
	Outcome model.UnverifyOutcome `json:"outcome"`
	Notices []model.Notice        `json:"notices"`
}

// Remove 取消签到
func (s *Service) Remove(id string) RemoveResult {
	record, found := s.store.FindByID(id)
	outcome := s.store.Unverify(id)

	res := RemoveResult{Outcome: outcome}
	if outcome == model.Removed {
		s.logger.Info("unverified", zap.String("id", id), zap.Int("verified", s.store.VerifiedCount()))
		res.Notices = append(res.Notices, model.Notice{Level: model.NoticeInfo, Message: "Removed: " + record.DisplayName})
		return res
	}

	msg := "Student is not verified"
	if !found {
		msg = "Student ID not found in database"
	}
	res.Notices = append(res.Notices, model.Notice{Level: model.NoticeInfo, Message: msg})
	return res
}

// BulkResult 批量操作结果
type BulkResult struct {
	Tally   model.Tally    `json:"tally"`
	Notices []model.Notice `json:"notices"`
}

// ZoomImport 粘贴会议参会名单签到
func (s *Service) ZoomImport(text string) BulkResult {
	if strings.TrimSpace(text) == "" {
		return BulkResult{Notices: []model.Notice{{Level: model.NoticeWarning, Message: "Please enter participant names or IDs"}}}
	}

	tally := s.matcher.Import(strings.TrimSpace(text))
	s.logger.Info("participants imported", zap.Int("tokens", tally.Tokens), zap.Int("added", tally.Changed))

	if tally.Changed > 0 {
		return BulkResult{Tally: tally, Notices: []model.Notice{{
			Level:   model.NoticeSuccess,
			Message: fmt.Sprintf("Added %d Zoom participants to attendance", tally.Changed),
		}}}
	}
	return BulkResult{Tally: tally, Notices: []model.Notice{{Level: model.NoticeWarning, Message: "No new participants found to add"}}}
}

// BulkCheckIn 批量签到，学号与姓名两栏各自拆分处理
func (s *Service) BulkCheckIn(idsText, namesText string) BulkResult {
	idsText, namesText = strings.TrimSpace(idsText), strings.TrimSpace(namesText)
	if idsText == "" && namesText == "" {
		return BulkResult{Notices: []model.Notice{{Level: model.NoticeWarning, Message: "Please enter student IDs or names to check in"}}}
	}

	tally := s.matcher.CheckIn(matcher.Tokenize(idsText), matcher.ModeID).
		Add(s.matcher.CheckIn(matcher.Tokenize(namesText), matcher.ModeName))
	s.logger.Info("bulk check-in", zap.Int("tokens", tally.Tokens), zap.Int("added", tally.Changed))

	if tally.Changed > 0 {
		return BulkResult{Tally: tally, Notices: []model.Notice{{
			Level:   model.NoticeSuccess,
			Message: fmt.Sprintf("Bulk check-in completed: %d students added", tally.Changed),
		}}}
	}
	return BulkResult{Tally: tally, Notices: []model.Notice{{Level: model.NoticeWarning, Message: "No new students found to check in"}}}
}

// BulkCheckOut 批量签退
func (s *Service) BulkCheckOut(idsText, namesText string) BulkResult {
	idsText, namesText = strings.TrimSpace(idsText), strings.TrimSpace(namesText)
	if idsText == "" && namesText == "" {
		return BulkResult{Notices: []model.Notice{{Level: model.NoticeWarning, Message: "Please enter student IDs or names to check out"}}}
	}

	tally := s.matcher.CheckOut(matcher.Tokenize(idsText), matcher.ModeID).
		Add(s.matcher.CheckOut(matcher.Tokenize(namesText), matcher.ModeName))
	s.logger.Info("bulk check-out", zap.Int("tokens", tally.Tokens), zap.Int("removed", tally.Changed))

	if tally.Changed > 0 {
		return BulkResult{Tally: tally, Notices: []model.Notice{{
			Level:   model.NoticeSuccess,
			Message: fmt.Sprintf("Bulk check-out completed: %d students removed", tally.Changed),
		}}}
	}
	return BulkResult{Tally: tally, Notices: []model.Notice{{Level: model.NoticeWarning, Message: "No students found to check out"}}}
}

// CaptureResult 拍摄识别结果
type CaptureResult struct {
	FrameID string              `json:"frameId"`
	Outcome model.VerifyOutcome `json:"outcome,omitempty"`
	Record  *model.Record       `json:"record,omitempty"`
	Notices []model.Notice      `json:"notices"`
}

// Capture 处理一次拍摄：识别学号后签到
func (s *Service) Capture(ctx context.Context, frame capture.Frame) (CaptureResult, error) {
	res := CaptureResult{FrameID: frame.ID}

	id, err := s.recognize.Recognize(ctx, frame, s.store.Roster())
	if errors.Is(err, capture.ErrNotRecognized) {
		res.Notices = []model.Notice{{Level: model.NoticeWarning, Message: "All students are already verified or ID not recognized"}}
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("recognize frame %s: %w", frame.ID, err)
	}

	v := s.Verify(id)
	res.Outcome = v.Outcome
	res.Record = v.Record
	res.Notices = v.Notices
	if v.Outcome == model.Verified {
		res.Notices = append(res.Notices, model.Notice{Level: model.NoticeSuccess, Message: "ID scanned successfully"})
	}
	s.logger.Debug("frame processed", zap.String("frame", frame.ID), zap.String("id", id), zap.String("outcome", string(v.Outcome)))
	return res, nil
}

// Verified 已签到条目
func (s *Service) Verified() []model.VerifiedEntry {
	return s.store.VerifiedEntries()
}

// Quorum 当前法定人数进度
func (s *Service) Quorum() calculator.Progress {
	// threshold 在构造时已校验为正数
	p, _ := calculator.Summarize(s.store.VerifiedCount(), s.threshold)
	return p
}

// Export 导出已签到名单
func (s *Service) Export(format exporter.Format) (data []byte, filename string, err error) {
	now := s.now()
	data, err = s.exporter.Render(format, s.store.VerifiedRecords(), now)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("attendance exported", zap.String("format", string(format)), zap.Int("records", s.store.VerifiedCount()))
	return data, exporter.FileName(now, format), nil
}

// Status 会话状态
type Status struct {
	SessionID     string              `json:"sessionId"`
	Initialized   bool                `json:"initialized"` // 是否已加载花名册
	RosterSize    int                 `json:"rosterSize"`
	VerifiedCount int                 `json:"verifiedCount"`
	Quorum        calculator.Progress `json:"quorum"`
}

// Status 获取会话状态
func (s *Service) Status() Status {
	size := s.store.Count()
	return Status{
		SessionID:     s.sessionID,
		Initialized:   size > 0,
		RosterSize:    size,
		VerifiedCount: s.store.VerifiedCount(),
		Quorum:        s.Quorum(),
	}
}

func errorNotice(err error) model.Notice {
	return model.Notice{Level: model.NoticeError, Message: err.Error()}
}
