package importer

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rollcall/internal/parser"
	"rollcall/internal/service/attendance"
)

// 事件类型
const (
	EventStart = "start"
	EventInfo  = "info"
	EventDone  = "done"
	EventError = "error"
)

// RosterLoader 接收解析完成的花名册
type RosterLoader interface {
	ApplyRoster(name string, result *parser.ParseResult) *attendance.LoadResult
}

// Coordinator 花名册导入协调器
type Coordinator struct {
	loader RosterLoader
	logger *zap.Logger
}

// NewCoordinator 创建导入协调器
func NewCoordinator(loader RosterLoader, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{loader: loader, logger: logger}
}

// ImportOptions 导入选项
type ImportOptions struct {
	FileName string // 上传文件名，用于判断格式
	Data     []byte // 文件内容
	Sheet    string // 指定 xlsx 工作表名；为空时按扩展名解析，xlsx 取第一个工作表
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/done/error
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// ImportReport 导入报告
type ImportReport struct {
	ImportID string        `json:"importId"`
	Filename string        `json:"filename"`
	Headers  []string      `json:"headers"`
	Rows     int           `json:"rows"`
	Skipped  int           `json:"skipped"`
	Warnings []string      `json:"warnings"`
	Result   interface{}   `json:"result"`
	Duration time.Duration `json:"duration"`
}

// Import 执行导入，返回进度通道
// 通道在导入结束或 ctx 取消后关闭
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 16)

	go func() {
		defer close(progressChan)
		c.doImport(ctx, opts, progressChan)
	}()

	return progressChan
}

func (c *Coordinator) doImport(ctx context.Context, opts ImportOptions, progressChan chan<- ProgressEvent) {
	startTime := time.Now()
	report := &ImportReport{
		ImportID: uuid.NewString(),
		Filename: filepath.Base(opts.FileName),
	}
	logger := c.logger.With(zap.String("import", report.ImportID), zap.String("file", report.Filename))

	if !c.sendProgress(ctx, progressChan, ProgressEvent{
		Type:    EventStart,
		Message: "Reading roster file",
		Data: map[string]interface{}{
			"filename": report.Filename,
			"importId": report.ImportID,
			"bytes":    len(opts.Data),
		},
	}) {
		return
	}

	result, err := c.parse(opts)
	if err != nil {
		logger.Warn("roster import failed", zap.Error(err))
		c.sendProgress(ctx, progressChan, ProgressEvent{
			Type:    EventError,
			Message: err.Error(),
		})
		return
	}

	report.Headers = result.Headers
	report.Rows = len(result.Records)
	report.Skipped = result.SkippedRows
	report.Warnings = result.Warnings

	if !c.sendProgress(ctx, progressChan, ProgressEvent{
		Type:    EventInfo,
		Message: fmt.Sprintf("Found %d columns, %d data rows", len(result.Headers), len(result.Records)+result.SkippedRows),
		Data: map[string]interface{}{
			"headers": result.Headers,
			"rows":    len(result.Records),
			"skipped": result.SkippedRows,
		},
	}) {
		return
	}

	for _, w := range result.Warnings {
		if !c.sendProgress(ctx, progressChan, ProgressEvent{Type: EventInfo, Message: w}) {
			return
		}
	}

	// 取消后不再替换花名册
	if ctx.Err() != nil {
		return
	}
	report.Result = c.loader.ApplyRoster(report.Filename, result)
	report.Duration = time.Since(startTime)
	logger.Info("roster import done", zap.Int("rows", report.Rows), zap.Duration("duration", report.Duration))

	c.sendProgress(ctx, progressChan, ProgressEvent{
		Type:    EventDone,
		Message: fmt.Sprintf("Loaded %d students from CSV", report.Rows),
		Data:    report,
	})
}

func (c *Coordinator) parse(opts ImportOptions) (*parser.ParseResult, error) {
	if opts.Sheet != "" {
		return parser.ParseWorkbook(bytes.NewReader(opts.Data), opts.Sheet)
	}
	return parser.ParseFile(opts.FileName, bytes.NewReader(opts.Data))
}

// sendProgress 发送事件，ctx 取消时返回 false
func (c *Coordinator) sendProgress(ctx context.Context, ch chan<- ProgressEvent, event ProgressEvent) bool {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case ch <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
