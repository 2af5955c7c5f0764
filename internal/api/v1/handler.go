package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rollcall/internal/exporter"
	"rollcall/internal/importer"
	"rollcall/internal/service/attendance"
)

// Options 处理器选项
type Options struct {
	MaxUploadBytes int64           // 上传文件大小上限
	DefaultFormat  exporter.Format // 未指定 format 时的导出格式
	Logger         *zap.Logger
}

// Handler V1 API 处理器
type Handler struct {
	svc           *attendance.Service
	importer      *importer.Coordinator
	maxUpload     int64
	defaultFormat exporter.Format
	logger        *zap.Logger
}

// NewHandler 创建 V1 API 处理器
func NewHandler(svc *attendance.Service, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 8 << 20
	}
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = exporter.FormatCSV
	}
	return &Handler{
		svc:           svc,
		importer:      importer.NewCoordinator(svc, opts.Logger),
		maxUpload:     opts.MaxUploadBytes,
		defaultFormat: opts.DefaultFormat,
		logger:        opts.Logger,
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 会话状态
	router.GET("/status", h.GetStatus)

	// 花名册
	router.POST("/roster/import", h.ImportRoster)
	router.GET("/students", h.SearchStudents)

	// 单人签到/取消
	router.POST("/students/:id/verify", h.VerifyStudent)
	router.DELETE("/students/:id/verify", h.UnverifyStudent)
	router.POST("/checkin/manual", h.ManualCheckIn)
	router.POST("/capture", h.Capture)

	// 批量
	router.POST("/checkin/bulk", h.BulkCheckIn)
	router.POST("/checkout/bulk", h.BulkCheckOut)
	router.POST("/zoom", h.ZoomImport)

	// 已签到名单与进度
	router.GET("/verified", h.ListVerified)
	router.GET("/quorum", h.GetQuorum)

	// 导出
	router.GET("/export", h.Export)
}
