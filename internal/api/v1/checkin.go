package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rollcall/internal/capture"
	"rollcall/internal/model"
)

// ManualRequest 手动输入请求
type ManualRequest struct {
	Value string `json:"value"`
}

// BulkRequest 批量签到/签退请求
type BulkRequest struct {
	IDs   string `json:"ids"`   // 学号文本
	Names string `json:"names"` // 姓名文本
}

// ZoomRequest 会议参会名单请求
type ZoomRequest struct {
	Text string `json:"text"`
}

// VerifyStudent 按学号签到
// POST /api/students/:id/verify
func (h *Handler) VerifyStudent(c *gin.Context) {
	res := h.svc.Verify(c.Param("id"))
	status := http.StatusOK
	if res.Outcome == model.VerifyNotFound {
		status = http.StatusNotFound
	}
	c.JSON(status, res)
}

// UnverifyStudent 取消签到
// DELETE /api/students/:id/verify
func (h *Handler) UnverifyStudent(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Remove(c.Param("id")))
}

// ManualCheckIn 手动输入学号签到，长度不足时忽略
// POST /api/checkin/manual
func (h *Handler) ManualCheckIn(c *gin.Context) {
	var req ManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	res := h.svc.ManualEntry(req.Value)
	if res == nil {
		c.JSON(http.StatusOK, gin.H{"ignored": true, "notices": []model.Notice{}})
		return
	}
	c.JSON(http.StatusOK, res)
}

// BulkCheckIn 批量签到
// POST /api/checkin/bulk
func (h *Handler) BulkCheckIn(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	c.JSON(http.StatusOK, h.svc.BulkCheckIn(req.IDs, req.Names))
}

// BulkCheckOut 批量签退
// POST /api/checkout/bulk
func (h *Handler) BulkCheckOut(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	c.JSON(http.StatusOK, h.svc.BulkCheckOut(req.IDs, req.Names))
}

// ZoomImport 粘贴会议参会名单签到
// POST /api/zoom
func (h *Handler) ZoomImport(c *gin.Context) {
	var req ZoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	c.JSON(http.StatusOK, h.svc.ZoomImport(req.Text))
}

// Capture 处理一次拍摄
// 表单字段 image 为图像（可选），text 为前端解码出的证件号（可选）
// POST /api/capture
func (h *Handler) Capture(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	var image []byte
	fileHeader, err := c.FormFile("image")
	switch {
	case err == nil:
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read captured image"})
			return
		}
		image, err = io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read captured image"})
			return
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Captured image is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid capture form"})
		return
	}

	frame := capture.NewFrame(image, c.PostForm("text"))
	res, err := h.svc.Capture(c.Request.Context(), frame)
	if err != nil {
		h.logger.Error("capture failed", zap.String("frame", frame.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process capture"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListVerified 已签到名单（按签到顺序）
// GET /api/verified
func (h *Handler) ListVerified(c *gin.Context) {
	entries := h.svc.Verified()
	c.JSON(http.StatusOK, gin.H{
		"verified": entries,
		"total":    len(entries),
	})
}
