package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rollcall/internal/importer"
)

// ImportRoster 上传花名册 (SSE 流式响应)
// POST /api/roster/import
func (h *Handler) ImportRoster(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Roster file is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please choose a roster file to upload"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming is not supported"})
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	progressChan := h.importer.Import(c.Request.Context(), importer.ImportOptions{
		FileName: fileHeader.Filename,
		Data:     data,
		Sheet:    c.PostForm("sheet"),
	})

	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			h.logger.Warn("marshal import event", zap.Error(err))
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// SearchStudents 按姓名或学号搜索，q 为空返回全部
// GET /api/students?q=
func (h *Handler) SearchStudents(c *gin.Context) {
	records := h.svc.Search(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"students": records,
		"total":    len(records),
	})
}
