package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rollcall/internal/exporter"
	"rollcall/internal/model"
)

// Export 导出已签到名单
// GET /api/export?format=csv|xlsx
func (h *Handler) Export(c *gin.Context) {
	format := h.defaultFormat
	if v := c.Query("format"); v != "" {
		f, err := exporter.ParseFormat(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		format = f
	}

	data, filename, err := h.svc.Export(format)
	if errors.Is(err, exporter.ErrNothingToExport) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   err.Error(),
			"notices": []model.Notice{{Level: model.NoticeWarning, Message: "No students to export"}},
		})
		return
	}
	if err != nil {
		h.logger.Error("export failed", zap.String("format", string(format)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export attendance"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, exporter.ContentType(format), data)
}
