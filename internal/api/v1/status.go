package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStatus 获取会话状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Status())
}

// GetQuorum 获取法定人数进度
// GET /api/quorum
func (h *Handler) GetQuorum(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Quorum())
}
