package handler

import (
	"context"
	"time"

	"notekeep/dto"
	"notekeep/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db         Pinger
	uploadsDir string
	logger     *zap.Logger
}

func NewHealthHandler(db Pinger, uploadsDir string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, uploadsDir: uploadsDir, logger: logger}
}

func (h *HealthHandler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
}

// Health reports database reachability and free space for uploads.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Database: "ok"}

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("health check: database unreachable", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = err.Error()
	}

	free, used, err := utils.DiskUsage(h.uploadsDir)
	if err != nil {
		h.logger.Warn("health check: disk usage unavailable", zap.String("dir", h.uploadsDir), zap.Error(err))
	} else {
		resp.DiskFree = free
		resp.DiskUsed = used
	}

	if resp.Status != "ok" {
		utils.ServiceUnavailable(c, resp)
		return
	}
	utils.Success(c, resp)
}
