package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized bool   `json:"initialized"` // 是否已有完成的稽核运行
	LastRunID   string `json:"lastRunId"`
	LastRunAt   string `json:"lastRunAt"`
	TotalRuns   int    `json:"totalRuns"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	lastRunID, err := h.store.GetLastRunID()
	if err != nil {
		c.JSON(http.StatusOK, StatusResponse{
			Initialized: false,
		})
		return
	}

	resp := StatusResponse{
		Initialized: true,
		LastRunID:   lastRunID,
	}

	if run, err := h.store.GetRun(lastRunID); err == nil {
		resp.LastRunAt = run.CreatedAt.Format("2006-01-02 15:04:05")
	}
	if runs, err := h.store.ListRuns(1000); err == nil {
		resp.TotalRuns = len(runs)
	}

	c.JSON(http.StatusOK, resp)
}
