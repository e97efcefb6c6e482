package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListRuns 列出历史稽核运行
// GET /api/runs?limit=50
func (h *Handler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	runs, err := h.store.ListRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询运行列表失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetRun 查询单次运行摘要与完整报告
// GET /api/runs/:id
func (h *Handler) GetRun(c *gin.Context) {
	id := c.Param("id")

	run, err := h.store.GetRun(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "运行不存在"})
		return
	}

	resp := gin.H{"run": run}
	if run.Status == "done" {
		if report, err := h.store.GetRunReport(id); err == nil {
			resp["report"] = report
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GetRunRows 查询一次运行的明细行
// GET /api/runs/:id/rows?type=recon&status=matched
// type 取 recon/fraud/exceptions/mileage/evidence/indents；
// status 仅对 recon 有效，用于按对账状态过滤。
func (h *Handler) GetRunRows(c *gin.Context) {
	id := c.Param("id")
	rowType := c.DefaultQuery("type", "recon")

	if _, err := h.store.GetRun(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "运行不存在"})
		return
	}

	switch rowType {
	case "recon":
		rows, err := h.store.GetReconRows(id, c.Query("status"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "查询对账结果失败"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": rowType, "rows": rows})
	case "fraud":
		rows, err := h.store.GetFraudRows(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "查询舞弊信号失败"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": rowType, "rows": rows})
	case "exceptions":
		rows, err := h.store.GetExceptionRows(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "查询车辆异常失败"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": rowType, "rows": rows})
	case "mileage":
		rows, err := h.store.GetMileageRows(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "查询里程油耗失败"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": rowType, "rows": rows})
	case "evidence":
		rows, err := h.store.GetBillEvidence(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "查询单据证据失败"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": rowType, "rows": rows})
	case "indents":
		rows, err := h.store.GetIndentRecords(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "查询台账记录失败"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": rowType, "rows": rows})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知的明细类型: " + rowType})
	}
}
