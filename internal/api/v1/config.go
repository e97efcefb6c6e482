package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praneshh19/fuel-audit-app/internal/config"
	"github.com/praneshh19/fuel-audit-app/internal/parser"
)

// ConfigResponse 稽核配置响应
type ConfigResponse struct {
	HeaderProbeWindow     int      `json:"headerProbeWindow"`
	IdentifierProfile     string   `json:"identifierProfile"`
	IdentifierFormat      string   `json:"identifierFormat"`
	VehicleMatchThreshold int      `json:"vehicleMatchThreshold"`
	UnmatchedVehicleScore int      `json:"unmatchedVehicleScore"`
	OwnerVehicles         []string `json:"ownerVehicles"`
}

// UpdateConfigRequest 更新配置请求，指针字段允许部分更新
type UpdateConfigRequest struct {
	HeaderProbeWindow     *int      `json:"headerProbeWindow"`
	IdentifierProfile     *string   `json:"identifierProfile"`
	IdentifierFormat      *string   `json:"identifierFormat"`
	VehicleMatchThreshold *int      `json:"vehicleMatchThreshold"`
	UnmatchedVehicleScore *int      `json:"unmatchedVehicleScore"`
	OwnerVehicles         *[]string `json:"ownerVehicles"`
}

// GetConfig 获取稽核配置
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	a := h.cfg.Audit
	c.JSON(http.StatusOK, ConfigResponse{
		HeaderProbeWindow:     a.HeaderProbeWindow,
		IdentifierProfile:     a.IdentifierProfile,
		IdentifierFormat:      a.IdentifierFormat,
		VehicleMatchThreshold: a.VehicleMatchThreshold,
		UnmatchedVehicleScore: a.UnmatchedVehicleScore,
		OwnerVehicles:         a.OwnerVehicles,
	})
}

// UpdateConfig 更新稽核配置并持久化到 config.toml
// PATCH /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	a := &h.cfg.Audit

	if req.HeaderProbeWindow != nil {
		if *req.HeaderProbeWindow <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "表头探测窗口必须为正数"})
			return
		}
		a.HeaderProbeWindow = *req.HeaderProbeWindow
	}
	if req.IdentifierProfile != nil || req.IdentifierFormat != nil {
		profile := a.IdentifierProfile
		format := a.IdentifierFormat
		if req.IdentifierProfile != nil {
			profile = *req.IdentifierProfile
		}
		if req.IdentifierFormat != nil {
			format = *req.IdentifierFormat
		}
		// 提前构建一次提取器，拒绝无效的模式组合
		if _, err := parser.NewIdentifierExtractor(parser.PatternProfile(profile), parser.CanonicalFormat(format)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "单号模式配置无效: " + err.Error()})
			return
		}
		a.IdentifierProfile = profile
		a.IdentifierFormat = format
	}
	if req.VehicleMatchThreshold != nil {
		if *req.VehicleMatchThreshold < 0 || *req.VehicleMatchThreshold > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "车辆匹配阈值必须在 0-100 之间"})
			return
		}
		a.VehicleMatchThreshold = *req.VehicleMatchThreshold
	}
	if req.UnmatchedVehicleScore != nil {
		if *req.UnmatchedVehicleScore < 0 || *req.UnmatchedVehicleScore > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "未匹配车辆分值必须在 0-100 之间"})
			return
		}
		a.UnmatchedVehicleScore = *req.UnmatchedVehicleScore
	}
	if req.OwnerVehicles != nil {
		a.OwnerVehicles = *req.OwnerVehicles
	}

	if err := config.SaveConfig(h.cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存配置失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "配置更新成功"})
}
