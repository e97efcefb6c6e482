package v1

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/praneshh19/fuel-audit-app/internal/importer"
)

// Preview 预览上传文件的原始行与表头解读
// POST /api/preview
// multipart 字段：file 一个 xlsx，source 取 indent/gps/master，决定使用哪组锚点。
func (h *Handler) Preview(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的表单数据"})
		return
	}

	fh := firstFile(form, "file")
	if fh == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	source := c.DefaultPostForm("source", "indent")
	var anchors []string
	switch source {
	case "indent":
		anchors = h.cfg.Audit.Indent.HeaderSubstrings
	case "gps":
		anchors = h.cfg.Audit.GPS.HeaderSubstrings
	case "master":
		anchors = h.cfg.Audit.Master.HeaderSubstrings
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知的数据源类型: " + source})
		return
	}

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("fuelaudit_preview_%d_%s", time.Now().UnixNano(), fh.Filename))
	if err := c.SaveUploadedFile(fh, tempPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}
	defer os.Remove(tempPath)

	result, err := importer.PreviewFile(tempPath, h.cfg.Audit.HeaderProbeWindow, anchors)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "预览失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
