package v1

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/praneshh19/fuel-audit-app/internal/importer"
)

// Analyze 执行一次稽核 (SSE 流式响应)
// POST /api/analyze
// multipart 字段：indent / gps / master 各一个 xlsx，bills 零到多个转写文本，
// billsText 可直接粘贴转写文本。
func (h *Handler) Analyze(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的表单数据"})
		return
	}

	indentFile := firstFile(form, "indent")
	gpsFile := firstFile(form, "gps")
	masterFile := firstFile(form, "master")
	billFiles := form.File["bills"]
	billsText := c.PostForm("billsText")

	if indentFile == nil || gpsFile == nil || masterFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "台账、GPS 报表、车辆主表三个文件均不可缺"})
		return
	}
	if len(billFiles) == 0 && billsText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未提供单据转写文本"})
		return
	}

	tempDir := os.TempDir()
	saveTemp := func(fh *multipart.FileHeader, tag string) (string, error) {
		path := filepath.Join(tempDir, fmt.Sprintf("fuelaudit_%s_%d_%s", tag, time.Now().UnixNano(), fh.Filename))
		if err := c.SaveUploadedFile(fh, path); err != nil {
			return "", err
		}
		return path, nil
	}

	var tempFiles []string
	defer func() {
		for _, p := range tempFiles {
			_ = os.Remove(p)
		}
	}()

	indentPath, err := saveTemp(indentFile, "indent")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}
	tempFiles = append(tempFiles, indentPath)

	gpsPath, err := saveTemp(gpsFile, "gps")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}
	tempFiles = append(tempFiles, gpsPath)

	masterPath, err := saveTemp(masterFile, "master")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}
	tempFiles = append(tempFiles, masterPath)

	var billPaths []string
	for _, fh := range billFiles {
		p, err := saveTemp(fh, "bills")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
			return
		}
		tempFiles = append(tempFiles, p)
		billPaths = append(billPaths, p)
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	coordinator := importer.NewCoordinator(h.store, h.cfg.Audit)
	progressChan := coordinator.Analyze(importer.AnalyzeOptions{
		IndentPath: indentPath,
		GPSPath:    gpsPath,
		MasterPath: masterPath,
		BillPaths:  billPaths,
		BillsText:  billsText,
	})

	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	files := form.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
