package utils

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// 允许的文件扩展名(小写, 不含点)
var (
	LogoExtensions     = []string{"jpg", "jpeg", "png", "gif"}
	DocumentExtensions = []string{"pdf", "doc", "docx", "ppt", "pptx", "txt"}
)

// FileExtension 返回小写扩展名(不含点)
func FileExtension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// AllowedExtension 校验扩展名, 返回规范化后的扩展名
func AllowedExtension(filename string, allowed []string) (string, bool) {
	ext := FileExtension(filename)
	if ext == "" {
		return "", false
	}
	for _, a := range allowed {
		if ext == a {
			return a, true
		}
	}
	return "", false
}

// GenerateStoredFilename 生成存储文件名: <prefix>_<秒级时间戳>_<uuid>.<ext>
// 不使用客户端提供的文件名
func GenerateStoredFilename(prefix, ext string, now time.Time) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%d_%s.%s", prefix, now.Unix(), token, ext)
}

// DetectContentType 确定文档的内容类型
// 优先使用客户端声明的类型, 缺失或为通用类型时根据内容探测
func DetectContentType(declared string, open func() (io.ReadCloser, error)) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
		return declared
	}

	src, err := open()
	if err != nil {
		return "application/octet-stream"
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}
