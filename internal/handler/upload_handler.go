package handler

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const maxUploadBytes = 8 << 20

var uploadExtensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
	"bmp":  ".bmp",
}

// UploadImage 处理后台图片上传：校验图片格式与尺寸后保存到上传目录。
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}
	if file.Size > maxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "image is larger than 8 MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read image")
		return
	}
	defer src.Close()

	cfg, format, err := image.DecodeConfig(src)
	if err != nil {
		respondError(c, http.StatusBadRequest, "only jpeg, png, gif, webp or bmp images are allowed")
		return
	}
	ext, ok := uploadExtensions[format]
	if !ok {
		respondError(c, http.StatusBadRequest, "unsupported image format")
		return
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to read image")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		a.logger.Error("create upload dir", zap.String("dir", a.uploadDir), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to create upload directory")
		return
	}

	filename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.NewString(), ext)
	if err := writeUpload(filepath.Join(a.uploadDir, filename), src); err != nil {
		a.logger.Error("save upload", zap.String("file", filename), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to save image")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":    path.Join("/", strings.Trim(a.uploadURL, "/"), filename),
		"width":  cfg.Width,
		"height": cfg.Height,
		"format": format,
	})
}

func writeUpload(dst string, src io.Reader) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
