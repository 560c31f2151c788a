package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/qs3c/classifieds_server/config"
)

// ImagePrefix 条目图片的存储目录
const ImagePrefix = "uploads/entry"

var ErrNotFound = errors.New("object not found")

// Store 图片存储后端
type Store interface {
	// Put 写入对象并返回可访问的 URL
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// New 按配置创建存储后端
func New(cfg *config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "oss":
		return NewOSSStore(&cfg.OSS)
	case "s3":
		return NewS3Store(&cfg.S3)
	case "local", "":
		return NewLocalStore(cfg.Local.Dir, cfg.Local.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// ImageKey 生成 uploads/entry/<uuid><ext>，与原文件名无关
func ImageKey(filename string) string {
	return path.Join(ImagePrefix, uuid.NewString()+strings.ToLower(path.Ext(filename)))
}

// ContentType 根据扩展名获取 Content-Type
func ContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
