package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/qs3c/classifieds_server/internal/pkg/storage"
	"github.com/qs3c/classifieds_server/internal/pkg/validate"
)

// removeObjects 删除存储中的图片，失败只记录日志
func removeObjects(ctx context.Context, store storage.Store, log *slog.Logger, keys []string) {
	for _, key := range keys {
		if err := store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Warn("failed to delete stored image", slog.String("key", key), slog.Any("error", err))
		}
	}
}

// mergeFieldErrors 把字段错误合并到 dst，其他错误原样返回
func mergeFieldErrors(dst validate.FieldErrors, err error) error {
	if err == nil {
		return nil
	}
	var fe validate.FieldErrors
	if errors.As(err, &fe) {
		for k, v := range fe {
			dst[k] = v
		}
		return nil
	}
	return err
}
