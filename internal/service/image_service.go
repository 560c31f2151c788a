package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/qs3c/classifieds_server/config"
	"github.com/qs3c/classifieds_server/internal/model"
	"github.com/qs3c/classifieds_server/internal/model/dto"
	"github.com/qs3c/classifieds_server/internal/pkg/metrics"
	"github.com/qs3c/classifieds_server/internal/pkg/storage"
	"github.com/qs3c/classifieds_server/internal/pkg/validate"
	"github.com/qs3c/classifieds_server/internal/repository"
)

var (
	ErrNoImages      = errors.New("No images provided")
	ErrImageNotFound = errors.New("image not found")
)

// ImageUpload 一张待上传的图片
type ImageUpload struct {
	Filename string
	Data     []byte
}

type ImageService struct {
	entries     *EntryService
	accountRepo *repository.AccountRepository
	imageRepo   *repository.ImageRepository
	quota       *QuotaService
	store       storage.Store
	upload      config.UploadConfig
	log         *slog.Logger
}

func NewImageService(
	entries *EntryService,
	accountRepo *repository.AccountRepository,
	imageRepo *repository.ImageRepository,
	quota *QuotaService,
	store storage.Store,
	upload config.UploadConfig,
	log *slog.Logger,
) *ImageService {
	return &ImageService{
		entries:     entries,
		accountRepo: accountRepo,
		imageRepo:   imageRepo,
		quota:       quota,
		store:       store,
		upload:      upload,
		log:         log,
	}
}

func (s *ImageService) allowed(ext string) bool {
	if len(s.upload.AllowedExtensions) == 0 {
		return true
	}
	for _, a := range s.upload.AllowedExtensions {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}

func (s *ImageService) checkFiles(files []ImageUpload) error {
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Filename))
		switch {
		case !s.allowed(ext):
			return validate.Field("images", fmt.Sprintf("Unsupported file extension %q.", ext))
		case len(f.Data) == 0:
			return validate.Field("images", "The submitted file is empty.")
		case s.upload.MaxSize > 0 && int64(len(f.Data)) > s.upload.MaxSize:
			return validate.Field("images", fmt.Sprintf("File %s exceeds the maximum size of %d bytes.", f.Filename, s.upload.MaxSize))
		}
	}
	return nil
}

// Upload 批量上传图片。整批要么全部保存，要么一张都不保存。
func (s *ImageService) Upload(ctx context.Context, userID, entryID int64, files []ImageUpload) (*dto.UploadImagesResponse, error) {
	entry, err := s.entries.load(actionUploadImage, userID, entryID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoImages
	}

	owner, err := s.accountRepo.GetByIDWithPlan(entry.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if err := s.quota.CheckImageQuota(owner, entry.ID, len(files)); err != nil {
		return nil, err
	}
	if err := s.checkFiles(files); err != nil {
		return nil, err
	}

	images := make([]*model.Image, 0, len(files))
	keys := make([]string, 0, len(files))
	for _, f := range files {
		key := storage.ImageKey(f.Filename)
		url, err := s.store.Put(ctx, key, f.Data, storage.ContentType(filepath.Ext(f.Filename)))
		if err != nil {
			removeObjects(ctx, s.store, s.log, keys)
			return nil, fmt.Errorf("store image: %w", err)
		}
		keys = append(keys, key)
		images = append(images, &model.Image{
			EntryID:   entry.ID,
			ObjectKey: key,
			URL:       url,
		})
	}

	if err := s.imageRepo.CreateBatch(images); err != nil {
		removeObjects(ctx, s.store, s.log, keys)
		return nil, err
	}
	metrics.ImagesUploaded.Add(float64(len(images)))

	resp := &dto.UploadImagesResponse{
		EntryID: entry.ID,
		Images:  make([]dto.ImageInfo, 0, len(images)),
	}
	for _, img := range images {
		resp.Images = append(resp.Images, toImageInfo(img))
	}
	return resp, nil
}

// DeleteImage 删除条目下的单张图片，仅所有者可操作
func (s *ImageService) DeleteImage(ctx context.Context, userID, entryID, imageID int64) error {
	if _, err := s.entries.load(actionDeleteImage, userID, entryID); err != nil {
		return err
	}

	image, err := s.imageRepo.GetByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	if image.EntryID != entryID {
		return ErrImageNotFound
	}

	if err := s.imageRepo.Delete(image.ID); err != nil {
		return err
	}
	removeObjects(ctx, s.store, s.log, []string{image.ObjectKey})
	return nil
}
