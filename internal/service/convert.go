package service

import (
	"time"

	"github.com/qs3c/classifieds_server/internal/model"
	"github.com/qs3c/classifieds_server/internal/model/dto"
)

const dateLayout = "2006-01-02"

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func toPlanInfo(plan *model.Plan) *dto.PlanInfo {
	if plan == nil {
		return nil
	}
	return &dto.PlanInfo{
		ID:             plan.ID,
		Name:           plan.Name,
		MaxEntries:     plan.MaxEntries,
		MaxEntryImages: plan.MaxEntryImages,
		DaysToExpire:   plan.DaysToExpire,
	}
}

func toAccountInfo(account *model.Account) *dto.AccountInfo {
	info := &dto.AccountInfo{
		ID:          account.ID,
		Email:       account.Email,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		PhoneNumber: account.PhoneNumber,
		Plan:        toPlanInfo(account.Plan),
		IsActive:    account.IsActive,
		IsStaff:     account.IsStaff,
		CreatedAt:   formatTime(account.CreatedAt),
	}
	if account.DateOfBirth != nil {
		dob := account.DateOfBirth.Format(dateLayout)
		info.DateOfBirth = &dob
	}
	return info
}

func toCategoryInfo(category *model.Category) dto.CategoryInfo {
	return dto.CategoryInfo{
		ID:   category.ID,
		Name: category.Name,
	}
}

func categoryName(entry *model.Entry) string {
	if entry.Category == nil {
		return ""
	}
	return entry.Category.Name
}

func toImageInfo(image *model.Image) dto.ImageInfo {
	return dto.ImageInfo{
		ID:         image.ID,
		URL:        image.URL,
		UploadedAt: formatTime(image.UploadedAt),
	}
}

func toEntryListItem(entry *model.Entry) dto.EntryListItem {
	item := dto.EntryListItem{
		ID:        entry.ID,
		Title:     entry.Title,
		Price:     entry.Price.StringFixed(2),
		Category:  categoryName(entry),
		IsExpired: entry.IsExpired,
		CreatedAt: formatTime(entry.CreatedAt),
	}
	if len(entry.Images) > 0 {
		item.Thumbnail = entry.Images[0].URL
	}
	return item
}

func toEntryDetail(entry *model.Entry) *dto.EntryDetail {
	images := make([]dto.ImageInfo, 0, len(entry.Images))
	for i := range entry.Images {
		images = append(images, toImageInfo(&entry.Images[i]))
	}

	return &dto.EntryDetail{
		ID:          entry.ID,
		UserID:      entry.UserID,
		Title:       entry.Title,
		Description: entry.Description,
		Price:       entry.Price.StringFixed(2),
		Category:    categoryName(entry),
		PhoneNumber: entry.PhoneNumber,
		IsExpired:   entry.IsExpired,
		Images:      images,
		CreatedAt:   formatTime(entry.CreatedAt),
		EditedAt:    formatTime(entry.EditedAt),
	}
}
