package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/classifieds_server/internal/model"
)

// TestPassword fixtures 创建的用户统一使用的密码
const TestPassword = "secret123"

var (
	seq          int64
	passwordHash string
)

func init() {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	passwordHash = string(hash)
}

func next() int64 {
	return atomic.AddInt64(&seq, 1)
}

// TestPlan 创建测试套餐，默认与 Basic 相同的额度
func TestPlan(t *testing.T, db *gorm.DB, opts ...func(*model.Plan)) *model.Plan {
	t.Helper()

	plan := &model.Plan{
		Name:           fmt.Sprintf("plan_%d", next()),
		MaxEntries:     3,
		MaxEntryImages: 4,
		DaysToExpire:   30,
	}

	for _, opt := range opts {
		opt(plan)
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}

// WithPlanName 设置套餐名称
func WithPlanName(name string) func(*model.Plan) {
	return func(p *model.Plan) {
		p.Name = name
	}
}

// WithLimits 设置套餐额度
func WithLimits(maxEntries, maxImages, days int) func(*model.Plan) {
	return func(p *model.Plan) {
		p.MaxEntries = maxEntries
		p.MaxEntryImages = maxImages
		p.DaysToExpire = days
	}
}

// TestAccount 创建测试用户，密码为 TestPassword
func TestAccount(t *testing.T, db *gorm.DB, opts ...func(*model.Account)) *model.Account {
	t.Helper()

	account := &model.Account{
		Email:        fmt.Sprintf("test_%d@example.com", next()),
		PasswordHash: passwordHash,
		FirstName:    "Test",
		LastName:     "User",
		IsActive:     true,
	}

	for _, opt := range opts {
		opt(account)
	}

	// gorm 对 false 零值使用列默认值，且 RETURNING 会把默认值写回结构体，先记下期望值
	active := account.IsActive

	if err := db.Omit(clause.Associations).Create(account).Error; err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	if !active {
		if err := db.Model(account).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to deactivate test account: %v", err)
		}
		account.IsActive = false
	}

	return account
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.Account) {
	return func(a *model.Account) {
		a.Email = email
	}
}

// WithPlan 设置套餐
func WithPlan(plan *model.Plan) func(*model.Account) {
	return func(a *model.Account) {
		if plan == nil {
			a.PlanID = nil
			return
		}
		id := plan.ID
		a.PlanID = &id
	}
}

// WithPhone 设置手机号
func WithPhone(phone string) func(*model.Account) {
	return func(a *model.Account) {
		a.PhoneNumber = &phone
	}
}

// WithDateOfBirth 设置出生日期
func WithDateOfBirth(dob time.Time) func(*model.Account) {
	return func(a *model.Account) {
		a.DateOfBirth = &dob
	}
}

// WithStaff 设置为管理员
func WithStaff() func(*model.Account) {
	return func(a *model.Account) {
		a.IsStaff = true
	}
}

// WithInactive 设置为禁用
func WithInactive() func(*model.Account) {
	return func(a *model.Account) {
		a.IsActive = false
	}
}

// TestCategory 创建测试分类
func TestCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()

	category := &model.Category{Name: name}
	if err := db.Where("name = ?", name).FirstOrCreate(category).Error; err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}

	return category
}

// TestEntry 创建测试条目
func TestEntry(t *testing.T, db *gorm.DB, userID, categoryID int64, opts ...func(*model.Entry)) *model.Entry {
	t.Helper()

	entry := &model.Entry{
		UserID:      userID,
		CategoryID:  categoryID,
		Title:       fmt.Sprintf("Test Entry %d", next()),
		Description: "test description",
		Price:       decimal.RequireFromString("10.00"),
		PhoneNumber: "+905551112233",
	}

	for _, opt := range opts {
		opt(entry)
	}

	if err := db.Omit(clause.Associations).Create(entry).Error; err != nil {
		t.Fatalf("Failed to create test entry: %v", err)
	}

	if entry.IsExpired {
		db.Model(entry).UpdateColumn("is_expired", true)
	}

	return entry
}

// WithTitle 设置标题
func WithTitle(title string) func(*model.Entry) {
	return func(e *model.Entry) {
		e.Title = title
	}
}

// WithPrice 设置价格
func WithPrice(price string) func(*model.Entry) {
	return func(e *model.Entry) {
		e.Price = decimal.RequireFromString(price)
	}
}

// WithCreatedAt 设置创建时间，用于过期测试
func WithCreatedAt(createdAt time.Time) func(*model.Entry) {
	return func(e *model.Entry) {
		e.CreatedAt = createdAt
	}
}

// WithExpired 设置为已过期
func WithExpired() func(*model.Entry) {
	return func(e *model.Entry) {
		e.IsExpired = true
	}
}

// TestImage 创建测试图片记录
func TestImage(t *testing.T, db *gorm.DB, entryID int64) *model.Image {
	t.Helper()

	key := fmt.Sprintf("uploads/entry/test_%d.jpg", next())
	image := &model.Image{
		EntryID:   entryID,
		ObjectKey: key,
		URL:       "/media/" + key,
	}

	if err := db.Omit(clause.Associations).Create(image).Error; err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}

	return image
}
