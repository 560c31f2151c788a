package service

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/classifieds_server/internal/model"
	"github.com/qs3c/classifieds_server/internal/model/dto"
	"github.com/qs3c/classifieds_server/internal/pkg/validate"
	"github.com/qs3c/classifieds_server/internal/repository"
)

const (
	minAge = 18
	maxAge = 100
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailExists     = errors.New("user with this email already exists.")
)

type AccountService struct {
	accountRepo *repository.AccountRepository
	planService *PlanService
	now         func() time.Time
}

func NewAccountService(accountRepo *repository.AccountRepository, planService *PlanService) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		planService: planService,
		now:         time.Now,
	}
}

// NormalizeEmail 只把域名部分转为小写
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// ageOn 周岁
func ageOn(dob, today time.Time) int {
	years := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		years--
	}
	return years
}

func (s *AccountService) parseDateOfBirth(value string, fe validate.FieldErrors) *time.Time {
	dob, err := time.Parse(dateLayout, value)
	if err != nil {
		fe["date_of_birth"] = "Date has wrong format. Use YYYY-MM-DD."
		return nil
	}
	age := ageOn(dob, s.now())
	if age < minAge || age > maxAge {
		fe["date_of_birth"] = "Age must be between 18 and 100 years."
		return nil
	}
	return &dob
}

func (s *AccountService) checkEmail(email string, excludeID int64, fe validate.FieldErrors) error {
	exists, err := s.accountRepo.ExistsByEmail(email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		fe["email"] = ErrEmailExists.Error()
	}
	return nil
}

func (s *AccountService) checkPhone(phone string, excludeID int64, fe validate.FieldErrors) error {
	if !validate.IsPhone(phone) {
		fe["phone_number"] = "Invalid phone number."
		return nil
	}
	exists, err := s.accountRepo.ExistsByPhone(phone, excludeID)
	if err != nil {
		return err
	}
	if exists {
		fe["phone_number"] = "Invalid phone number."
	}
	return nil
}

// Register 注册并分配默认套餐
func (s *AccountService) Register(req *dto.RegisterRequest) (*dto.AccountInfo, error) {
	fe := validate.FieldErrors{}

	email := NormalizeEmail(req.Email)
	if err := s.checkEmail(email, 0, fe); err != nil {
		return nil, err
	}

	var phone *string
	if req.PhoneNumber != nil && *req.PhoneNumber != "" {
		if err := s.checkPhone(*req.PhoneNumber, 0, fe); err != nil {
			return nil, err
		}
		phone = req.PhoneNumber
	}

	if !validate.IsAlphaSpace(req.FirstName) {
		fe["first_name"] = "Invalid first name."
	}
	if !validate.IsAlphaSpace(req.LastName) {
		fe["last_name"] = "Invalid last name."
	}

	var dob *time.Time
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob = s.parseDateOfBirth(*req.DateOfBirth, fe)
	}

	if len(fe) > 0 {
		return nil, fe
	}

	plan, err := s.planService.DefaultPlan()
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  phone,
		DateOfBirth:  dob,
		PlanID:       &plan.ID,
		IsActive:     true,
	}
	if err := s.accountRepo.Create(account); err != nil {
		return nil, err
	}

	account.Plan = plan
	return toAccountInfo(account), nil
}

// CreateSuperuser 维护命令使用，跳过可选字段校验
func (s *AccountService) CreateSuperuser(email, password string) (*dto.AccountInfo, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, validate.FieldErrors{validate.NonField: "Email and password are required."}
	}

	fe := validate.FieldErrors{}
	if err := s.checkEmail(email, 0, fe); err != nil {
		return nil, err
	}
	if len(fe) > 0 {
		return nil, fe
	}

	plan, err := s.planService.DefaultPlan()
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		Email:        email,
		PasswordHash: string(hash),
		PlanID:       &plan.ID,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if err := s.accountRepo.Create(account); err != nil {
		return nil, err
	}

	account.Plan = plan
	return toAccountInfo(account), nil
}

func (s *AccountService) load(userID int64) (*model.Account, error) {
	account, err := s.accountRepo.GetByIDWithPlan(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// GetProfile 当前用户信息
func (s *AccountService) GetProfile(userID int64) (*dto.AccountInfo, error) {
	account, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	return toAccountInfo(account), nil
}

// UpdateProfile 只修改提交的字段；出生日期一旦设置不可修改
func (s *AccountService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.AccountInfo, error) {
	account, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	fe := validate.FieldErrors{}

	if req.Email != nil {
		email := NormalizeEmail(*req.Email)
		if email == "" {
			fe["email"] = "This field may not be blank."
		} else if email != account.Email {
			if err := s.checkEmail(email, account.ID, fe); err != nil {
				return nil, err
			}
		}
		account.Email = email
	}

	if req.PhoneNumber != nil {
		if *req.PhoneNumber == "" {
			account.PhoneNumber = nil
		} else {
			if err := s.checkPhone(*req.PhoneNumber, account.ID, fe); err != nil {
				return nil, err
			}
			phone := *req.PhoneNumber
			account.PhoneNumber = &phone
		}
	}

	if req.FirstName != nil {
		if !validate.IsAlphaSpace(*req.FirstName) {
			fe["first_name"] = "Invalid first name."
		}
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		if !validate.IsAlphaSpace(*req.LastName) {
			fe["last_name"] = "Invalid last name."
		}
		account.LastName = *req.LastName
	}

	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		if account.DateOfBirth != nil {
			if account.DateOfBirth.Format(dateLayout) != *req.DateOfBirth {
				fe["date_of_birth"] = "Date of birth cannot be changed once set."
			}
		} else if dob := s.parseDateOfBirth(*req.DateOfBirth, fe); dob != nil {
			account.DateOfBirth = dob
		}
	}

	if len(fe) > 0 {
		return nil, fe
	}

	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = string(hash)
	}

	if err := s.accountRepo.Update(account); err != nil {
		return nil, err
	}
	return toAccountInfo(account), nil
}

// IsActive token 校验后确认账号仍然可用，不存在的账号视为禁用
func (s *AccountService) IsActive(userID int64) (bool, error) {
	account, err := s.accountRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return account.IsActive, nil
}

// IsStaff 管理端权限判断，禁用的用户视为无权限
func (s *AccountService) IsStaff(userID int64) (bool, error) {
	account, err := s.accountRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return account.IsActive && account.IsStaff, nil
}

// List 管理端用户列表
func (s *AccountService) List(query *dto.AccountListQuery) ([]*dto.AccountInfo, int64, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}

	accounts, total, err := s.accountRepo.List(query.Search, query.Page, query.PageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.AccountInfo, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountInfo(&accounts[i]))
	}
	return items, total, nil
}

// AssignPlan 管理端修改套餐，planID 为 nil 表示取消
func (s *AccountService) AssignPlan(accountID int64, planID *int64) (*dto.AccountInfo, error) {
	if _, err := s.load(accountID); err != nil {
		return nil, err
	}

	if planID != nil {
		if _, err := s.planService.Get(*planID); err != nil {
			return nil, err
		}
	}

	if err := s.accountRepo.UpdatePlan(accountID, planID); err != nil {
		return nil, err
	}
	return s.GetProfile(accountID)
}

// SetActive 管理端启用/禁用
func (s *AccountService) SetActive(accountID int64, active bool) (*dto.AccountInfo, error) {
	if _, err := s.load(accountID); err != nil {
		return nil, err
	}
	if err := s.accountRepo.UpdateActive(accountID, active); err != nil {
		return nil, err
	}
	return s.GetProfile(accountID)
}
