package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/classifieds_server/config"
	"github.com/qs3c/classifieds_server/internal/model/dto"
	"github.com/qs3c/classifieds_server/internal/pkg/jwt"
	"github.com/qs3c/classifieds_server/internal/repository"
)

// ErrInvalidCredentials 不区分邮箱不存在、密码错误、密码为空或账号禁用
var ErrInvalidCredentials = errors.New("Unable to authenticate with provided credentials.")

type AuthService struct {
	accountRepo *repository.AccountRepository
	cfg         *config.Config
}

func NewAuthService(accountRepo *repository.AccountRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		cfg:         cfg,
	}
}

// Login 校验邮箱密码并签发 bearer token
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.TokenResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accountRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !account.IsActive {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(account.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: s.cfg.JWT.ExpireHours * 3600,
	}, nil
}
