package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/qtremors/amanzon/internal/account/domain"
	"github.com/qtremors/amanzon/pkg/auth"
	"github.com/qtremors/amanzon/pkg/config"
	"github.com/qtremors/amanzon/pkg/imaging"
	"github.com/qtremors/amanzon/pkg/logger"
)

// PictureStore 头像存储，接收优化后的图片字节
type PictureStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

type AccountService struct {
	users     domain.UserRepository
	publisher domain.EventPublisher
	pictures  PictureStore
	jwtCfg    *config.JWTConfig

	otpTTL   time.Duration
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAccountService(users domain.UserRepository, publisher domain.EventPublisher, pictures PictureStore, jwtCfg *config.JWTConfig, store config.StoreConfig) *AccountService {
	return &AccountService{
		users:     users,
		publisher: publisher,
		pictures:  pictures,
		jwtCfg:    jwtCfg,
		otpTTL:    time.Duration(store.OTPTTLSeconds) * time.Second,
		tokenTTL:  time.Duration(store.VerificationTokenTTLHours) * time.Hour,
		now:       time.Now,
	}
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register 创建未激活账户并发送验证邮件事件。
// 激活前不能登录。
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	token, err := secureToken()
	if err != nil {
		return nil, err
	}

	sentAt := s.now()
	user := &domain.User{
		Username:           in.Username,
		Email:              email,
		PasswordHash:       string(hash),
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		IsActive:           false,
		VerificationToken:  token,
		VerificationSentAt: &sentAt,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if perr := s.publisher.PublishVerification(ctx, domain.AccountVerificationEvent{
		UserID:     user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		Token:      token,
		OccurredAt: sentAt,
	}); perr != nil {
		logger.Warn(ctx, "failed to publish verification event", "user_id", user.ID, "error", perr)
	}

	return user, nil
}

// Verify 通过邮件链接激活账户。重复点击返回 ErrAlreadyVerified。
func (s *AccountService) Verify(ctx context.Context, token string) error {
	user, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}
	if user.IsActive {
		return domain.ErrAlreadyVerified
	}
	if !user.TokenValid(token, s.tokenTTL, s.now()) {
		return domain.ErrInvalidToken
	}

	user.IsActive = true
	user.VerificationToken = ""
	user.VerificationSentAt = nil
	return s.users.Save(ctx, user)
}

// Login 邮箱密码登录，签发 JWT。未激活账户拒绝。
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, domain.ErrAccountInactive
	}

	token, err := auth.GenerateToken(s.jwtCfg, user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// RequestPasswordReset 为邮箱生成 6 位 OTP 并发送事件。
// 为避免撞库探测，邮箱不存在时静默成功。
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			logger.Debug(ctx, "password reset requested for unknown email")
			return nil
		}
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}

	sentAt := s.now()
	user.PasswordResetOTP = otp
	user.PasswordResetSentAt = &sentAt
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	if perr := s.publisher.PublishPasswordResetOTP(ctx, domain.PasswordResetOTPEvent{
		UserID:     user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		OTP:        otp,
		OccurredAt: sentAt,
	}); perr != nil {
		logger.Warn(ctx, "failed to publish password reset event", "user_id", user.ID, "error", perr)
	}
	return nil
}

// ConfirmPasswordReset 用 OTP 设置新密码，OTP 一次性使用
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, email, otp, newPassword string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidOTP
		}
		return err
	}
	if !user.OTPValid(otp, s.otpTTL, s.now()) {
		return domain.ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.PasswordResetOTP = ""
	user.PasswordResetSentAt = nil
	return s.users.Save(ctx, user)
}

// Profile 读取个人资料
func (s *AccountService) Profile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

type ProfileUpdate struct {
	FirstName string
	LastName  string
}

// UpdateProfile 更新资料，头像经过统一的图片优化管线
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate, picture io.Reader, pictureName string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = update.FirstName
	user.LastName = update.LastName

	if picture != nil {
		data, name, err := imaging.Optimize(picture, pictureName)
		if err != nil {
			logger.Warn(ctx, "profile picture optimization failed, keeping previous picture",
				"user_id", userID, "error", err)
		} else {
			path, err := s.pictures.Save(ctx, name, data)
			if err != nil {
				return nil, err
			}
			user.Picture = path
		}
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// secureToken 32 字节随机数的十六进制，用于邮箱验证链接
func secureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// generateOTP 密码学随机的 6 位数字验证码
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
