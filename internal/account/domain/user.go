package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrUsernameTaken      = errors.New("this username is already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("please verify your email before logging in")
	ErrInvalidToken       = errors.New("invalid or expired verification link")
	ErrAlreadyVerified    = errors.New("this account is already verified")
	ErrInvalidOTP         = errors.New("invalid or expired otp")
)

// User 账户。注册后处于未激活状态，邮箱验证通过才可登录。
type User struct {
	gorm.Model
	Username     string `gorm:"column:username;type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(100);not null" json:"-"`
	FirstName    string `gorm:"column:first_name;type:varchar(100)" json:"first_name"`
	LastName     string `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	Picture      string `gorm:"column:picture;type:varchar(255)" json:"picture"`
	IsActive     bool   `gorm:"column:is_active;not null;default:false" json:"is_active"`

	VerificationToken   string     `gorm:"column:verification_token;type:varchar(64);index" json:"-"`
	VerificationSentAt  *time.Time `gorm:"column:verification_sent_at" json:"-"`
	PasswordResetOTP    string     `gorm:"column:password_reset_otp;type:varchar(6)" json:"-"`
	PasswordResetSentAt *time.Time `gorm:"column:password_reset_sent_at" json:"-"`
}

func (User) TableName() string { return "users" }

// OTPValid OTP 在有效期内且匹配
func (u *User) OTPValid(otp string, ttl time.Duration, now time.Time) bool {
	if u.PasswordResetOTP == "" || otp == "" || u.PasswordResetOTP != otp {
		return false
	}
	if u.PasswordResetSentAt == nil {
		return false
	}
	return now.Sub(*u.PasswordResetSentAt) <= ttl
}

// TokenValid 验证链接在有效期内且匹配
func (u *User) TokenValid(token string, ttl time.Duration, now time.Time) bool {
	if u.VerificationToken == "" || token == "" || u.VerificationToken != token {
		return false
	}
	if u.VerificationSentAt == nil {
		return false
	}
	return now.Sub(*u.VerificationSentAt) <= ttl
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Save(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByVerificationToken(ctx context.Context, token string) (*User, error)
}
