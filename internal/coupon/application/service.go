package application

import (
	"context"
	"strings"
	"time"

	"github.com/qtremors/amanzon/internal/coupon/domain"
)

type CouponService struct {
	repo domain.CouponRepository
	now  func() time.Time
}

func NewCouponService(repo domain.CouponRepository) *CouponService {
	return &CouponService{repo: repo, now: time.Now}
}

// Validate checks a coupon code for a user without recording anything.
// Check order matters: unknown code, then validity window, then prior usage.
func (s *CouponService) Validate(ctx context.Context, code string, userID uint) (*domain.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrEmptyCode
	}

	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !coupon.IsValid(s.now()) {
		return nil, domain.ErrExpired
	}

	used, err := s.repo.HasUsage(ctx, coupon.ID, userID)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, domain.ErrAlreadyUsed
	}

	return coupon, nil
}

// RecordUsage marks the coupon as spent by the user, tied to an order.
// Called inside the order materialization transaction.
func (s *CouponService) RecordUsage(ctx context.Context, couponID, userID, orderID uint) error {
	return s.repo.RecordUsage(ctx, &domain.CouponUsage{
		CouponID: couponID,
		UserID:   userID,
		OrderID:  &orderID,
	})
}
