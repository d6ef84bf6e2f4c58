package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalog "github.com/qtremors/amanzon/internal/catalog/domain"
	"github.com/qtremors/amanzon/internal/review/domain"
)

type fakeReviews struct {
	rows map[string]*domain.Review
}

func (f *fakeReviews) key(productID, userID uint) string { return fmt.Sprintf("%d:%d", productID, userID) }

func (f *fakeReviews) Create(ctx context.Context, review *domain.Review) error {
	f.rows[f.key(review.ProductID, review.UserID)] = review
	return nil
}

func (f *fakeReviews) Exists(ctx context.Context, productID, userID uint) (bool, error) {
	_, ok := f.rows[f.key(productID, userID)]
	return ok, nil
}

func (f *fakeReviews) ListByProduct(ctx context.Context, productID uint) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, r := range f.rows {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

type oneProduct struct{ catalog.ProductRepository }

func (oneProduct) GetByID(ctx context.Context, id uint) (*catalog.Product, error) {
	if id != 1 {
		return nil, catalog.ErrProductNotFound
	}
	p := &catalog.Product{Name: "Keyboard", Price: decimal.NewFromInt(100), IsActive: true}
	p.Model = gorm.Model{ID: 1}
	return p, nil
}

func newReviewService() *ReviewService {
	return NewReviewService(&fakeReviews{rows: map[string]*domain.Review{}}, oneProduct{})
}

func TestCreateReview(t *testing.T) {
	svc := newReviewService()

	review, err := svc.Create(context.Background(), 7, "asha", 1, 4, "  solid keys  ")
	if err != nil {
		t.Fatal(err)
	}
	if review.Comment != "solid keys" {
		t.Fatalf("comment = %q", review.Comment)
	}

	reviews, err := svc.ListByProduct(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(reviews) != 1 {
		t.Fatalf("got %d reviews, want 1", len(reviews))
	}
}

func TestCreateReviewOncePerUser(t *testing.T) {
	svc := newReviewService()

	if _, err := svc.Create(context.Background(), 7, "asha", 1, 4, "nice"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(context.Background(), 7, "asha", 1, 2, "changed my mind"); !errors.Is(err, domain.ErrAlreadyReviewed) {
		t.Fatalf("got %v, want ErrAlreadyReviewed", err)
	}
	// another user still can
	if _, err := svc.Create(context.Background(), 8, "ravi", 1, 5, ""); err != nil {
		t.Fatal(err)
	}
}

func TestCreateReviewValidation(t *testing.T) {
	svc := newReviewService()

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.Create(context.Background(), 7, "asha", 1, rating, ""); !errors.Is(err, domain.ErrInvalidRating) {
			t.Fatalf("rating %d: got %v, want ErrInvalidRating", rating, err)
		}
	}
	if _, err := svc.Create(context.Background(), 7, "asha", 99, 4, ""); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Fatalf("got %v, want ErrProductNotFound", err)
	}
}
