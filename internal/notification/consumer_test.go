package notification

import (
	"context"
	"encoding/json"
	"testing"

	accountdomain "github.com/qtremors/amanzon/internal/account/domain"
	orderdomain "github.com/qtremors/amanzon/internal/order/domain"
)

type recordedMail struct {
	confirmations []string
	cancellations []string
	verifications []string
	otps          []string
	fail          bool
}

func (r *recordedMail) SendOrderConfirmation(to, name, orderNumber, total, currency string) error {
	r.confirmations = append(r.confirmations, to)
	return nil
}

func (r *recordedMail) SendOrderCancellation(to, name, orderNumber string, refunded bool) error {
	r.cancellations = append(r.cancellations, to)
	return nil
}

func (r *recordedMail) SendVerification(to, name, token string) error {
	r.verifications = append(r.verifications, token)
	if r.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func (r *recordedMail) SendPasswordResetOTP(to, name, otp string) error {
	r.otps = append(r.otps, otp)
	return nil
}

func TestDispatchByKey(t *testing.T) {
	mail := &recordedMail{}
	d := NewDispatcher(mail)

	confirmed, _ := json.Marshal(orderdomain.OrderConfirmedEvent{OrderNumber: "ord-1", Email: "a@example.com", Total: "250.00", Currency: "INR"})
	cancelled, _ := json.Marshal(orderdomain.OrderCancelledEvent{OrderNumber: "ord-1", Email: "a@example.com", Refunded: true})
	verify, _ := json.Marshal(accountdomain.AccountVerificationEvent{Email: "a@example.com", Token: "tok"})
	otp, _ := json.Marshal(accountdomain.PasswordResetOTPEvent{Email: "a@example.com", OTP: "123456"})

	ctx := context.Background()
	for key, value := range map[string][]byte{
		orderdomain.EventOrderConfirmed:        confirmed,
		orderdomain.EventOrderCancelled:        cancelled,
		accountdomain.EventAccountVerification: verify,
		accountdomain.EventPasswordResetOTP:    otp,
	} {
		if err := d.Handle(ctx, key, value); err != nil {
			t.Fatalf("%s: %v", key, err)
		}
	}

	if len(mail.confirmations) != 1 || len(mail.cancellations) != 1 {
		t.Fatalf("order mails = %d/%d, want 1/1", len(mail.confirmations), len(mail.cancellations))
	}
	if len(mail.verifications) != 1 || mail.verifications[0] != "tok" {
		t.Fatalf("verifications = %v", mail.verifications)
	}
	if len(mail.otps) != 1 || mail.otps[0] != "123456" {
		t.Fatalf("otps = %v", mail.otps)
	}
}

func TestDispatchNeverPropagatesFailures(t *testing.T) {
	mail := &recordedMail{fail: true}
	d := NewDispatcher(mail)

	value, _ := json.Marshal(accountdomain.AccountVerificationEvent{Email: "a@example.com", Token: "tok"})
	if err := d.Handle(context.Background(), accountdomain.EventAccountVerification, value); err != nil {
		t.Fatalf("send failure must not propagate, got %v", err)
	}

	// unknown keys are skipped, not retried
	if err := d.Handle(context.Background(), "something.else", []byte("{}")); err != nil {
		t.Fatalf("unknown key must not error, got %v", err)
	}

	// corrupt payloads are logged and committed
	if err := d.Handle(context.Background(), orderdomain.EventOrderConfirmed, []byte("not json")); err != nil {
		t.Fatalf("corrupt payload must not error, got %v", err)
	}
}
