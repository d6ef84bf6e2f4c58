package notification

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/qtremors/amanzon/pkg/config"
)

// Mailer 发送通知邮件。所有模板都是纯文本，保持与交易链路解耦。
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

func NewMailer(cfg config.SMTPConfig, baseURL string) *Mailer {
	return &Mailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		baseURL: baseURL,
	}
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

func (m *Mailer) SendOrderConfirmation(to, name, orderNumber, total, currency string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for your order!\n\nOrder number: %s\nAmount paid: %s %s\n\nWe will let you know once it ships.\n",
		name, orderNumber, total, currency,
	)
	return m.send(to, "Your order "+orderNumber+" is confirmed", body)
}

func (m *Mailer) SendOrderCancellation(to, name, orderNumber string, refunded bool) error {
	body := fmt.Sprintf("Hi %s,\n\nYour order %s has been cancelled.\n", name, orderNumber)
	if refunded {
		body += "\nYour refund has been initiated and should reach you within a few business days.\n"
	}
	return m.send(to, "Your order "+orderNumber+" was cancelled", body)
}

func (m *Mailer) SendVerification(to, name, token string) error {
	link := fmt.Sprintf("%s/api/v1/auth/verify/%s", m.baseURL, token)
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome! Please confirm your email address by opening the link below:\n\n%s\n\nThe link expires in 48 hours.\n",
		name, link,
	)
	return m.send(to, "Verify your email address", body)
}

func (m *Mailer) SendPasswordResetOTP(to, name, otp string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour password reset code is: %s\n\nIt expires in 10 minutes. If you did not request this, you can ignore this email.\n",
		name, otp,
	)
	return m.send(to, "Your password reset code", body)
}
