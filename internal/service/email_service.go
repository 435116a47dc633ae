package service

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/thread-next/internal/config"
	"github.com/thread-next/internal/constants"
	"github.com/thread-next/internal/models"
)

var (
	ErrEmailDisabled      = errors.New("email service disabled")
	ErrEmailNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail       = errors.New("invalid email address")
)

// EmailService delivers order notification emails over SMTP.
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates an email service.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendOrderConfirmation sends the post-checkout confirmation.
func (s *EmailService) SendOrderConfirmation(toEmail string, order *models.Order) error {
	if order == nil {
		return nil
	}
	subject := fmt.Sprintf("Order %s confirmed", order.OrderNo)
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", order.ReceiverName)
	fmt.Fprintf(&b, "We received your order %s.\n\n", order.OrderNo)
	for _, detail := range order.Details {
		fmt.Fprintf(&b, "  %s (%s / %s) x%d - %s VND\n",
			detail.ProductName, detail.Color, detail.Size, detail.Quantity, detail.DiscountPrice.String())
	}
	fmt.Fprintf(&b, "\nSubtotal: %s VND\n", order.Subtotal.String())
	if order.VoucherDiscount.IsPositive() {
		fmt.Fprintf(&b, "Voucher discount: -%s VND\n", order.VoucherDiscount.String())
	}
	fmt.Fprintf(&b, "Shipping: %s VND\n", order.ShippingFee.String())
	fmt.Fprintf(&b, "Total: %s VND\n\n", order.Total.String())
	b.WriteString("We will notify you when the order ships.\n")
	return s.sendTextEmail(toEmail, subject, b.String())
}

// SendOrderStatusEmail sends a status-change notification.
func (s *EmailService) SendOrderStatusEmail(toEmail, orderNo, status string) error {
	subject := fmt.Sprintf("Order %s update", orderNo)
	body := fmt.Sprintf("Your order %s is now %s.\n", orderNo, statusText(status))
	return s.sendTextEmail(toEmail, subject, body)
}

func statusText(status string) string {
	switch status {
	case constants.OrderStatusProcessing:
		return "being prepared"
	case constants.OrderStatusShipping:
		return "on the way"
	case constants.OrderStatusDelivered:
		return "delivered"
	case constants.OrderStatusCancelled:
		return "cancelled"
	default:
		return status
	}
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	if s.cfg.UseTLS {
		return sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	return sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
