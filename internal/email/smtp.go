package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/hospitalops/hospital-api/internal/config"
	"github.com/hospitalops/hospital-api/internal/model"
)

type smtpService struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		to:     cfg.AlertsTo,
	}
}

func (s *smtpService) SendAlert(ctx context.Context, hospitalID string, alert model.Alert) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", fmt.Sprintf("[%s] %s alert for hospital %s", alert.Level, alert.Category, hospitalID))
	m.SetBody("text/plain", fmt.Sprintf("%s\n\nGenerated at %s", alert.Message, alert.Timestamp.Format("2006-01-02 15:04:05 MST")))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	return nil
}
