package providers

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/rellab/rellab-server/app-service/config"
	"github.com/rs/zerolog/log"
	mail "github.com/xhit/go-simple-mail/v2"
)

type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	server *mail.SMTPServer
	from   string
}

type noopMailer struct{}

// ProvideMailer returns an SMTP mailer, or one that only logs when no SMTP
// host is configured.
func ProvideMailer(config *config.Config) Mailer {
	if config.EmailConfig.SmtpHost == "" {
		return noopMailer{}
	}

	server := mail.NewSMTPClient()
	server.Host = config.EmailConfig.SmtpHost
	server.Port = config.EmailConfig.SmtpPort
	server.Username = config.EmailConfig.SmtpUser
	server.Password = config.EmailConfig.SmtpPassword
	server.Encryption = mail.EncryptionSTARTTLS
	server.TLSConfig = &tls.Config{InsecureSkipVerify: config.EmailConfig.SmtpSkipInsecure}
	server.SendTimeout = 10 * time.Second
	server.ConnectTimeout = 10 * time.Second

	return &smtpMailer{server: server, from: config.EmailConfig.From}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	client, err := m.server.Connect()
	if err != nil {
		return fmt.Errorf("smtp connect: %w", err)
	}
	defer client.Close()

	email := mail.NewMSG()
	email.SetFrom(m.from).AddTo(to).SetSubject(subject)
	email.SetBody(mail.TextPlain, body)

	if email.Error != nil {
		return email.Error
	}

	return email.Send(client)
}

func (noopMailer) Send(to, subject, body string) error {
	log.Debug().Str("to", to).Str("subject", subject).Msg("Mail disabled, skipping")
	return nil
}

func PasswordChangedBody(name string) string {
	return fmt.Sprintf("Hello %s,\n\nThe password of your account was changed. If this was not you, reset it immediately.\n", name)
}
