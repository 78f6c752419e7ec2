package email

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	log    zerolog.Logger
}

func NewSMTPMailer(cfg SMTPConfig, log zerolog.Logger) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		log:    log.With().Str("component", "mailer").Logger(),
	}
}

func (m *smtpMailer) SendPaymentConfirmation(ctx context.Context, to, teamName string, amount float64, paidAt time.Time) error {
	subject := "Pagamento confirmado - FTA Brasil"
	body := fmt.Sprintf(`
		<h2>Pagamento confirmado</h2>
		<p>Olá, equipe <strong>%s</strong>!</p>
		<p>Recebemos o pagamento de <strong>R$ %.2f</strong> em %s.</p>
		<p>O acesso da equipe está liberado.</p>
		<p>FTA Brasil</p>`,
		teamName, amount, paidAt.Format("02/01/2006"))
	return m.send(ctx, to, subject, body)
}

func (m *smtpMailer) SendInvoiceCreated(ctx context.Context, to, teamName string, amount float64, dueDate time.Time, paymentURL string) error {
	subject := "Nova cobrança emitida - FTA Brasil"
	body := fmt.Sprintf(`
		<h2>Nova cobrança</h2>
		<p>Olá, equipe <strong>%s</strong>!</p>
		<p>Foi emitida uma cobrança de <strong>R$ %.2f</strong> com vencimento em %s.</p>
		<p><a href="%s">Pagar agora</a></p>
		<p>FTA Brasil</p>`,
		teamName, amount, dueDate.Format("02/01/2006"), paymentURL)
	return m.send(ctx, to, subject, body)
}

func (m *smtpMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	m.log.Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
