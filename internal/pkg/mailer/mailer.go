package mailer

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
)

// Mailer define o contrato do colaborador de e-mail. As configurações
// SMTP vêm da entidade Settings (administrada no site), não do ambiente.
type Mailer interface {
	Send(ctx context.Context, settings domain.Settings, to, subject, html, text string) error
}

// SMTPMailer é a implementação concreta sobre net/smtp.
type SMTPMailer struct{}

// NewSMTPMailer cria o colaborador de e-mail.
func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

// Send envia um e-mail HTML (com alternativa em texto opcional).
// Quando EmailActive é falso, falha imediatamente com erro de
// configuração: nenhuma conexão é tentada.
func (m *SMTPMailer) Send(ctx context.Context, settings domain.Settings, to, subject, html, text string) error {
	if !settings.EmailActive {
		return apperror.NewValidationError("Envio de e-mail desativado nas configurações do site.")
	}
	if settings.SMTPHost == "" || settings.SMTPPort == 0 {
		return apperror.NewValidationError("Configurações SMTP incompletas.")
	}
	if strings.TrimSpace(to) == "" {
		return apperror.NewValidationError("Destinatário ausente.")
	}

	msg := buildMessage(settings.SMTPFrom, to, subject, html, text)
	addr := fmt.Sprintf("%s:%d", settings.SMTPHost, settings.SMTPPort)

	var auth smtp.Auth
	if settings.SMTPUser != "" {
		auth = smtp.PlainAuth("", settings.SMTPUser, settings.SMTPPassword, settings.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, settings.SMTPFrom, []string{to}, msg); err != nil {
		return apperror.NewExternalError("Falha ao enviar e-mail.", err)
	}
	return nil
}

// buildMessage monta um e-mail MIME simples. Quando text é informado,
// gera multipart/alternative com as duas versões.
func buildMessage(from, to, subject, html, text string) []byte {
	var msg bytes.Buffer

	write := func(k, v string) {
		msg.WriteString(k)
		msg.WriteString(": ")
		msg.WriteString(v)
		msg.WriteString("\r\n")
	}

	write("From", from)
	write("To", to)
	write("Subject", subject)
	write("MIME-Version", "1.0")

	if text == "" {
		write("Content-Type", "text/html; charset=UTF-8")
		msg.WriteString("\r\n")
		msg.WriteString(html)
		return msg.Bytes()
	}

	const boundary = "govagas-alt"
	write("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%s", boundary))
	msg.WriteString("\r\n")

	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(text)
	msg.WriteString("\r\n--" + boundary + "\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(html)
	msg.WriteString("\r\n--" + boundary + "--\r\n")

	return msg.Bytes()
}
