package mailer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/mailer"
)

// TestSend_EmailInactive testa o fail-fast: com envio desativado nas
// configurações, nenhuma conexão SMTP é tentada.
func TestSend_EmailInactive(t *testing.T) {
	m := mailer.NewSMTPMailer()

	// Host inválido de propósito: se uma conexão fosse tentada, o erro
	// seria externo, não de validação.
	settings := domain.Settings{
		EmailActive: false,
		SMTPHost:    "smtp.invalido.exemplo",
		SMTPPort:    587,
		SMTPFrom:    "noreply@govagas.com.br",
	}

	err := m.Send(context.Background(), settings, "op@example.com", "Assunto", "<p>Olá</p>", "")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

// TestSend_IncompleteSettings testa a validação de host/porta ausentes.
func TestSend_IncompleteSettings(t *testing.T) {
	m := mailer.NewSMTPMailer()

	err := m.Send(context.Background(), domain.Settings{EmailActive: true}, "op@example.com", "Assunto", "<p>Olá</p>", "")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

// TestSend_MissingRecipient testa a validação de destinatário vazio.
func TestSend_MissingRecipient(t *testing.T) {
	m := mailer.NewSMTPMailer()

	settings := domain.Settings{
		EmailActive: true,
		SMTPHost:    "smtp.invalido.exemplo",
		SMTPPort:    587,
		SMTPFrom:    "noreply@govagas.com.br",
	}

	err := m.Send(context.Background(), settings, "   ", "Assunto", "<p>Olá</p>", "")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}
