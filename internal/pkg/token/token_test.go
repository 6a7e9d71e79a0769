package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"govagas/internal/domain"
	"govagas/internal/pkg/token"
)

// TestGenerateResetToken_UniqueID testa que cada token emitido carrega
// um jti próprio, base do descarte após o primeiro uso.
func TestGenerateResetToken_UniqueID(t *testing.T) {
	svc := token.NewService("segredo-de-teste", 30*time.Minute)

	first, err := svc.GenerateResetToken("op-1", domain.KindOperator)
	assert.NoError(t, err)
	second, err := svc.GenerateResetToken("op-1", domain.KindOperator)
	assert.NoError(t, err)

	firstClaims, err := svc.ValidateResetToken(first)
	assert.NoError(t, err)
	secondClaims, err := svc.ValidateResetToken(second)
	assert.NoError(t, err)

	assert.NotEmpty(t, firstClaims.ID)
	assert.NotEmpty(t, secondClaims.ID)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

// TestValidateResetToken_WrongSecret testa a rejeição de assinatura alheia.
func TestValidateResetToken_WrongSecret(t *testing.T) {
	emissor := token.NewService("segredo-de-teste", 30*time.Minute)
	validador := token.NewService("outro-segredo", 30*time.Minute)

	tokenStr, err := emissor.GenerateResetToken("op-1", domain.KindOperator)
	assert.NoError(t, err)

	_, err = validador.ValidateResetToken(tokenStr)
	assert.Error(t, err)
}
