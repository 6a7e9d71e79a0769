package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"govagas/internal/domain"
)

// TokenService define o contrato para os tokens de redefinição de senha
// enviados por e-mail. São tokens assinados e de vida curta; não há
// token de autenticação de API (a autenticação é por sessão + cookie).
type TokenService interface {
	GenerateResetToken(actorID string, kind domain.ActorKind) (string, error)
	ValidateResetToken(tokenString string) (*ResetClaims, error)
}

// ResetClaims define as informações carregadas no token de redefinição.
type ResetClaims struct {
	ActorID string `json:"actor_id"`
	Kind    string `json:"kind"`
	jwt.RegisteredClaims
}

// Service implementa a interface TokenService.
type Service struct {
	secretKey []byte
	expiry    time.Duration
}

// NewService cria uma nova instância do serviço de tokens.
func NewService(secretKey string, expiry time.Duration) *Service {
	return &Service{
		secretKey: []byte(secretKey),
		expiry:    expiry,
	}
}

// GenerateResetToken cria um JWT assinado vinculando ator e tipo.
// O jti identifica o token individualmente, permitindo marcá-lo como
// consumido após a primeira redefinição.
func (s *Service) GenerateResetToken(actorID string, kind domain.ActorKind) (string, error) {
	claims := ResetClaims{
		ActorID: actorID,
		Kind:    string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "GoVagas-API",
			Subject:   actorID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("falha ao assinar o token: %w", err)
	}

	return tokenString, nil
}

// ValidateResetToken valida o token e retorna as claims se for válido.
func (s *Service) ValidateResetToken(tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("token inválido: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token não é válido")
	}

	return claims, nil
}
