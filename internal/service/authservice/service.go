package authservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/cache"
	"govagas/internal/pkg/guard"
	"govagas/internal/pkg/logger"
	"govagas/internal/pkg/mailer"
	"govagas/internal/pkg/session"
	"govagas/internal/pkg/token"
	"govagas/internal/pkg/validate"
)

// credenciais inválidas: mensagem única para e-mail inexistente e senha
// errada, para não criar um oráculo de enumeração.
const invalidCredentialsMsg = "E-mail ou senha inválidos."

// Service implementa registro, login, logout, perfil e redefinição de
// senha para os três tipos de ator.
type Service struct {
	Operators   domain.OperatorRepository
	Companies   domain.CompanyRepository
	Admins      domain.AdminRepository
	Credentials domain.PasswordUpdater
	Sessions    session.Store
	Tokens      token.TokenService
	Mailer      mailer.Mailer
	Settings    SettingsSource
	Cache       cache.Client
	logger      logger.Logger
}

// SettingsSource fornece as configurações SMTP usadas no envio do e-mail
// de redefinição de senha.
type SettingsSource interface {
	GetSettings(ctx context.Context) (domain.Settings, error)
}

// NewService cria uma nova instância do serviço de autenticação.
func NewService(
	operators domain.OperatorRepository,
	companies domain.CompanyRepository,
	admins domain.AdminRepository,
	credentials domain.PasswordUpdater,
	sessions session.Store,
	tokens token.TokenService,
	m mailer.Mailer,
	settings SettingsSource,
	c cache.Client,
	log logger.Logger,
) *Service {
	return &Service{
		Operators:   operators,
		Companies:   companies,
		Admins:      admins,
		Credentials: credentials,
		Sessions:    sessions,
		Tokens:      tokens,
		Mailer:      m,
		Settings:    settings,
		Cache:       c,
		logger:      log,
	}
}

// --- Registro ---

// RegisterOperator registra um novo operador e estabelece a sessão.
// Unicidade de e-mail e CPF é pré-verificada para mensagens amigáveis;
// os índices únicos do banco são a fonte da verdade sob concorrência.
func (s *Service) RegisterOperator(ctx context.Context, reg domain.OperatorRegistration) (domain.Operator, session.Session, error) {
	if err := validate.Struct(reg); err != nil {
		return domain.Operator{}, session.Session{}, err
	}

	if _, err := s.Operators.FindByEmail(ctx, reg.Email); err == nil {
		return domain.Operator{}, session.Session{}, apperror.NewConflictError(fmt.Sprintf("O e-mail '%s' já está cadastrado.", reg.Email))
	} else if !isNotFound(err) {
		return domain.Operator{}, session.Session{}, err
	}

	if _, err := s.Operators.FindByCPF(ctx, reg.CPF); err == nil {
		return domain.Operator{}, session.Session{}, apperror.NewConflictError(fmt.Sprintf("O CPF '%s' já está cadastrado.", reg.CPF))
	} else if !isNotFound(err) {
		return domain.Operator{}, session.Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Operator{}, session.Session{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	op, err := s.Operators.Save(ctx, domain.Operator{
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: string(hash),
		CPF:          reg.CPF,
		Phone:        reg.Phone,
		City:         reg.City,
		State:        reg.State,
	})
	if err != nil {
		return domain.Operator{}, session.Session{}, err
	}

	sess, err := s.Sessions.Create(ctx, op.ID, domain.KindOperator)
	if err != nil {
		return domain.Operator{}, session.Session{}, apperror.NewInternalError("Falha ao criar sessão.", err)
	}

	s.logger.Info("Operador registrado.", map[string]interface{}{"operator_id": op.ID})
	return op, sess, nil
}

// RegisterCompany registra uma nova empresa e estabelece a sessão.
func (s *Service) RegisterCompany(ctx context.Context, reg domain.CompanyRegistration) (domain.Company, session.Session, error) {
	if err := validate.Struct(reg); err != nil {
		return domain.Company{}, session.Session{}, err
	}

	if _, err := s.Companies.FindByEmail(ctx, reg.Email); err == nil {
		return domain.Company{}, session.Session{}, apperror.NewConflictError(fmt.Sprintf("O e-mail '%s' já está cadastrado.", reg.Email))
	} else if !isNotFound(err) {
		return domain.Company{}, session.Session{}, err
	}

	if _, err := s.Companies.FindByCNPJ(ctx, reg.CNPJ); err == nil {
		return domain.Company{}, session.Session{}, apperror.NewConflictError(fmt.Sprintf("O CNPJ '%s' já está cadastrado.", reg.CNPJ))
	} else if !isNotFound(err) {
		return domain.Company{}, session.Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Company{}, session.Session{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	c, err := s.Companies.Save(ctx, domain.Company{
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: string(hash),
		CNPJ:         reg.CNPJ,
		Phone:        reg.Phone,
		City:         reg.City,
		State:        reg.State,
	})
	if err != nil {
		return domain.Company{}, session.Session{}, err
	}

	sess, err := s.Sessions.Create(ctx, c.ID, domain.KindCompany)
	if err != nil {
		return domain.Company{}, session.Session{}, apperror.NewInternalError("Falha ao criar sessão.", err)
	}

	s.logger.Info("Empresa registrada.", map[string]interface{}{"company_id": c.ID})
	return c, sess, nil
}

// --- Login / Logout ---

// Login autentica um ator do tipo informado e estabelece a sessão.
// Qualquer falha (e-mail inexistente OU senha errada) produz a mesma
// mensagem genérica.
func (s *Service) Login(ctx context.Context, kind domain.ActorKind, email, password string) (interface{}, session.Session, error) {
	if email == "" || password == "" {
		return nil, session.Session{}, apperror.NewUnauthorizedError(invalidCredentialsMsg)
	}

	var (
		actorID string
		hash    string
		account interface{}
	)

	switch kind {
	case domain.KindOperator:
		op, err := s.Operators.FindByEmail(ctx, email)
		if err != nil {
			return nil, session.Session{}, loginFailure(err)
		}
		actorID, hash, account = op.ID, op.PasswordHash, op
	case domain.KindCompany:
		c, err := s.Companies.FindByEmail(ctx, email)
		if err != nil {
			return nil, session.Session{}, loginFailure(err)
		}
		actorID, hash, account = c.ID, c.PasswordHash, c
	case domain.KindAdmin:
		a, err := s.Admins.FindByEmail(ctx, email)
		if err != nil {
			return nil, session.Session{}, loginFailure(err)
		}
		actorID, hash, account = a.ID, a.PasswordHash, a
	default:
		return nil, session.Session{}, apperror.NewValidationError(fmt.Sprintf("Tipo de ator desconhecido: %s.", kind))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, session.Session{}, apperror.NewUnauthorizedError(invalidCredentialsMsg)
	}

	sess, err := s.Sessions.Create(ctx, actorID, kind)
	if err != nil {
		return nil, session.Session{}, apperror.NewInternalError("Falha ao criar sessão.", err)
	}

	return account, sess, nil
}

// Logout destrói a sessão.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.Sessions.Destroy(ctx, sessionID); err != nil {
		return apperror.NewInternalError("Falha ao encerrar sessão.", err)
	}
	return nil
}

// ActorExists verifica se o ator referenciado por uma sessão ainda
// existe (usado pelo middleware para a autocura de sessões órfãs).
func (s *Service) ActorExists(ctx context.Context, kind domain.ActorKind, actorID string) (bool, error) {
	var err error
	switch kind {
	case domain.KindOperator:
		_, err = s.Operators.FindByID(ctx, actorID)
	case domain.KindCompany:
		_, err = s.Companies.FindByID(ctx, actorID)
	case domain.KindAdmin:
		_, err = s.Admins.FindByID(ctx, actorID)
	default:
		return false, nil
	}

	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// ListOperators lista todos os operadores para o painel do admin.
func (s *Service) ListOperators(ctx context.Context) ([]domain.Operator, error) {
	return s.Operators.FindAll(ctx)
}

// ListCompanies lista todas as empresas registradas para o painel do admin.
func (s *Service) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	return s.Companies.FindAll(ctx)
}

// --- Perfil ---

// GetProfile retorna a projeção pública do próprio ator.
func (s *Service) GetProfile(ctx context.Context, p domain.Principal) (interface{}, error) {
	switch p.Kind {
	case domain.KindOperator:
		return s.Operators.FindByID(ctx, p.ActorID)
	case domain.KindCompany:
		return s.Companies.FindByID(ctx, p.ActorID)
	case domain.KindAdmin:
		return s.Admins.FindByID(ctx, p.ActorID)
	default:
		return nil, apperror.NewForbiddenError("Tipo de ator desconhecido.")
	}
}

// UpdateProfile aplica uma atualização parcial ao próprio perfil.
// ProfileUpdate não carrega e-mail, CPF/CNPJ, senha ou id: campos
// forjados no corpo são descartados na decodificação, e o UPDATE do
// repositório tampouco os menciona — defesa em profundidade.
func (s *Service) UpdateProfile(ctx context.Context, p domain.Principal, update domain.ProfileUpdate) (interface{}, error) {
	if err := validate.Struct(update); err != nil {
		return nil, err
	}

	switch p.Kind {
	case domain.KindOperator:
		op, err := s.Operators.FindByID(ctx, p.ActorID)
		if err != nil {
			return nil, err
		}
		applyString(&op.Name, update.Name)
		applyString(&op.Phone, update.Phone)
		applyString(&op.City, update.City)
		applyString(&op.State, update.State)
		applyString(&op.Bio, update.Bio)
		if err := s.Operators.Update(ctx, op); err != nil {
			return nil, err
		}
		return op, nil

	case domain.KindCompany:
		c, err := s.Companies.FindByID(ctx, p.ActorID)
		if err != nil {
			return nil, err
		}
		applyString(&c.Name, update.Name)
		applyString(&c.Phone, update.Phone)
		applyString(&c.City, update.City)
		applyString(&c.State, update.State)
		applyString(&c.Description, update.Description)
		if err := s.Companies.Update(ctx, c); err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, apperror.NewForbiddenError("Atualização de perfil disponível apenas para operadores e empresas.")
	}
}

// --- Experiências (recurso exclusivo do operador dono) ---

// AddExperience adiciona uma experiência ao perfil do operador logado.
func (s *Service) AddExperience(ctx context.Context, p domain.Principal, input domain.ExperienceInput) (domain.Experience, error) {
	if p.Kind != domain.KindOperator {
		return domain.Experience{}, apperror.NewForbiddenError("Apenas operadores gerenciam experiências.")
	}
	if err := validate.Struct(input); err != nil {
		return domain.Experience{}, err
	}

	return s.Operators.SaveExperience(ctx, domain.Experience{
		OperatorID:  p.ActorID,
		CompanyName: input.CompanyName,
		Role:        input.Role,
		Description: input.Description,
		StartedAt:   input.StartedAt,
		EndedAt:     input.EndedAt,
	})
}

// ListExperiences lista as experiências do operador logado.
func (s *Service) ListExperiences(ctx context.Context, p domain.Principal) ([]domain.Experience, error) {
	if p.Kind != domain.KindOperator {
		return nil, apperror.NewForbiddenError("Apenas operadores gerenciam experiências.")
	}
	return s.Operators.FindExperiences(ctx, p.ActorID)
}

// DeleteExperience exclui uma experiência, apenas pelo operador dono.
func (s *Service) DeleteExperience(ctx context.Context, p domain.Principal, id string) error {
	exp, err := s.Operators.FindExperienceByID(ctx, id)
	if err != nil {
		return err
	}
	if !guard.CanManageOperatorResource(p, exp.OperatorID) {
		return apperror.NewForbiddenError("Esta experiência pertence a outro operador.")
	}
	return s.Operators.DeleteExperience(ctx, id)
}

// --- Redefinição de senha ---

// RequestPasswordReset envia (melhor esforço) o e-mail com o token de
// redefinição. O retorno é sempre neutro: a resposta não revela se o
// e-mail existe, e falhas de envio são logadas sem vazar ao chamador.
func (s *Service) RequestPasswordReset(ctx context.Context, kind domain.ActorKind, email string) error {
	var actorID string
	switch kind {
	case domain.KindOperator:
		op, err := s.Operators.FindByEmail(ctx, email)
		if err != nil {
			return swallowReset(err)
		}
		actorID = op.ID
	case domain.KindCompany:
		c, err := s.Companies.FindByEmail(ctx, email)
		if err != nil {
			return swallowReset(err)
		}
		actorID = c.ID
	case domain.KindAdmin:
		a, err := s.Admins.FindByEmail(ctx, email)
		if err != nil {
			return swallowReset(err)
		}
		actorID = a.ID
	default:
		return apperror.NewValidationError(fmt.Sprintf("Tipo de ator desconhecido: %s.", kind))
	}

	tokenStr, err := s.Tokens.GenerateResetToken(actorID, kind)
	if err != nil {
		s.logger.Error("Falha ao gerar token de redefinição.", err)
		return nil
	}

	settings, err := s.Settings.GetSettings(ctx)
	if err != nil {
		s.logger.Error("Falha ao carregar configurações SMTP.", err)
		return nil
	}

	html := fmt.Sprintf("<p>Use o código abaixo para redefinir sua senha:</p><pre>%s</pre>", tokenStr)
	if err := s.Mailer.Send(ctx, settings, email, "Redefinição de senha", html, "Código: "+tokenStr); err != nil {
		s.logger.Error("Falha ao enviar e-mail de redefinição.", err)
	}
	return nil
}

// ConfirmPasswordReset valida o token e grava a nova senha. O token é
// de uso único: o jti consumido fica marcado no cache até o fim da
// validade natural do token, e uma segunda confirmação é rejeitada.
func (s *Service) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	if len(newPassword) < 8 {
		return apperror.NewValidationError("campo password: tamanho mínimo 8")
	}

	claims, err := s.Tokens.ValidateResetToken(tokenStr)
	if err != nil || claims.ID == "" {
		return apperror.NewUnauthorizedError("Token de redefinição inválido ou expirado.")
	}

	usedKey := resetUsedKey(claims.ID)
	if _, err := s.Cache.Get(ctx, usedKey); err == nil {
		return apperror.NewUnauthorizedError("Token de redefinição inválido ou expirado.")
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		return apperror.NewInternalError("Falha ao verificar o token de redefinição.", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	if err := s.Credentials.UpdatePasswordHash(ctx, domain.ActorKind(claims.Kind), claims.ActorID, string(hash)); err != nil {
		return err
	}

	if claims.ExpiresAt != nil {
		if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
			if err := s.Cache.Set(ctx, usedKey, "1", ttl); err != nil {
				s.logger.Error("Falha ao marcar token de redefinição como consumido.", err)
			}
		}
	}
	return nil
}

// --- helpers ---

// isNotFound testa o NotFoundError tipado do pacote de erros.
func isNotFound(err error) bool {
	var nf *apperror.NotFoundError
	return errors.As(err, &nf)
}

// loginFailure traduz NotFound em credenciais inválidas; outros erros
// (DB fora do ar) sobem como internos.
func loginFailure(err error) error {
	if isNotFound(err) {
		return apperror.NewUnauthorizedError(invalidCredentialsMsg)
	}
	return err
}

// resetUsedKey é a chave de cache que marca um jti de redefinição como
// consumido.
func resetUsedKey(jti string) string {
	return "pwreset:used:" + jti
}

// swallowReset engole NotFound (anti-enumeração) e propaga o resto.
func swallowReset(err error) error {
	if isNotFound(err) {
		return nil
	}
	return err
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
