package authservice_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/cache"
	"govagas/internal/pkg/logger"
	"govagas/internal/pkg/session"
	"govagas/internal/pkg/token"
	"govagas/internal/service/authservice"
)

// MockOperatorRepository é uma implementação mock da interface OperatorRepository
type MockOperatorRepository struct {
	mock.Mock
}

func (m *MockOperatorRepository) Save(ctx context.Context, op domain.Operator) (domain.Operator, error) {
	args := m.Called(ctx, op)
	return args.Get(0).(domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) FindByID(ctx context.Context, id string) (domain.Operator, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) FindByEmail(ctx context.Context, email string) (domain.Operator, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) FindByCPF(ctx context.Context, cpf string) (domain.Operator, error) {
	args := m.Called(ctx, cpf)
	return args.Get(0).(domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) FindAll(ctx context.Context) ([]domain.Operator, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Operator), args.Error(1)
}

func (m *MockOperatorRepository) Update(ctx context.Context, op domain.Operator) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockOperatorRepository) SaveExperience(ctx context.Context, exp domain.Experience) (domain.Experience, error) {
	args := m.Called(ctx, exp)
	return args.Get(0).(domain.Experience), args.Error(1)
}

func (m *MockOperatorRepository) FindExperiences(ctx context.Context, operatorID string) ([]domain.Experience, error) {
	args := m.Called(ctx, operatorID)
	return args.Get(0).([]domain.Experience), args.Error(1)
}

func (m *MockOperatorRepository) DeleteExperience(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOperatorRepository) FindExperienceByID(ctx context.Context, id string) (domain.Experience, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Experience), args.Error(1)
}

// MockCompanyRepository é uma implementação mock da interface CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) Save(ctx context.Context, c domain.Company) (domain.Company, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id string) (domain.Company, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByEmail(ctx context.Context, email string) (domain.Company, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByCNPJ(ctx context.Context, cnpj string) (domain.Company, error) {
	args := m.Called(ctx, cnpj)
	return args.Get(0).(domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAll(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) Update(ctx context.Context, c domain.Company) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockAdminRepository é uma implementação mock da interface AdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) FindByID(ctx context.Context, id string) (domain.Admin, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindByEmail(ctx context.Context, email string) (domain.Admin, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Admin), args.Error(1)
}

// MockPasswordUpdater é uma implementação mock da interface PasswordUpdater
type MockPasswordUpdater struct {
	mock.Mock
}

func (m *MockPasswordUpdater) UpdatePasswordHash(ctx context.Context, kind domain.ActorKind, actorID string, hash string) error {
	args := m.Called(ctx, kind, actorID, hash)
	return args.Error(0)
}

// MockMailer é uma implementação mock da interface Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, settings domain.Settings, to, subject, html, text string) error {
	args := m.Called(ctx, settings, to, subject, html, text)
	return args.Error(0)
}

// MockSettingsSource é uma implementação mock da interface SettingsSource
type MockSettingsSource struct {
	mock.Mock
}

func (m *MockSettingsSource) GetSettings(ctx context.Context) (domain.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Settings), args.Error(1)
}

// memCache é um cache.Client em memória para os testes.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemCache() *memCache {
	return &memCache{data: map[string]string{}}
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return val, nil
}

func (c *memCache) GetInt(ctx context.Context, key string) (int, error) {
	return 0, cache.ErrCacheMiss
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = fmt.Sprint(value)
	return nil
}

func (c *memCache) Incr(ctx context.Context, key string) error {
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

type fixture struct {
	svc       *authservice.Service
	operators *MockOperatorRepository
	companies *MockCompanyRepository
	admins    *MockAdminRepository
	creds     *MockPasswordUpdater
	sessions  session.Store
	mailer    *MockMailer
	settings  *MockSettingsSource
	cache     *memCache
}

func newFixture() fixture {
	operators := new(MockOperatorRepository)
	companies := new(MockCompanyRepository)
	admins := new(MockAdminRepository)
	creds := new(MockPasswordUpdater)
	sessions := session.NewMemoryStore(time.Hour)
	tokens := token.NewService("segredo-de-teste", 30*time.Minute)
	m := new(MockMailer)
	settings := new(MockSettingsSource)
	c := newMemCache()

	svc := authservice.NewService(operators, companies, admins, creds, sessions, tokens, m, settings, c, logger.NewLogger("debug"))
	return fixture{svc, operators, companies, admins, creds, sessions, m, settings, c}
}

func validRegistration() domain.OperatorRegistration {
	return domain.OperatorRegistration{
		Name:     "João da Silva",
		Email:    "joao@example.com",
		Password: "senha-segura",
		CPF:      "11111111111",
		City:     "Campinas",
		State:    "SP",
	}
}

// TestRegisterOperator_Success testa o registro e a criação da sessão.
func TestRegisterOperator_Success(t *testing.T) {
	f := newFixture()
	reg := validRegistration()

	f.operators.On("FindByEmail", mock.Anything, reg.Email).
		Return(domain.Operator{}, apperror.NewNotFoundError("não existe"))
	f.operators.On("FindByCPF", mock.Anything, reg.CPF).
		Return(domain.Operator{}, apperror.NewNotFoundError("não existe"))
	f.operators.On("Save", mock.Anything, mock.MatchedBy(func(op domain.Operator) bool {
		// A senha nunca é persistida em claro.
		return op.Email == reg.Email && op.PasswordHash != reg.Password && op.PasswordHash != ""
	})).Return(domain.Operator{ID: "op-1", Email: reg.Email}, nil)

	op, sess, err := f.svc.RegisterOperator(context.Background(), reg)

	assert.NoError(t, err)
	assert.Equal(t, "op-1", op.ID)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, domain.KindOperator, sess.Kind)

	// A sessão criada é recuperável do store.
	stored, err := f.sessions.Get(context.Background(), sess.ID)
	assert.NoError(t, err)
	assert.Equal(t, "op-1", stored.ActorID)
	f.operators.AssertExpectations(t)
}

// TestRegisterOperator_DuplicateEmail testa o conflito de e-mail.
func TestRegisterOperator_DuplicateEmail(t *testing.T) {
	f := newFixture()
	reg := validRegistration()

	f.operators.On("FindByEmail", mock.Anything, reg.Email).
		Return(domain.Operator{ID: "existente"}, nil)

	_, _, err := f.svc.RegisterOperator(context.Background(), reg)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	assert.Contains(t, err.Error(), reg.Email)
	f.operators.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestRegisterOperator_InvalidPayload testa a validação do payload.
func TestRegisterOperator_InvalidPayload(t *testing.T) {
	f := newFixture()
	reg := validRegistration()
	reg.CPF = "123" // len != 11

	_, _, err := f.svc.RegisterOperator(context.Background(), reg)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	f.operators.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

// TestLogin_GenericMessage testa que e-mail inexistente e senha errada
// produzem exatamente a mesma mensagem.
func TestLogin_GenericMessage(t *testing.T) {
	f := newFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("senha-correta"), bcrypt.DefaultCost)

	f.operators.On("FindByEmail", mock.Anything, "nao-existe@example.com").
		Return(domain.Operator{}, apperror.NewNotFoundError("não existe"))
	f.operators.On("FindByEmail", mock.Anything, "joao@example.com").
		Return(domain.Operator{ID: "op-1", PasswordHash: string(hash)}, nil)

	_, _, errUnknown := f.svc.Login(context.Background(), domain.KindOperator, "nao-existe@example.com", "qualquer")
	_, _, errWrongPass := f.svc.Login(context.Background(), domain.KindOperator, "joao@example.com", "senha-errada")

	assert.Error(t, errUnknown)
	assert.Error(t, errWrongPass)
	assert.IsType(t, &apperror.UnauthorizedError{}, errUnknown)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

// TestLogin_Success testa o login com credenciais corretas.
func TestLogin_Success(t *testing.T) {
	f := newFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("senha-correta"), bcrypt.DefaultCost)
	f.companies.On("FindByEmail", mock.Anything, "rh@empresa.com.br").
		Return(domain.Company{ID: "company-1", PasswordHash: string(hash)}, nil)

	account, sess, err := f.svc.Login(context.Background(), domain.KindCompany, "rh@empresa.com.br", "senha-correta")

	assert.NoError(t, err)
	assert.NotNil(t, account)
	assert.Equal(t, domain.KindCompany, sess.Kind)
	assert.Equal(t, "company-1", sess.ActorID)
}

// TestUpdateProfile_IgnoresIdentityFields testa que a atualização parcial
// só toca os campos editáveis; e-mail, CPF e senha ficam intactos.
func TestUpdateProfile_IgnoresIdentityFields(t *testing.T) {
	f := newFixture()

	atual := domain.Operator{
		ID:           "op-1",
		Name:         "João da Silva",
		Email:        "joao@example.com",
		PasswordHash: "hash-original",
		CPF:          "11111111111",
		City:         "Campinas",
	}
	f.operators.On("FindByID", mock.Anything, "op-1").Return(atual, nil)
	f.operators.On("Update", mock.Anything, mock.MatchedBy(func(op domain.Operator) bool {
		return op.Name == "João Atualizado" &&
			op.Email == "joao@example.com" &&
			op.CPF == "11111111111" &&
			op.PasswordHash == "hash-original"
	})).Return(nil)

	novoNome := "João Atualizado"
	_, err := f.svc.UpdateProfile(context.Background(),
		domain.Principal{ActorID: "op-1", Kind: domain.KindOperator},
		domain.ProfileUpdate{Name: &novoNome})

	assert.NoError(t, err)
	f.operators.AssertExpectations(t)
}

// TestActorExists testa a verificação usada pela autocura de sessões.
func TestActorExists(t *testing.T) {
	f := newFixture()

	f.operators.On("FindByID", mock.Anything, "op-1").
		Return(domain.Operator{ID: "op-1"}, nil)
	f.operators.On("FindByID", mock.Anything, "op-apagado").
		Return(domain.Operator{}, apperror.NewNotFoundError("não existe"))

	exists, err := f.svc.ActorExists(context.Background(), domain.KindOperator, "op-1")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = f.svc.ActorExists(context.Background(), domain.KindOperator, "op-apagado")
	assert.NoError(t, err)
	assert.False(t, exists)
}

// TestRequestPasswordReset_UnknownEmail testa a resposta neutra
// anti-enumeração: e-mail desconhecido não é erro e não envia nada.
func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	f := newFixture()

	f.operators.On("FindByEmail", mock.Anything, "nao-existe@example.com").
		Return(domain.Operator{}, apperror.NewNotFoundError("não existe"))

	err := f.svc.RequestPasswordReset(context.Background(), domain.KindOperator, "nao-existe@example.com")

	assert.NoError(t, err)
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestRequestPasswordReset_SendsMail testa o envio quando o ator existe.
func TestRequestPasswordReset_SendsMail(t *testing.T) {
	f := newFixture()

	f.operators.On("FindByEmail", mock.Anything, "joao@example.com").
		Return(domain.Operator{ID: "op-1", Email: "joao@example.com"}, nil)
	f.settings.On("GetSettings", mock.Anything).
		Return(domain.Settings{EmailActive: true, SMTPHost: "smtp.example.com", SMTPPort: 587}, nil)
	f.mailer.On("Send", mock.Anything, mock.Anything, "joao@example.com", mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	err := f.svc.RequestPasswordReset(context.Background(), domain.KindOperator, "joao@example.com")

	assert.NoError(t, err)
	f.mailer.AssertExpectations(t)
}

// TestConfirmPasswordReset_RoundTrip testa o ciclo gerar→validar→gravar.
func TestConfirmPasswordReset_RoundTrip(t *testing.T) {
	f := newFixture()

	tokens := token.NewService("segredo-de-teste", 30*time.Minute)
	tokenStr, err := tokens.GenerateResetToken("op-1", domain.KindOperator)
	assert.NoError(t, err)

	f.creds.On("UpdatePasswordHash", mock.Anything, domain.KindOperator, "op-1", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("nova-senha-123")) == nil
	})).Return(nil)

	err = f.svc.ConfirmPasswordReset(context.Background(), tokenStr, "nova-senha-123")

	assert.NoError(t, err)
	f.creds.AssertExpectations(t)
}

// TestConfirmPasswordReset_SingleUse testa que o token só redefine a
// senha uma vez: a segunda confirmação com o mesmo token é rejeitada.
func TestConfirmPasswordReset_SingleUse(t *testing.T) {
	f := newFixture()

	tokens := token.NewService("segredo-de-teste", 30*time.Minute)
	tokenStr, err := tokens.GenerateResetToken("op-1", domain.KindOperator)
	assert.NoError(t, err)

	f.creds.On("UpdatePasswordHash", mock.Anything, domain.KindOperator, "op-1", mock.Anything).Return(nil)

	err = f.svc.ConfirmPasswordReset(context.Background(), tokenStr, "nova-senha-123")
	assert.NoError(t, err)

	err = f.svc.ConfirmPasswordReset(context.Background(), tokenStr, "outra-senha-456")
	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	f.creds.AssertNumberOfCalls(t, "UpdatePasswordHash", 1)
}

// TestConfirmPasswordReset_InvalidToken testa a rejeição de token adulterado.
func TestConfirmPasswordReset_InvalidToken(t *testing.T) {
	f := newFixture()

	err := f.svc.ConfirmPasswordReset(context.Background(), "token-invalido", "nova-senha-123")

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	f.creds.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
