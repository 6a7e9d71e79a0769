package applicationservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/logger"
	"govagas/internal/service/applicationservice"
)

const (
	jobID      = "7f6b0e06-65ba-4a6b-9f06-91b4c9a1a111"
	questionID = "3c1f5a2b-8d4e-4f6a-9b0c-1d2e3f4a5b6c"
)

// MockApplicationRepository é uma implementação mock da interface ApplicationRepository
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) SaveWithAnswers(ctx context.Context, app domain.Application, answers []domain.ApplicationAnswer) (domain.Application, error) {
	args := m.Called(ctx, app, answers)
	return args.Get(0).(domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) FindByID(ctx context.Context, id string) (domain.Application, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) FindByJobAndOperator(ctx context.Context, jobID, operatorID string) (domain.Application, error) {
	args := m.Called(ctx, jobID, operatorID)
	return args.Get(0).(domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) FindByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) FindByOperator(ctx context.Context, operatorID string) ([]domain.Application, error) {
	args := m.Called(ctx, operatorID)
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockApplicationRepository) FindAnswers(ctx context.Context, applicationID string) ([]domain.ApplicationAnswer, error) {
	args := m.Called(ctx, applicationID)
	return args.Get(0).([]domain.ApplicationAnswer), args.Error(1)
}

// MockJobRepository é uma implementação mock da interface JobRepository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Save(ctx context.Context, job domain.Job) (domain.Job, error) {
	args := m.Called(ctx, job)
	return args.Get(0).(domain.Job), args.Error(1)
}

func (m *MockJobRepository) FindByID(ctx context.Context, id string) (domain.Job, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Job), args.Error(1)
}

func (m *MockJobRepository) FindAll(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobRepository) FindByOwner(ctx context.Context, owner domain.Owner) ([]domain.Job, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobRepository) Update(ctx context.Context, job domain.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockJobRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockClientRepository é uma implementação mock da interface ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Save(ctx context.Context, c domain.Client) (domain.Client, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindByID(ctx context.Context, id string) (domain.Client, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindByAdmin(ctx context.Context, adminID string) ([]domain.Client, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, c domain.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockQuestionRepository é uma implementação mock da interface QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Save(ctx context.Context, q domain.Question) (domain.Question, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindByID(ctx context.Context, id string) (domain.Question, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindByOwner(ctx context.Context, owner domain.Owner) ([]domain.Question, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, q domain.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) ReplaceJobQuestions(ctx context.Context, jobID string, questionIDs []string) error {
	args := m.Called(ctx, jobID, questionIDs)
	return args.Error(0)
}

func (m *MockQuestionRepository) FindByJob(ctx context.Context, jobID string) ([]domain.Question, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).([]domain.Question), args.Error(1)
}

func newService() (*applicationservice.Service, *MockApplicationRepository, *MockJobRepository, *MockClientRepository, *MockQuestionRepository) {
	mockApps := new(MockApplicationRepository)
	mockJobs := new(MockJobRepository)
	mockClients := new(MockClientRepository)
	mockQuestions := new(MockQuestionRepository)
	svc := applicationservice.NewService(mockApps, mockJobs, mockClients, mockQuestions, logger.NewLogger("debug"))
	return svc, mockApps, mockJobs, mockClients, mockQuestions
}

// TestApply_Success testa a candidatura a uma vaga ativa.
func TestApply_Success(t *testing.T) {
	svc, mockApps, mockJobs, _, _ := newService()

	operador := domain.Principal{ActorID: "op-1", Kind: domain.KindOperator}

	mockJobs.On("FindByID", mock.Anything, jobID).
		Return(domain.Job{ID: jobID, Status: domain.JobActive}, nil)
	mockApps.On("FindByJobAndOperator", mock.Anything, jobID, "op-1").
		Return(domain.Application{}, apperror.NewNotFoundError("não existe"))
	mockApps.On("SaveWithAnswers", mock.Anything, mock.MatchedBy(func(a domain.Application) bool {
		return a.JobID == jobID && a.OperatorID == "op-1" && a.Status == domain.ApplicationPending
	}), mock.Anything).Return(domain.Application{ID: "app-1", JobID: jobID, OperatorID: "op-1", Status: domain.ApplicationPending}, nil)

	app, err := svc.Apply(context.Background(), operador, domain.ApplicationInput{JobID: jobID})

	assert.NoError(t, err)
	assert.Equal(t, domain.ApplicationPending, app.Status)
	mockApps.AssertExpectations(t)
}

// TestApply_AnswersPersistedWithApplication testa que candidatura e
// respostas são gravadas em uma única chamada de persistência.
func TestApply_AnswersPersistedWithApplication(t *testing.T) {
	svc, mockApps, mockJobs, _, mockQuestions := newService()

	operador := domain.Principal{ActorID: "op-1", Kind: domain.KindOperator}

	mockJobs.On("FindByID", mock.Anything, jobID).
		Return(domain.Job{ID: jobID, Status: domain.JobActive}, nil)
	mockApps.On("FindByJobAndOperator", mock.Anything, jobID, "op-1").
		Return(domain.Application{}, apperror.NewNotFoundError("não existe"))
	mockQuestions.On("FindByJob", mock.Anything, jobID).
		Return([]domain.Question{{ID: questionID, Text: "Possui CNH?"}}, nil)
	mockApps.On("SaveWithAnswers", mock.Anything, mock.Anything, mock.MatchedBy(func(answers []domain.ApplicationAnswer) bool {
		return len(answers) == 1 && answers[0].QuestionID == questionID && answers[0].Answer == "Sim"
	})).Return(domain.Application{ID: "app-1", JobID: jobID, OperatorID: "op-1", Status: domain.ApplicationPending}, nil)

	app, err := svc.Apply(context.Background(), operador, domain.ApplicationInput{
		JobID:   jobID,
		Answers: []domain.AnswerInput{{QuestionID: questionID, Answer: "Sim"}},
	})

	assert.NoError(t, err)
	assert.Equal(t, "app-1", app.ID)
	mockApps.AssertExpectations(t)
	mockApps.AssertNumberOfCalls(t, "SaveWithAnswers", 1)
}

// TestApply_UnattachedQuestionRejected testa que resposta a pergunta não
// associada à vaga é rejeitada antes de qualquer persistência.
func TestApply_UnattachedQuestionRejected(t *testing.T) {
	svc, mockApps, mockJobs, _, mockQuestions := newService()

	operador := domain.Principal{ActorID: "op-1", Kind: domain.KindOperator}
	outraPergunta := "9e8d7c6b-5a4f-4e3d-8c2b-1a0f9e8d7c6b"

	mockJobs.On("FindByID", mock.Anything, jobID).
		Return(domain.Job{ID: jobID, Status: domain.JobActive}, nil)
	mockApps.On("FindByJobAndOperator", mock.Anything, jobID, "op-1").
		Return(domain.Application{}, apperror.NewNotFoundError("não existe"))
	mockQuestions.On("FindByJob", mock.Anything, jobID).
		Return([]domain.Question{{ID: questionID, Text: "Possui CNH?"}}, nil)

	_, err := svc.Apply(context.Background(), operador, domain.ApplicationInput{
		JobID:   jobID,
		Answers: []domain.AnswerInput{{QuestionID: outraPergunta, Answer: "Sim"}},
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockApps.AssertNotCalled(t, "SaveWithAnswers", mock.Anything, mock.Anything, mock.Anything)
}

// TestApply_PersistFailurePropagates testa que a falha da gravação
// atômica sobe ao chamador sem deixar caminho parcial.
func TestApply_PersistFailurePropagates(t *testing.T) {
	svc, mockApps, mockJobs, _, mockQuestions := newService()

	operador := domain.Principal{ActorID: "op-1", Kind: domain.KindOperator}

	mockJobs.On("FindByID", mock.Anything, jobID).
		Return(domain.Job{ID: jobID, Status: domain.JobActive}, nil)
	mockApps.On("FindByJobAndOperator", mock.Anything, jobID, "op-1").
		Return(domain.Application{}, apperror.NewNotFoundError("não existe"))
	mockQuestions.On("FindByJob", mock.Anything, jobID).
		Return([]domain.Question{{ID: questionID, Text: "Possui CNH?"}}, nil)
	mockApps.On("SaveWithAnswers", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.Application{}, apperror.NewConflictError("Esta pergunta já foi respondida nesta candidatura."))

	_, err := svc.Apply(context.Background(), operador, domain.ApplicationInput{
		JobID:   jobID,
		Answers: []domain.AnswerInput{{QuestionID: questionID, Answer: "Sim"}},
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockApps.AssertNumberOfCalls(t, "SaveWithAnswers", 1)
}

// TestApply_Duplicate testa a deduplicação por (vaga, operador).
func TestApply_Duplicate(t *testing.T) {
	svc, mockApps, mockJobs, _, _ := newService()

	operador := domain.Principal{ActorID: "op-1", Kind: domain.KindOperator}

	mockJobs.On("FindByID", mock.Anything, jobID).
		Return(domain.Job{ID: jobID, Status: domain.JobActive}, nil)
	mockApps.On("FindByJobAndOperator", mock.Anything, jobID, "op-1").
		Return(domain.Application{ID: "app-1"}, nil)

	_, err := svc.Apply(context.Background(), operador, domain.ApplicationInput{JobID: jobID})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	// A gravação nunca é chamada na duplicata.
	mockApps.AssertNotCalled(t, "SaveWithAnswers", mock.Anything, mock.Anything, mock.Anything)
}

// TestApply_SuspendedJob testa que vaga suspensa não recebe candidatura.
func TestApply_SuspendedJob(t *testing.T) {
	svc, mockApps, mockJobs, _, _ := newService()

	mockJobs.On("FindByID", mock.Anything, jobID).
		Return(domain.Job{ID: jobID, Status: domain.JobSuspended}, nil)

	_, err := svc.Apply(context.Background(),
		domain.Principal{ActorID: "op-1", Kind: domain.KindOperator}, domain.ApplicationInput{JobID: jobID})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockApps.AssertNotCalled(t, "SaveWithAnswers", mock.Anything, mock.Anything, mock.Anything)
}

// TestApply_NonOperator testa que só operadores se candidatam.
func TestApply_NonOperator(t *testing.T) {
	svc, mockApps, _, _, _ := newService()

	_, err := svc.Apply(context.Background(),
		domain.Principal{ActorID: "company-1", Kind: domain.KindCompany}, domain.ApplicationInput{JobID: jobID})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ForbiddenError{}, err)
	mockApps.AssertNotCalled(t, "SaveWithAnswers", mock.Anything, mock.Anything, mock.Anything)
}

// TestSetStatus_JobOwner testa a transição pelo dono da vaga.
func TestSetStatus_JobOwner(t *testing.T) {
	svc, mockApps, mockJobs, _, _ := newService()

	dona := domain.Principal{ActorID: "company-1", Kind: domain.KindCompany}

	mockApps.On("FindByID", mock.Anything, "app-1").
		Return(domain.Application{ID: "app-1", JobID: jobID, OperatorID: "op-1", Status: domain.ApplicationPending}, nil)
	mockJobs.On("FindByID", mock.Anything, jobID).
		Return(domain.Job{ID: jobID, Owner: domain.CompanyOwner("company-1")}, nil)
	mockApps.On("UpdateStatus", mock.Anything, "app-1", domain.ApplicationAccepted).Return(nil)

	app, err := svc.SetStatus(context.Background(), dona, "app-1", domain.ApplicationAccepted)

	assert.NoError(t, err)
	assert.Equal(t, domain.ApplicationAccepted, app.Status)
	mockApps.AssertExpectations(t)
}

// TestSetStatus_OperatorDenied testa que o candidato não transiciona a própria candidatura.
func TestSetStatus_OperatorDenied(t *testing.T) {
	svc, mockApps, mockJobs, _, _ := newService()

	candidato := domain.Principal{ActorID: "op-1", Kind: domain.KindOperator}

	mockApps.On("FindByID", mock.Anything, "app-1").
		Return(domain.Application{ID: "app-1", JobID: jobID, OperatorID: "op-1", Status: domain.ApplicationPending}, nil)
	mockJobs.On("FindByID", mock.Anything, jobID).
		Return(domain.Job{ID: jobID, Owner: domain.CompanyOwner("company-1")}, nil)

	_, err := svc.SetStatus(context.Background(), candidato, "app-1", domain.ApplicationAccepted)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ForbiddenError{}, err)
	mockApps.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// TestSetStatus_RejectsPending testa que voltar a pending é proibido.
func TestSetStatus_RejectsPending(t *testing.T) {
	svc, mockApps, _, _, _ := newService()

	_, err := svc.SetStatus(context.Background(),
		domain.Principal{ActorID: "company-1", Kind: domain.KindCompany}, "app-1", domain.ApplicationPending)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockApps.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// TestSetStatus_AcceptedToRejected testa a re-transição accepted→rejected.
func TestSetStatus_AcceptedToRejected(t *testing.T) {
	svc, mockApps, mockJobs, _, _ := newService()

	dona := domain.Principal{ActorID: "company-1", Kind: domain.KindCompany}

	mockApps.On("FindByID", mock.Anything, "app-1").
		Return(domain.Application{ID: "app-1", JobID: jobID, Status: domain.ApplicationAccepted}, nil)
	mockJobs.On("FindByID", mock.Anything, jobID).
		Return(domain.Job{ID: jobID, Owner: domain.CompanyOwner("company-1")}, nil)
	mockApps.On("UpdateStatus", mock.Anything, "app-1", domain.ApplicationRejected).Return(nil)

	app, err := svc.SetStatus(context.Background(), dona, "app-1", domain.ApplicationRejected)

	assert.NoError(t, err)
	assert.Equal(t, domain.ApplicationRejected, app.Status)
	mockApps.AssertExpectations(t)
}

// TestAnswers_Applicant testa que o próprio candidato lê as respostas.
func TestAnswers_Applicant(t *testing.T) {
	svc, mockApps, _, _, _ := newService()

	candidato := domain.Principal{ActorID: "op-1", Kind: domain.KindOperator}

	mockApps.On("FindByID", mock.Anything, "app-1").
		Return(domain.Application{ID: "app-1", JobID: jobID, OperatorID: "op-1"}, nil)
	mockApps.On("FindAnswers", mock.Anything, "app-1").
		Return([]domain.ApplicationAnswer{{ID: "ans-1"}}, nil)

	answers, err := svc.Answers(context.Background(), candidato, "app-1")

	assert.NoError(t, err)
	assert.Len(t, answers, 1)
	mockApps.AssertExpectations(t)
}

// TestAnswers_StrangerDenied testa que terceiros não leem as respostas.
func TestAnswers_StrangerDenied(t *testing.T) {
	svc, mockApps, mockJobs, _, _ := newService()

	estranho := domain.Principal{ActorID: "op-2", Kind: domain.KindOperator}

	mockApps.On("FindByID", mock.Anything, "app-1").
		Return(domain.Application{ID: "app-1", JobID: jobID, OperatorID: "op-1"}, nil)
	mockJobs.On("FindByID", mock.Anything, jobID).
		Return(domain.Job{ID: jobID, Owner: domain.CompanyOwner("company-1")}, nil)

	_, err := svc.Answers(context.Background(), estranho, "app-1")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ForbiddenError{}, err)
	mockApps.AssertNotCalled(t, "FindAnswers", mock.Anything, mock.Anything)
}
