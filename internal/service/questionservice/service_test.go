package questionservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/logger"
	"govagas/internal/service/questionservice"
)

const (
	jobID      = "7f6b0e06-65ba-4a6b-9f06-91b4c9a1a111"
	questionID = "8a7c1f17-76cb-4b7c-8f17-a2c5d0b2b222"
	foreignQID = "9b8d2028-87dc-4c8d-9028-b3d6e1c3c333"
)

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

func newService() (*questionservice.Service, *MockQuestionRepository, *MockJobRepository, *MockClientRepository) {
	mockQuestions := new(MockQuestionRepository)
	mockJobs := new(MockJobRepository)
	mockClients := new(MockClientRepository)
	svc := questionservice.NewService(mockQuestions, mockJobs, mockClients, logger.NewLogger("debug"))
	return svc, mockQuestions, mockJobs, mockClients
}

// TestCreate_Company testa a criação em nome próprio.
func TestCreate_Company(t *testing.T) {
	svc, mockQuestions, _, _ := newService()

	p := domain.Principal{ActorID: "company-1", Kind: domain.KindCompany}
	mockQuestions.On("Save", mock.Anything, mock.MatchedBy(func(q domain.Question) bool {
		return q.Owner == domain.CompanyOwner("company-1")
	})).Return(domain.Question{ID: questionID}, nil)

	_, err := svc.Create(context.Background(), p, domain.QuestionInput{Text: "Possui CNH categoria B?"})

	assert.NoError(t, err)
	mockQuestions.AssertExpectations(t)
}

// TestCreate_CompanyRejectsClientID testa que empresa não usa client_id.
func TestCreate_CompanyRejectsClientID(t *testing.T) {
	svc, mockQuestions, _, _ := newService()

	p := domain.Principal{ActorID: "company-1", Kind: domain.KindCompany}
	_, err := svc.Create(context.Background(), p, domain.QuestionInput{
		Text:     "Possui CNH categoria B?",
		ClientID: "7f6b0e06-65ba-4a6b-9f06-91b4c9a1a111",
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockQuestions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestAttachToJob_Success testa a substituição do conjunto ordenado.
func TestAttachToJob_Success(t *testing.T) {
	svc, mockQuestions, mockJobs, _ := newService()

	p := domain.Principal{ActorID: "company-1", Kind: domain.KindCompany}
	owner := domain.CompanyOwner("company-1")

	mockJobs.On("FindByID", mock.Anything, jobID).
		Return(domain.Job{ID: jobID, Owner: owner}, nil)
	mockQuestions.On("FindByID", mock.Anything, questionID).
		Return(domain.Question{ID: questionID, Owner: owner}, nil)
	mockQuestions.On("ReplaceJobQuestions", mock.Anything, jobID, []string{questionID}).Return(nil)

	err := svc.AttachToJob(context.Background(), p, domain.JobQuestionInput{
		JobID: jobID, QuestionIDs: []string{questionID},
	})

	assert.NoError(t, err)
	mockQuestions.AssertExpectations(t)
}

// TestAttachToJob_ForeignQuestion testa a negação quando uma das
// perguntas pertence a outro dono: nada é gravado.
func TestAttachToJob_ForeignQuestion(t *testing.T) {
	svc, mockQuestions, mockJobs, _ := newService()

	p := domain.Principal{ActorID: "company-1", Kind: domain.KindCompany}
	owner := domain.CompanyOwner("company-1")

	mockJobs.On("FindByID", mock.Anything, jobID).
		Return(domain.Job{ID: jobID, Owner: owner}, nil)
	mockQuestions.On("FindByID", mock.Anything, questionID).
		Return(domain.Question{ID: questionID, Owner: owner}, nil)
	mockQuestions.On("FindByID", mock.Anything, foreignQID).
		Return(domain.Question{ID: foreignQID, Owner: domain.CompanyOwner("company-2")}, nil)

	err := svc.AttachToJob(context.Background(), p, domain.JobQuestionInput{
		JobID: jobID, QuestionIDs: []string{questionID, foreignQID},
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ForbiddenError{}, err)
	mockQuestions.AssertNotCalled(t, "ReplaceJobQuestions", mock.Anything, mock.Anything, mock.Anything)
}

// TestAttachToJob_ForeignJob testa a negação para vaga alheia.
func TestAttachToJob_ForeignJob(t *testing.T) {
	svc, mockQuestions, mockJobs, _ := newService()

	p := domain.Principal{ActorID: "company-2", Kind: domain.KindCompany}

	mockJobs.On("FindByID", mock.Anything, jobID).
		Return(domain.Job{ID: jobID, Owner: domain.CompanyOwner("company-1")}, nil)

	err := svc.AttachToJob(context.Background(), p, domain.JobQuestionInput{
		JobID: jobID, QuestionIDs: []string{questionID},
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ForbiddenError{}, err)
	mockQuestions.AssertNotCalled(t, "ReplaceJobQuestions", mock.Anything, mock.Anything, mock.Anything)
}

// TestDelete_AdminOwnClient testa a exclusão pelo admin dono do cliente.
func TestDelete_AdminOwnClient(t *testing.T) {
	svc, mockQuestions, _, mockClients := newService()

	p := domain.Principal{ActorID: "admin-1", Kind: domain.KindAdmin}
	clientID := "7f6b0e06-65ba-4a6b-9f06-91b4c9a1a111"

	mockQuestions.On("FindByID", mock.Anything, questionID).
		Return(domain.Question{ID: questionID, Owner: domain.ClientOwner(clientID)}, nil)
	mockClients.On("FindByID", mock.Anything, clientID).
		Return(domain.Client{ID: clientID, AdminID: "admin-1"}, nil)
	mockQuestions.On("Delete", mock.Anything, questionID).Return(nil)

	err := svc.Delete(context.Background(), p, questionID)

	assert.NoError(t, err)
	mockQuestions.AssertExpectations(t)
}
