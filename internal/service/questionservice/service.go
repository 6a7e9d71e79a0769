package questionservice

import (
	"context"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/guard"
	"govagas/internal/pkg/logger"
	"govagas/internal/pkg/validate"
)

// Service implementa o banco de perguntas de triagem e sua associação
// ordenada às vagas.
type Service struct {
	Questions domain.QuestionRepository
	Jobs      domain.JobRepository
	Clients   domain.ClientRepository
	logger    logger.Logger
}

// NewService cria uma nova instância do serviço de perguntas.
func NewService(questions domain.QuestionRepository, jobs domain.JobRepository, clients domain.ClientRepository, log logger.Logger) *Service {
	return &Service{Questions: questions, Jobs: jobs, Clients: clients, logger: log}
}

// Create adiciona uma pergunta ao banco do dono. Mesma regra de posse
// das vagas: empresa em nome próprio, admin em nome de um cliente seu.
func (s *Service) Create(ctx context.Context, p domain.Principal, input domain.QuestionInput) (domain.Question, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Question{}, err
	}

	owner, err := s.resolveOwner(ctx, p, input.ClientID)
	if err != nil {
		return domain.Question{}, err
	}

	return s.Questions.Save(ctx, domain.Question{Owner: owner, Text: input.Text})
}

// ListMine lista as perguntas do dono logado. Admins informam o cliente.
func (s *Service) ListMine(ctx context.Context, p domain.Principal, clientID string) ([]domain.Question, error) {
	owner, err := s.resolveOwner(ctx, p, clientID)
	if err != nil {
		return nil, err
	}
	return s.Questions.FindByOwner(ctx, owner)
}

// Update edita o texto de uma pergunta do dono.
func (s *Service) Update(ctx context.Context, p domain.Principal, id string, input domain.QuestionInput) (domain.Question, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Question{}, err
	}

	q, err := s.authorizeQuestionOwner(ctx, p, id)
	if err != nil {
		return domain.Question{}, err
	}

	q.Text = input.Text
	if err := s.Questions.Update(ctx, q); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

// Delete exclui uma pergunta do dono. Vínculos com vagas caem em
// cascata; respostas já dadas preservam o question_id histórico.
func (s *Service) Delete(ctx context.Context, p domain.Principal, id string) error {
	if _, err := s.authorizeQuestionOwner(ctx, p, id); err != nil {
		return err
	}
	return s.Questions.Delete(ctx, id)
}

// AttachToJob substitui o conjunto ordenado de perguntas de uma vaga.
// Exige posse da vaga E de todas as perguntas: não se anexa pergunta
// alheia, nem pergunta própria a vaga alheia.
func (s *Service) AttachToJob(ctx context.Context, p domain.Principal, input domain.JobQuestionInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}

	job, err := s.Jobs.FindByID(ctx, input.JobID)
	if err != nil {
		return err
	}
	clientAdminID, err := s.resolveClientAdmin(ctx, job.Owner)
	if err != nil {
		return err
	}
	if !guard.CanManageOwned(p, job.Owner, clientAdminID) {
		return apperror.NewForbiddenError("Esta vaga pertence a outra conta.")
	}

	for _, qid := range input.QuestionIDs {
		q, err := s.Questions.FindByID(ctx, qid)
		if err != nil {
			return err
		}
		if q.Owner != job.Owner {
			return apperror.NewForbiddenError("Todas as perguntas devem pertencer ao dono da vaga.")
		}
	}

	return s.Questions.ReplaceJobQuestions(ctx, input.JobID, input.QuestionIDs)
}

// ListForJob lista as perguntas de uma vaga na ordem de exibição.
// Leitura pública: o operador precisa vê-las antes de se candidatar.
func (s *Service) ListForJob(ctx context.Context, jobID string) ([]domain.Question, error) {
	return s.Questions.FindByJob(ctx, jobID)
}

// resolveOwner converte principal (+client_id para admins) no Owner.
func (s *Service) resolveOwner(ctx context.Context, p domain.Principal, clientID string) (domain.Owner, error) {
	switch p.Kind {
	case domain.KindCompany:
		if clientID != "" {
			return domain.Owner{}, apperror.NewValidationError("campo client_id: permitido apenas para administradores")
		}
		return domain.CompanyOwner(p.ActorID), nil

	case domain.KindAdmin:
		if clientID == "" {
			return domain.Owner{}, apperror.NewValidationError("campo client_id: obrigatório para administradores")
		}
		client, err := s.Clients.FindByID(ctx, clientID)
		if err != nil {
			return domain.Owner{}, err
		}
		if !guard.CanManageClient(p, client) {
			return domain.Owner{}, apperror.NewForbiddenError("Este cliente pertence a outro administrador.")
		}
		return domain.ClientOwner(client.ID), nil

	default:
		return domain.Owner{}, apperror.NewForbiddenError("Apenas empresas e administradores gerenciam perguntas.")
	}
}

func (s *Service) authorizeQuestionOwner(ctx context.Context, p domain.Principal, id string) (domain.Question, error) {
	q, err := s.Questions.FindByID(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	clientAdminID, err := s.resolveClientAdmin(ctx, q.Owner)
	if err != nil {
		return domain.Question{}, err
	}
	if !guard.CanManageOwned(p, q.Owner, clientAdminID) {
		return domain.Question{}, apperror.NewForbiddenError("Esta pergunta pertence a outra conta.")
	}
	return q, nil
}

func (s *Service) resolveClientAdmin(ctx context.Context, owner domain.Owner) (string, error) {
	if owner.Kind != domain.OwnerClient {
		return "", nil
	}
	client, err := s.Clients.FindByID(ctx, owner.ID)
	if err != nil {
		return "", err
	}
	return client.AdminID, nil
}
