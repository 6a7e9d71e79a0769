package applicationservice

import (
	"context"
	"errors"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/guard"
	"govagas/internal/pkg/logger"
	"govagas/internal/pkg/validate"
)

// Service implementa o ciclo de vida das candidaturas: criação pelo
// operador, listagem por ambos os lados e transição de status pelo dono
// da vaga.
type Service struct {
	Applications domain.ApplicationRepository
	Jobs         domain.JobRepository
	Clients      domain.ClientRepository
	Questions    domain.QuestionRepository
	logger       logger.Logger
}

// NewService cria uma nova instância do serviço de candidaturas.
func NewService(apps domain.ApplicationRepository, jobs domain.JobRepository, clients domain.ClientRepository, questions domain.QuestionRepository, log logger.Logger) *Service {
	return &Service{Applications: apps, Jobs: jobs, Clients: clients, Questions: questions, logger: log}
}

// Apply cria a candidatura do operador logado a uma vaga ativa.
// A deduplicação é pré-verificada para a mensagem amigável; o índice
// único (job_id, operator_id) fecha a janela de corrida no banco.
func (s *Service) Apply(ctx context.Context, p domain.Principal, input domain.ApplicationInput) (domain.Application, error) {
	if p.Kind != domain.KindOperator {
		return domain.Application{}, apperror.NewForbiddenError("Apenas operadores se candidatam a vagas.")
	}
	if err := validate.Struct(input); err != nil {
		return domain.Application{}, err
	}

	job, err := s.Jobs.FindByID(ctx, input.JobID)
	if err != nil {
		return domain.Application{}, err
	}
	if job.Status != domain.JobActive {
		return domain.Application{}, apperror.NewConflictError("Esta vaga não está mais recebendo candidaturas.")
	}

	if _, err := s.Applications.FindByJobAndOperator(ctx, input.JobID, p.ActorID); err == nil {
		return domain.Application{}, apperror.NewConflictError("Você já se candidatou a esta vaga.")
	} else if !isNotFound(err) {
		return domain.Application{}, err
	}

	// Só perguntas associadas à vaga aceitam resposta; question_id fora
	// da lista da vaga é payload inválido, não um dado a persistir.
	answers := make([]domain.ApplicationAnswer, 0, len(input.Answers))
	if len(input.Answers) > 0 {
		attached, err := s.Questions.FindByJob(ctx, input.JobID)
		if err != nil {
			return domain.Application{}, err
		}
		attachedIDs := make(map[string]struct{}, len(attached))
		for _, q := range attached {
			attachedIDs[q.ID] = struct{}{}
		}
		for _, ans := range input.Answers {
			if _, ok := attachedIDs[ans.QuestionID]; !ok {
				return domain.Application{}, apperror.NewValidationError("campo question_id: a pergunta não está associada a esta vaga")
			}
			answers = append(answers, domain.ApplicationAnswer{
				QuestionID: ans.QuestionID,
				Answer:     ans.Answer,
			})
		}
	}

	app, err := s.Applications.SaveWithAnswers(ctx, domain.Application{
		JobID:      input.JobID,
		OperatorID: p.ActorID,
		Status:     domain.ApplicationPending,
	}, answers)
	if err != nil {
		return domain.Application{}, err
	}

	s.logger.Info("Candidatura registrada.", map[string]interface{}{
		"application_id": app.ID, "job_id": app.JobID,
	})
	return app, nil
}

// ListMine lista as candidaturas do operador logado.
func (s *Service) ListMine(ctx context.Context, p domain.Principal) ([]domain.Application, error) {
	if p.Kind != domain.KindOperator {
		return nil, apperror.NewForbiddenError("Apenas operadores possuem candidaturas.")
	}
	return s.Applications.FindByOperator(ctx, p.ActorID)
}

// ListForJob lista as candidaturas de uma vaga, apenas para o dono dela.
func (s *Service) ListForJob(ctx context.Context, p domain.Principal, jobID string) ([]domain.Application, error) {
	if _, err := s.authorizeJobOwner(ctx, p, jobID); err != nil {
		return nil, err
	}
	return s.Applications.FindByJob(ctx, jobID)
}

// SetStatus transiciona o status de uma candidatura, apenas pelo dono da
// vaga. Voltar a pending é proibido; accepted↔rejected é permitido.
func (s *Service) SetStatus(ctx context.Context, p domain.Principal, applicationID string, status domain.ApplicationStatus) (domain.Application, error) {
	if status != domain.ApplicationAccepted && status != domain.ApplicationRejected {
		return domain.Application{}, apperror.NewValidationError("campo status: valor deve ser 'accepted' ou 'rejected'")
	}

	app, err := s.Applications.FindByID(ctx, applicationID)
	if err != nil {
		return domain.Application{}, err
	}
	if _, err := s.authorizeJobOwner(ctx, p, app.JobID); err != nil {
		return domain.Application{}, err
	}

	if app.Status == status {
		return app, nil
	}

	if err := s.Applications.UpdateStatus(ctx, applicationID, status); err != nil {
		return domain.Application{}, err
	}
	app.Status = status
	return app, nil
}

// Answers retorna as respostas de triagem de uma candidatura. Visíveis
// ao dono da vaga e ao próprio candidato; a ninguém mais.
func (s *Service) Answers(ctx context.Context, p domain.Principal, applicationID string) ([]domain.ApplicationAnswer, error) {
	app, err := s.Applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if !guard.CanManageOperatorResource(p, app.OperatorID) {
		if _, err := s.authorizeJobOwner(ctx, p, app.JobID); err != nil {
			return nil, apperror.NewForbiddenError("Esta candidatura pertence a outra conta.")
		}
	}

	return s.Applications.FindAnswers(ctx, applicationID)
}

// authorizeJobOwner carrega a vaga e decide a posse (mesma resolução de
// admin via cliente usada no serviço de vagas).
func (s *Service) authorizeJobOwner(ctx context.Context, p domain.Principal, jobID string) (domain.Job, error) {
	job, err := s.Jobs.FindByID(ctx, jobID)
	if err != nil {
		return domain.Job{}, err
	}

	var clientAdminID string
	if job.Owner.Kind == domain.OwnerClient {
		client, err := s.Clients.FindByID(ctx, job.Owner.ID)
		if err != nil {
			return domain.Job{}, err
		}
		clientAdminID = client.AdminID
	}

	if !guard.CanManageOwned(p, job.Owner, clientAdminID) {
		return domain.Job{}, apperror.NewForbiddenError("Esta vaga pertence a outra conta.")
	}
	return job, nil
}

func isNotFound(err error) bool {
	var nf *apperror.NotFoundError
	return errors.As(err, &nf)
}
