package jobservice

import (
	"context"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/guard"
	"govagas/internal/pkg/logger"
	"govagas/internal/pkg/validate"
)

// Service implementa o ciclo de vida das vagas: criação pelo dono,
// edição, alternância de status e exclusão, além da listagem pública.
type Service struct {
	Jobs    domain.JobRepository
	Clients domain.ClientRepository
	logger  logger.Logger
}

// NewService cria uma nova instância do serviço de vagas.
func NewService(jobs domain.JobRepository, clients domain.ClientRepository, log logger.Logger) *Service {
	return &Service{Jobs: jobs, Clients: clients, logger: log}
}

// Create publica uma vaga. Empresas publicam em nome próprio; admins
// publicam em nome de um cliente que administram (client_id obrigatório
// e verificado contra a posse do cliente). Vagas nascem ativas.
func (s *Service) Create(ctx context.Context, p domain.Principal, input domain.JobInput) (domain.Job, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Job{}, err
	}

	var owner domain.Owner
	switch p.Kind {
	case domain.KindCompany:
		if input.ClientID != "" {
			return domain.Job{}, apperror.NewValidationError("campo client_id: permitido apenas para administradores")
		}
		owner = domain.CompanyOwner(p.ActorID)

	case domain.KindAdmin:
		if input.ClientID == "" {
			return domain.Job{}, apperror.NewValidationError("campo client_id: obrigatório para vagas de cliente")
		}
		client, err := s.Clients.FindByID(ctx, input.ClientID)
		if err != nil {
			return domain.Job{}, err
		}
		if !guard.CanManageClient(p, client) {
			return domain.Job{}, apperror.NewForbiddenError("Este cliente pertence a outro administrador.")
		}
		owner = domain.ClientOwner(client.ID)

	default:
		return domain.Job{}, apperror.NewForbiddenError("Apenas empresas e administradores publicam vagas.")
	}

	job, err := s.Jobs.Save(ctx, domain.Job{
		Owner:       owner,
		Title:       input.Title,
		Description: input.Description,
		SectorID:    input.SectorID,
		City:        input.City,
		State:       input.State,
		Salary:      input.Salary,
		JobType:     input.JobType,
		Status:      domain.JobActive,
	})
	if err != nil {
		return domain.Job{}, err
	}

	s.logger.Info("Vaga publicada.", map[string]interface{}{"job_id": job.ID, "owner_kind": string(owner.Kind)})
	return job, nil
}

// Get retorna uma vaga pelo ID (leitura pública).
func (s *Service) Get(ctx context.Context, id string) (domain.Job, error) {
	return s.Jobs.FindByID(ctx, id)
}

// ListPublic lista vagas para o site. O filtro sempre força ActiveOnly:
// vagas suspensas nunca aparecem na vitrine, independente do chamador.
func (s *Service) ListPublic(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	filter.ActiveOnly = true
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	return s.Jobs.FindAll(ctx, filter)
}

// ListMine lista as vagas do dono logado (empresa) ou as vagas dos
// clientes do admin logado, incluindo as suspensas.
func (s *Service) ListMine(ctx context.Context, p domain.Principal) ([]domain.Job, error) {
	switch p.Kind {
	case domain.KindCompany:
		return s.Jobs.FindByOwner(ctx, domain.CompanyOwner(p.ActorID))

	case domain.KindAdmin:
		clients, err := s.Clients.FindByAdmin(ctx, p.ActorID)
		if err != nil {
			return nil, err
		}
		jobs := []domain.Job{}
		for _, c := range clients {
			cjobs, err := s.Jobs.FindByOwner(ctx, domain.ClientOwner(c.ID))
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, cjobs...)
		}
		return jobs, nil

	default:
		return nil, apperror.NewForbiddenError("Apenas empresas e administradores gerenciam vagas.")
	}
}

// Update edita os campos de conteúdo de uma vaga do dono. A propriedade
// (Owner) e o status nunca mudam por aqui.
func (s *Service) Update(ctx context.Context, p domain.Principal, id string, input domain.JobInput) (domain.Job, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Job{}, err
	}

	job, err := s.authorizeOwner(ctx, p, id)
	if err != nil {
		return domain.Job{}, err
	}

	job.Title = input.Title
	job.Description = input.Description
	job.SectorID = input.SectorID
	job.City = input.City
	job.State = input.State
	job.Salary = input.Salary
	job.JobType = input.JobType

	if err := s.Jobs.Update(ctx, job); err != nil {
		return domain.Job{}, err
	}
	return job, nil
}

// SetStatus alterna o status da vaga. Definir o status que a vaga já tem
// é um no-op bem-sucedido (a operação é idempotente).
func (s *Service) SetStatus(ctx context.Context, p domain.Principal, id string, status domain.JobStatus) (domain.Job, error) {
	if status != domain.JobActive && status != domain.JobSuspended {
		return domain.Job{}, apperror.NewValidationError("campo status: valor deve ser 'active' ou 'suspended'")
	}

	job, err := s.authorizeOwner(ctx, p, id)
	if err != nil {
		return domain.Job{}, err
	}

	if job.Status == status {
		return job, nil
	}

	if err := s.Jobs.UpdateStatus(ctx, id, status); err != nil {
		return domain.Job{}, err
	}
	job.Status = status
	return job, nil
}

// Delete exclui definitivamente uma vaga do dono. Candidaturas e
// vínculos de pergunta caem em cascata no banco.
func (s *Service) Delete(ctx context.Context, p domain.Principal, id string) error {
	if _, err := s.authorizeOwner(ctx, p, id); err != nil {
		return err
	}
	if err := s.Jobs.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Vaga excluída.", map[string]interface{}{"job_id": id})
	return nil
}

// authorizeOwner carrega a vaga e decide a posse. Para vagas de cliente,
// resolve o admin dono do cliente vinculado antes de decidir.
func (s *Service) authorizeOwner(ctx context.Context, p domain.Principal, jobID string) (domain.Job, error) {
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
