package clientservice

import (
	"context"
	"errors"
	"fmt"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/guard"
	"govagas/internal/pkg/logger"
	"govagas/internal/pkg/validate"
)

// clientColors é o esquema fixo de cores da listagem unificada,
// atribuído por índice (puramente cosmético).
var clientColors = []string{"#2563eb", "#16a34a", "#d97706", "#dc2626", "#7c3aed", "#0891b2"}

// Service implementa a curadoria de clientes pelo admin, a projeção
// unificada cliente/empresa, planos e compras.
type Service struct {
	Clients   domain.ClientRepository
	Companies domain.CompanyRepository
	Plans     domain.PlanRepository
	logger    logger.Logger
}

// NewService cria uma nova instância do serviço de clientes.
func NewService(clients domain.ClientRepository, companies domain.CompanyRepository, plans domain.PlanRepository, log logger.Logger) *Service {
	return &Service{Clients: clients, Companies: companies, Plans: plans, logger: log}
}

// --- Clientes ---

// CreateClient cadastra um cliente administrado pelo admin logado.
func (s *Service) CreateClient(ctx context.Context, p domain.Principal, input domain.ClientInput) (domain.Client, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Client{}, err
	}

	c, err := s.Clients.Save(ctx, domain.Client{
		AdminID: p.ActorID,
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		City:    input.City,
		State:   input.State,
	})
	if err != nil {
		return domain.Client{}, err
	}

	s.logger.Info("Cliente cadastrado.", map[string]interface{}{"client_id": c.ID})
	return c, nil
}

// GetClient retorna um cliente do admin logado.
func (s *Service) GetClient(ctx context.Context, p domain.Principal, id string) (domain.Client, error) {
	c, err := s.Clients.FindByID(ctx, id)
	if err != nil {
		return domain.Client{}, err
	}
	if !guard.CanManageClient(p, c) {
		return domain.Client{}, apperror.NewForbiddenError("Este cliente pertence a outro administrador.")
	}
	return c, nil
}

// DeleteClient exclui definitivamente um cliente do admin logado.
// Vagas, perguntas e compras vinculadas caem em cascata no banco.
func (s *Service) DeleteClient(ctx context.Context, p domain.Principal, id string) error {
	if _, err := s.GetClient(ctx, p, id); err != nil {
		return err
	}
	if err := s.Clients.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Cliente excluído.", map[string]interface{}{"client_id": id})
	return nil
}

// --- Projeção unificada ---

// ListUnified monta a lista de "clientes" do painel: os clientes
// administrados pelo admin logado mais todas as empresas registradas,
// etiquetadas pela origem. As cores seguem a paleta fixa por índice.
func (s *Service) ListUnified(ctx context.Context, p domain.Principal) ([]domain.ClientView, error) {
	clients, err := s.Clients.FindByAdmin(ctx, p.ActorID)
	if err != nil {
		return nil, err
	}
	companies, err := s.Companies.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]domain.ClientView, 0, len(clients)+len(companies))
	for _, c := range clients {
		views = append(views, domain.ClientView{
			ID: c.ID, Source: domain.SourceAdminClient,
			Name: c.Name, Email: c.Email, Phone: c.Phone,
			City: c.City, State: c.State,
		})
	}
	// Empresas registradas emprestam seus campos de contato à projeção.
	for _, c := range companies {
		views = append(views, domain.ClientView{
			ID: c.ID, Source: domain.SourceRegisteredCompany,
			Name: c.Name, Email: c.Email, Phone: c.Phone,
			City: c.City, State: c.State,
		})
	}
	for i := range views {
		views[i].Color = clientColors[i%len(clientColors)]
	}
	return views, nil
}

// UpdateUnified é o resolvedor central de escrita da dualidade: tenta
// a tabela de clientes primeiro e, se o ID não existir lá, cai para a
// tabela de empresas. A posse é decidida conforme a tabela resolvida.
func (s *Service) UpdateUnified(ctx context.Context, p domain.Principal, id string, input domain.ClientInput) (domain.ClientView, error) {
	if err := validate.Struct(input); err != nil {
		return domain.ClientView{}, err
	}

	client, err := s.Clients.FindByID(ctx, id)
	if err == nil {
		if !guard.CanManageClient(p, client) {
			return domain.ClientView{}, apperror.NewForbiddenError("Este cliente pertence a outro administrador.")
		}
		client.Name = input.Name
		client.Email = input.Email
		client.Phone = input.Phone
		client.City = input.City
		client.State = input.State
		if err := s.Clients.Update(ctx, client); err != nil {
			return domain.ClientView{}, err
		}
		return domain.ClientView{
			ID: client.ID, Source: domain.SourceAdminClient,
			Name: client.Name, Email: client.Email, Phone: client.Phone,
			City: client.City, State: client.State,
		}, nil
	}
	if !isNotFound(err) {
		return domain.ClientView{}, err
	}

	// Fallback: empresa registrada. Admins só tocam os campos de
	// contato; e-mail e CNPJ da empresa permanecem intocados.
	company, err := s.Companies.FindByID(ctx, id)
	if err != nil {
		return domain.ClientView{}, err
	}
	company.Name = input.Name
	company.Phone = input.Phone
	company.City = input.City
	company.State = input.State
	if err := s.Companies.Update(ctx, company); err != nil {
		return domain.ClientView{}, err
	}
	return domain.ClientView{
		ID: company.ID, Source: domain.SourceRegisteredCompany,
		Name: company.Name, Email: company.Email, Phone: company.Phone,
		City: company.City, State: company.State,
	}, nil
}

// --- Planos ---

// CreatePlan cadastra um plano comercial (qualquer admin).
func (s *Service) CreatePlan(ctx context.Context, input domain.PlanInput) (domain.Plan, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Plan{}, err
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	return s.Plans.SavePlan(ctx, domain.Plan{
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Credits:     input.Credits,
		IsActive:    active,
	})
}

// ListPlans lista todos os planos.
func (s *Service) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return s.Plans.FindAllPlans(ctx)
}

// UpdatePlan edita um plano existente.
func (s *Service) UpdatePlan(ctx context.Context, id string, input domain.PlanInput) (domain.Plan, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Plan{}, err
	}
	plan, err := s.Plans.FindPlanByID(ctx, id)
	if err != nil {
		return domain.Plan{}, err
	}
	plan.Name = input.Name
	plan.Description = input.Description
	plan.PriceCents = input.PriceCents
	plan.Credits = input.Credits
	if input.IsActive != nil {
		plan.IsActive = *input.IsActive
	}
	if err := s.Plans.UpdatePlan(ctx, plan); err != nil {
		return domain.Plan{}, err
	}
	return plan, nil
}

// DeletePlan exclui um plano sem compras. O pré-check produz a mensagem
// com a contagem; a FK RESTRICT no banco fecha a janela de corrida.
func (s *Service) DeletePlan(ctx context.Context, id string) error {
	count, err := s.Plans.CountPurchasesByPlan(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError(fmt.Sprintf(
			"O plano possui %d compra(s) associada(s) e não pode ser excluído. Considere desativá-lo.", count,
		))
	}
	return s.Plans.DeletePlan(ctx, id)
}

// --- Compras ---

// CreatePurchase registra a compra de um plano por um cliente do admin
// logado. Os créditos são copiados do plano no momento da compra.
func (s *Service) CreatePurchase(ctx context.Context, p domain.Principal, input domain.PurchaseInput) (domain.Purchase, error) {
	if err := validate.Struct(input); err != nil {
		return domain.Purchase{}, err
	}

	if _, err := s.GetClient(ctx, p, input.ClientID); err != nil {
		return domain.Purchase{}, err
	}
	plan, err := s.Plans.FindPlanByID(ctx, input.PlanID)
	if err != nil {
		return domain.Purchase{}, err
	}
	if !plan.IsActive {
		return domain.Purchase{}, apperror.NewConflictError("O plano não está ativo para venda.")
	}

	return s.Plans.SavePurchase(ctx, domain.Purchase{
		ClientID: input.ClientID,
		PlanID:   plan.ID,
		Credits:  plan.Credits,
		Status:   "active",
	})
}

// ListPurchases lista as compras de um cliente do admin logado.
func (s *Service) ListPurchases(ctx context.Context, p domain.Principal, clientID string) ([]domain.Purchase, error) {
	if _, err := s.GetClient(ctx, p, clientID); err != nil {
		return nil, err
	}
	return s.Plans.FindPurchasesByClient(ctx, clientID)
}

// DeletePurchase remove uma compra de um cliente do admin logado
// (rota de limpeza; compras não têm edição).
func (s *Service) DeletePurchase(ctx context.Context, p domain.Principal, id string) error {
	purchase, err := s.Plans.FindPurchaseByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.GetClient(ctx, p, purchase.ClientID); err != nil {
		return err
	}
	return s.Plans.DeletePurchase(ctx, id)
}

func isNotFound(err error) bool {
	var nf *apperror.NotFoundError
	return errors.As(err, &nf)
}
