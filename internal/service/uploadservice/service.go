package uploadservice

import (
	"context"
	"io"
	"strings"

	"govagas/internal/domain"
	apperror "govagas/internal/errors"
	"govagas/internal/pkg/logger"
	"govagas/internal/pkg/storage"
)

// Service implementa o fluxo de upload em duas fases: o ator obtém a
// URL pré-assinada, envia o arquivo direto ao object store e confirma
// o caminho aqui, quando a ACL é fixada e o caminho persistido.
type Service struct {
	Store     storage.ObjectStore
	Operators domain.OperatorRepository
	Companies domain.CompanyRepository
	logger    logger.Logger
}

// NewService cria uma nova instância do serviço de upload.
func NewService(store storage.ObjectStore, operators domain.OperatorRepository, companies domain.CompanyRepository, log logger.Logger) *Service {
	return &Service{Store: store, Operators: operators, Companies: companies, logger: log}
}

// GetUploadURL obtém uma URL pré-assinada para upload direto.
func (s *Service) GetUploadURL(ctx context.Context) (string, error) {
	return s.Store.GetUploadURL(ctx)
}

// ConfirmResume fixa a ACL privada do currículo enviado e grava o
// caminho no perfil do operador logado.
func (s *Service) ConfirmResume(ctx context.Context, p domain.Principal, objectPath string) error {
	if p.Kind != domain.KindOperator {
		return apperror.NewForbiddenError("Apenas operadores enviam currículo.")
	}
	if strings.TrimSpace(objectPath) == "" {
		return apperror.NewValidationError("campo path: obrigatório")
	}

	if err := s.Store.SetACLPolicy(ctx, objectPath, storage.ACLPolicy{
		Owner:      p.ActorID,
		Visibility: "private",
	}); err != nil {
		return err
	}

	op, err := s.Operators.FindByID(ctx, p.ActorID)
	if err != nil {
		return err
	}
	op.ResumePath = objectPath
	return s.Operators.Update(ctx, op)
}

// ConfirmLogo fixa a ACL pública do logotipo enviado e grava o caminho
// no perfil da empresa logada.
func (s *Service) ConfirmLogo(ctx context.Context, p domain.Principal, objectPath string) error {
	if p.Kind != domain.KindCompany {
		return apperror.NewForbiddenError("Apenas empresas enviam logotipo.")
	}
	if strings.TrimSpace(objectPath) == "" {
		return apperror.NewValidationError("campo path: obrigatório")
	}

	if err := s.Store.SetACLPolicy(ctx, objectPath, storage.ACLPolicy{
		Owner:      p.ActorID,
		Visibility: "public",
	}); err != nil {
		return err
	}

	c, err := s.Companies.FindByID(ctx, p.ActorID)
	if err != nil {
		return err
	}
	c.LogoPath = objectPath
	return s.Companies.Update(ctx, c)
}

// DownloadResume devolve o currículo de um operador. Acessível ao
// próprio operador; empresas e admins o leem ao avaliar candidaturas.
func (s *Service) DownloadResume(ctx context.Context, p domain.Principal, operatorID string) (io.ReadCloser, error) {
	if p.Kind == domain.KindOperator && p.ActorID != operatorID {
		return nil, apperror.NewForbiddenError("Este currículo pertence a outro operador.")
	}

	op, err := s.Operators.FindByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if op.ResumePath == "" {
		return nil, apperror.NewNotFoundError("O operador não possui currículo enviado.")
	}
	return s.Store.GetFileByPath(ctx, op.ResumePath)
}
