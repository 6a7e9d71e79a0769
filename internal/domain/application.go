package domain

import (
	"context"
	"time"
)

// ApplicationStatus é a máquina de estados da candidatura.
// Estado inicial sempre pending; transições pending→accepted,
// pending→rejected e accepted↔rejected são permitidas (não há estado
// terminal). Somente o dono da vaga transiciona.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Application liga um operador a uma vaga.
// Invariante: no máximo uma candidatura por par (JobID, OperatorID).
type Application struct {
	ID         string            `json:"id"`
	JobID      string            `json:"job_id"`
	OperatorID string            `json:"operator_id"`
	Status     ApplicationStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ApplicationAnswer é a resposta do operador a uma pergunta da vaga.
// Uma resposta por par (ApplicationID, QuestionID).
type ApplicationAnswer struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	QuestionID    string    `json:"question_id"`
	Answer        string    `json:"answer"`
	CreatedAt     time.Time `json:"created_at"`
}

// ApplicationInput é o payload de criação de candidatura.
type ApplicationInput struct {
	JobID   string        `json:"job_id" validate:"required,uuid"`
	Answers []AnswerInput `json:"answers" validate:"omitempty,dive"`
}

// AnswerInput é uma resposta submetida junto com a candidatura.
type AnswerInput struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
	Answer     string `json:"answer" validate:"required"`
}

// ApplicationRepository define o contrato de persistência de candidaturas.
// Candidatura e respostas nascem juntas: SaveWithAnswers grava tudo em
// uma transação, para que uma falha no meio não deixe candidatura órfã.
type ApplicationRepository interface {
	SaveWithAnswers(ctx context.Context, app Application, answers []ApplicationAnswer) (Application, error)
	FindByID(ctx context.Context, id string) (Application, error)
	FindByJobAndOperator(ctx context.Context, jobID, operatorID string) (Application, error)
	FindByJob(ctx context.Context, jobID string) ([]Application, error)
	FindByOperator(ctx context.Context, operatorID string) ([]Application, error)
	UpdateStatus(ctx context.Context, id string, status ApplicationStatus) error
	FindAnswers(ctx context.Context, applicationID string) ([]ApplicationAnswer, error)
}
