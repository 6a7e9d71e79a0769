package domain

import (
	"context"
	"time"
)

// Question é uma pergunta de triagem definida pelo dono (empresa ou
// cliente administrado) e reutilizável entre vagas.
type Question struct {
	ID        string    `json:"id"`
	Owner     Owner     `json:"owner"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// JobQuestion associa uma pergunta a uma vaga específica, com a posição
// de exibição preservada.
type JobQuestion struct {
	ID         string `json:"id"`
	JobID      string `json:"job_id"`
	QuestionID string `json:"question_id"`
	Position   int    `json:"position"`
}

// QuestionInput é o payload de criação/edição de pergunta.
type QuestionInput struct {
	Text string `json:"text" validate:"required,min=5"`
	// ClientID só é aceito quando o criador é admin.
	ClientID string `json:"client_id" validate:"omitempty,uuid"`
}

// JobQuestionInput associa perguntas ordenadas a uma vaga.
type JobQuestionInput struct {
	JobID       string   `json:"job_id" validate:"required,uuid"`
	QuestionIDs []string `json:"question_ids" validate:"required,min=1,dive,uuid"`
}

// QuestionRepository define o contrato de persistência de perguntas.
type QuestionRepository interface {
	Save(ctx context.Context, q Question) (Question, error)
	FindByID(ctx context.Context, id string) (Question, error)
	FindByOwner(ctx context.Context, owner Owner) ([]Question, error)
	Update(ctx context.Context, q Question) error
	Delete(ctx context.Context, id string) error

	// Associação vaga↔pergunta (ordem preservada por Position).
	ReplaceJobQuestions(ctx context.Context, jobID string, questionIDs []string) error
	FindByJob(ctx context.Context, jobID string) ([]Question, error)
}
