package router

import (
	"net/http"
	"time"

	"govagas/internal/api/application"
	"govagas/internal/api/auth"
	"govagas/internal/api/catalog"
	"govagas/internal/api/client"
	"govagas/internal/api/job"
	"govagas/internal/api/question"
	"govagas/internal/api/upload"
	"govagas/internal/domain"
	"govagas/internal/pkg/cache"
	"govagas/internal/pkg/middleware"
	"govagas/internal/pkg/session"
)

// Deps agrupa os Handlers e colaboradores que o roteador recebe por
// injeção de dependências.
type Deps struct {
	Auth        *auth.Handler
	Jobs        *job.Handler
	Apps        *application.Handler
	Questions   *question.Handler
	Clients     *client.Handler
	Catalog     *catalog.Handler
	Uploads     *upload.Handler
	Sessions    session.Store
	ActorFinder middleware.ActorFinder
	Cache       cache.Client

	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// Usa o ServeMux padrão com padrões de método (Go 1.22+); rotas
// protegidas passam por RequireSession e, quando necessário, RequireKind.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	requireSession := middleware.RequireSession(d.Sessions, d.ActorFinder)
	adminOnly := middleware.RequireKind(domain.KindAdmin)
	operatorOnly := middleware.RequireKind(domain.KindOperator)
	ownerKinds := middleware.RequireKind(domain.KindCompany, domain.KindAdmin)

	// sessioned aplica apenas autenticação; guarded acrescenta o filtro
	// de tipo de ator por cima.
	sessioned := func(h http.HandlerFunc) http.Handler {
		return requireSession(h)
	}
	guarded := func(kindFilter func(http.Handler) http.Handler, h http.HandlerFunc) http.Handler {
		return requireSession(kindFilter(h))
	}

	// --- Health check ---
	mux.HandleFunc("GET /ping", PingHandler)

	// --- Rotas públicas ---
	mux.HandleFunc("POST /v1/operators/register", d.Auth.RegisterOperatorHandler)
	mux.HandleFunc("POST /v1/companies/register", d.Auth.RegisterCompanyHandler)
	mux.HandleFunc("POST /v1/auth/login", d.Auth.LoginHandler)
	mux.HandleFunc("POST /v1/auth/password-reset/request", d.Auth.RequestPasswordResetHandler)
	mux.HandleFunc("POST /v1/auth/password-reset/confirm", d.Auth.ConfirmPasswordResetHandler)

	mux.HandleFunc("GET /v1/jobs", d.Jobs.ListJobsHandler)
	mux.HandleFunc("GET /v1/jobs/{id}", d.Jobs.GetJobHandler)
	mux.HandleFunc("GET /v1/jobs/{id}/questions", d.Questions.ListJobQuestionsHandler)
	mux.HandleFunc("GET /v1/sectors", d.Catalog.ListSectorsHandler)
	mux.HandleFunc("GET /v1/sectors/{id}/subsectors", d.Catalog.ListSubsectorsHandler)
	mux.HandleFunc("GET /v1/events", d.Catalog.ListEventsHandler)
	mux.HandleFunc("GET /v1/banners", d.Catalog.ListBannersHandler)
	mux.HandleFunc("POST /v1/visits", d.Catalog.RecordVisitHandler)

	// --- Sessão e perfil (qualquer ator autenticado) ---
	mux.Handle("POST /v1/auth/logout", sessioned(d.Auth.LogoutHandler))
	mux.Handle("GET /v1/profile", sessioned(d.Auth.GetProfileHandler))
	mux.Handle("PUT /v1/profile", sessioned(d.Auth.UpdateProfileHandler))

	// --- Experiências (operador) ---
	mux.Handle("POST /v1/profile/experiences", guarded(operatorOnly, d.Auth.AddExperienceHandler))
	mux.Handle("GET /v1/profile/experiences", guarded(operatorOnly, d.Auth.ListExperiencesHandler))
	mux.Handle("DELETE /v1/profile/experiences/{id}", guarded(operatorOnly, d.Auth.DeleteExperienceHandler))

	// --- Vagas (empresa ou admin) ---
	mux.Handle("POST /v1/jobs", guarded(ownerKinds, d.Jobs.CreateJobHandler))
	mux.Handle("GET /v1/my/jobs", guarded(ownerKinds, d.Jobs.ListMyJobsHandler))
	mux.Handle("PUT /v1/jobs/{id}", guarded(ownerKinds, d.Jobs.UpdateJobHandler))
	mux.Handle("PATCH /v1/jobs/{id}/status", guarded(ownerKinds, d.Jobs.SetJobStatusHandler))
	mux.Handle("DELETE /v1/jobs/{id}", guarded(ownerKinds, d.Jobs.DeleteJobHandler))

	// --- Candidaturas ---
	mux.Handle("POST /v1/applications", guarded(operatorOnly, d.Apps.ApplyHandler))
	mux.Handle("GET /v1/my/applications", guarded(operatorOnly, d.Apps.ListMyApplicationsHandler))
	mux.Handle("GET /v1/jobs/{id}/applications", guarded(ownerKinds, d.Apps.ListJobApplicationsHandler))
	mux.Handle("PATCH /v1/applications/{id}/status", guarded(ownerKinds, d.Apps.SetApplicationStatusHandler))
	mux.Handle("GET /v1/applications/{id}/answers", sessioned(d.Apps.ListAnswersHandler))

	// --- Perguntas de triagem (empresa ou admin) ---
	mux.Handle("POST /v1/questions", guarded(ownerKinds, d.Questions.CreateQuestionHandler))
	mux.Handle("GET /v1/questions", guarded(ownerKinds, d.Questions.ListQuestionsHandler))
	mux.Handle("PUT /v1/questions/{id}", guarded(ownerKinds, d.Questions.UpdateQuestionHandler))
	mux.Handle("DELETE /v1/questions/{id}", guarded(ownerKinds, d.Questions.DeleteQuestionHandler))
	mux.Handle("PUT /v1/jobs/{id}/questions", guarded(ownerKinds, d.Questions.AttachQuestionsHandler))

	// --- Clientes, planos e compras (admin) ---
	mux.Handle("POST /v1/clients", guarded(adminOnly, d.Clients.CreateClientHandler))
	mux.Handle("GET /v1/clients", guarded(adminOnly, d.Clients.ListClientsHandler))
	mux.Handle("GET /v1/clients/{id}", guarded(adminOnly, d.Clients.GetClientHandler))
	mux.Handle("PUT /v1/clients/{id}", guarded(adminOnly, d.Clients.UpdateClientHandler))
	mux.Handle("DELETE /v1/clients/{id}", guarded(adminOnly, d.Clients.DeleteClientHandler))
	mux.Handle("GET /v1/clients/{id}/purchases", guarded(adminOnly, d.Clients.ListPurchasesHandler))

	mux.Handle("POST /v1/plans", guarded(adminOnly, d.Clients.CreatePlanHandler))
	mux.Handle("GET /v1/plans", guarded(adminOnly, d.Clients.ListPlansHandler))
	mux.Handle("PUT /v1/plans/{id}", guarded(adminOnly, d.Clients.UpdatePlanHandler))
	mux.Handle("DELETE /v1/plans/{id}", guarded(adminOnly, d.Clients.DeletePlanHandler))

	mux.Handle("POST /v1/purchases", guarded(adminOnly, d.Clients.CreatePurchaseHandler))
	mux.Handle("DELETE /v1/purchases/{id}", guarded(adminOnly, d.Clients.DeletePurchaseHandler))

	// --- Catálogo do site (admin) ---
	mux.Handle("POST /v1/sectors", guarded(adminOnly, d.Catalog.CreateSectorHandler))
	mux.Handle("DELETE /v1/sectors/{id}", guarded(adminOnly, d.Catalog.DeleteSectorHandler))
	mux.Handle("POST /v1/subsectors", guarded(adminOnly, d.Catalog.CreateSubsectorHandler))
	mux.Handle("DELETE /v1/subsectors/{id}", guarded(adminOnly, d.Catalog.DeleteSubsectorHandler))
	mux.Handle("POST /v1/events", guarded(adminOnly, d.Catalog.CreateEventHandler))
	mux.Handle("GET /v1/admin/events", guarded(adminOnly, d.Catalog.ListAllEventsHandler))
	mux.Handle("DELETE /v1/events/{id}", guarded(adminOnly, d.Catalog.DeleteEventHandler))
	mux.Handle("POST /v1/banners", guarded(adminOnly, d.Catalog.CreateBannerHandler))
	mux.Handle("GET /v1/admin/banners", guarded(adminOnly, d.Catalog.ListAllBannersHandler))
	mux.Handle("PUT /v1/banners/{id}", guarded(adminOnly, d.Catalog.UpdateBannerHandler))
	mux.Handle("DELETE /v1/banners/{id}", guarded(adminOnly, d.Catalog.DeleteBannerHandler))
	mux.Handle("GET /v1/settings", guarded(adminOnly, d.Catalog.GetSettingsHandler))
	mux.Handle("PUT /v1/settings", guarded(adminOnly, d.Catalog.UpdateSettingsHandler))
	mux.Handle("GET /v1/admin/visits/count", guarded(adminOnly, d.Catalog.CountVisitsHandler))
	mux.Handle("GET /v1/admin/operators", guarded(adminOnly, d.Auth.ListOperatorsHandler))
	mux.Handle("GET /v1/admin/companies", guarded(adminOnly, d.Auth.ListCompaniesHandler))

	// --- Uploads ---
	mux.Handle("POST /v1/uploads/url", sessioned(d.Uploads.GetUploadURLHandler))
	mux.Handle("POST /v1/uploads/resume", guarded(operatorOnly, d.Uploads.ConfirmResumeHandler))
	mux.Handle("POST /v1/uploads/logo", guarded(middleware.RequireKind(domain.KindCompany), d.Uploads.ConfirmLogoHandler))
	mux.Handle("GET /v1/operators/{id}/resume", sessioned(d.Uploads.DownloadResumeHandler))

	// Rate limit global por IP, na frente de tudo.
	return middleware.RateLimiter(d.Cache, d.RateLimitMaxRequests, d.RateLimitPeriod)(mux)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
