package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"govagas/config"
	"govagas/internal/pkg/cache"
	"govagas/internal/pkg/database"
	"govagas/internal/pkg/geo"
	"govagas/internal/pkg/logger"
	"govagas/internal/pkg/mailer"
	"govagas/internal/pkg/session"
	"govagas/internal/pkg/storage"
	"govagas/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"govagas/internal/api/application"
	"govagas/internal/api/auth"
	"govagas/internal/api/catalog"
	"govagas/internal/api/client"
	"govagas/internal/api/job"
	"govagas/internal/api/question"
	"govagas/internal/api/router"
	"govagas/internal/api/upload"
	"govagas/internal/repository/accountrepo"
	"govagas/internal/repository/applicationrepo"
	"govagas/internal/repository/catalogrepo"
	"govagas/internal/repository/clientrepo"
	"govagas/internal/repository/jobrepo"
	"govagas/internal/repository/planrepo"
	"govagas/internal/repository/questionrepo"
	"govagas/internal/service/applicationservice"
	"govagas/internal/service/authservice"
	"govagas/internal/service/catalogservice"
	"govagas/internal/service/clientservice"
	"govagas/internal/service/jobservice"
	"govagas/internal/service/questionservice"
	"govagas/internal/service/uploadservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço GoVagas...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	appLog.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache e Sessões (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	sessionStore := session.NewRedisStore(cacheClient, cfg.SessionTTL)
	appLog.Info("Conexão Redis estabelecida.", nil)

	// C. Colaboradores externos
	tokenSvc := token.NewService(cfg.ResetTokenSecret, cfg.ResetTokenExpiry)
	smtpMailer := mailer.NewSMTPMailer()
	objectStore := storage.NewHTTPStore(cfg.StorageBaseURL, appLog)
	geoLocator := geo.NewHTTPLocator(cfg.GeoAPIURL)

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios (Camada de Acesso a Dados)
	operatorRepo := accountrepo.NewOperatorRepository(db, cfg.DBTimeout, appLog)
	companyRepo := accountrepo.NewCompanyRepository(db, cfg.DBTimeout, appLog)
	adminRepo := accountrepo.NewAdminRepository(db, cfg.DBTimeout)
	credentialRepo := accountrepo.NewCredentialRepository(db, cfg.DBTimeout)
	jobRepo := jobrepo.NewJobRepository(db, cacheClient, cfg.DBTimeout, appLog)
	appRepo := applicationrepo.NewApplicationRepository(db, cfg.DBTimeout, appLog)
	questionRepo := questionrepo.NewQuestionRepository(db, cfg.DBTimeout)
	clientRepo := clientrepo.NewClientRepository(db, cfg.DBTimeout)
	planRepo := planrepo.NewPlanRepository(db, cfg.DBTimeout)
	catalogRepo := catalogrepo.NewCatalogRepository(db, cfg.DBTimeout)
	appLog.Debug("Repositórios inicializados.", nil)

	// B. Serviços (Camada de Lógica de Negócio)
	authSvc := authservice.NewService(operatorRepo, companyRepo, adminRepo, credentialRepo,
		sessionStore, tokenSvc, smtpMailer, catalogRepo, cacheClient, appLog)
	jobSvc := jobservice.NewService(jobRepo, clientRepo, appLog)
	appSvc := applicationservice.NewService(appRepo, jobRepo, clientRepo, questionRepo, appLog)
	questionSvc := questionservice.NewService(questionRepo, jobRepo, clientRepo, appLog)
	clientSvc := clientservice.NewService(clientRepo, companyRepo, planRepo, appLog)
	catalogSvc := catalogservice.NewService(catalogRepo, geoLocator, appLog)
	uploadSvc := uploadservice.NewService(objectStore, operatorRepo, companyRepo, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	// C. Handlers (Camada de Apresentação)
	authHandler := auth.NewHandler(authSvc, appLog, cfg.SessionTTL)
	jobHandler := job.NewHandler(jobSvc, appLog)
	appHandler := application.NewHandler(appSvc, appLog)
	questionHandler := question.NewHandler(questionSvc, appLog)
	clientHandler := client.NewHandler(clientSvc, appLog)
	catalogHandler := catalog.NewHandler(catalogSvc, appLog)
	uploadHandler := upload.NewHandler(uploadSvc, appLog)
	appLog.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(router.Deps{
		Auth:                 authHandler,
		Jobs:                 jobHandler,
		Apps:                 appHandler,
		Questions:            questionHandler,
		Clients:              clientHandler,
		Catalog:              catalogHandler,
		Uploads:              uploadHandler,
		Sessions:             sessionStore,
		ActorFinder:          authSvc,
		Cache:                cacheClient,
		RateLimitMaxRequests: cfg.RateLimitMaxRequests,
		RateLimitPeriod:      cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor GoVagas ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
