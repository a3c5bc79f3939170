package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/bootstrap"
	"alfredoptarigan/interview-builder/internal/config"
	"alfredoptarigan/interview-builder/internal/handlers"
	"alfredoptarigan/interview-builder/internal/logger"
	"alfredoptarigan/interview-builder/internal/middleware"
	"alfredoptarigan/interview-builder/internal/repositories"
	"alfredoptarigan/interview-builder/internal/services"
)

func main() {
	cfg := config.Load()

	log := logger.Must(cfg.Server.LogLevel, cfg.IsDevelopment())
	defer func() { _ = log.Sync() }()

	if !cfg.EnvFileLoaded {
		log.Debug("no .env file found, using process environment")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		return err
	}

	docRepo := repositories.NewDocumentRepository(db)
	importRepo := repositories.NewCandidateImportRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	interviewerRepo := repositories.NewInterviewerRepository(db)

	storage, err := bootstrap.NewStorage(ctx, cfg, log)
	if err != nil {
		return err
	}

	llm, err := bootstrap.NewLLM(ctx, cfg, log)
	if err != nil {
		return err
	}

	vectorStore, err := bootstrap.NewVectorStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	var indexer services.DocumentIndexer
	if vectorStore != nil {
		indexer = services.NewDocumentIndexer(vectorStore, llm, services.NewTextChunker(), log)
	}

	draftStore, closeDrafts, err := bootstrap.NewDraftStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeDrafts() }()

	interviewers, err := config.LoadInterviewers(cfg.Interviewers.FilePath)
	if err != nil {
		return err
	}
	interviewerService := services.NewInterviewerService(interviewerRepo, log)
	if err := interviewerService.Seed(interviewers); err != nil {
		return err
	}

	pdfParser := services.NewPDFParserService(log)
	resumeProcessor := bootstrap.NewResumeProcessor(cfg, pdfParser, log)

	documentService := services.NewDocumentService(docRepo, storage, pdfParser, indexer, cfg.LLM.MaxContextChars, log)
	importService := services.NewImportService(importRepo, storage, resumeProcessor, log)

	generator := services.NewQuestionGenerator(llm, indexer, services.QuestionGeneratorConfig{
		MaxRetries:      cfg.Worker.RetryMaxAttempts,
		InitialDelay:    cfg.Worker.RetryInitialDelay,
		MaxContextChars: cfg.LLM.MaxContextChars,
	}, log)
	builder := services.NewInterviewBuilder(generator)
	wizard := services.NewWizardService(draftStore, docRepo, importRepo, interviewRepo, builder, log)

	worker := services.NewWorker(importRepo, importService, services.WorkerConfig{
		Concurrency:  cfg.Worker.Concurrency,
		PollInterval: cfg.Worker.PollInterval,
	}, log)
	worker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "Interview Builder API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(app, handlers.Handlers{
		ParsePDF:    handlers.NewParsePDFHandler(pdfParser, cfg.Storage.MaxFileSize, log),
		Upload:      handlers.NewUploadHandler(documentService, importService, worker, cfg.Storage.MaxFileSize, log),
		Result:      handlers.NewResultHandler(documentService, importService),
		Question:    handlers.NewQuestionHandler(generator, log),
		Interview:   handlers.NewInterviewHandler(interviewRepo, log),
		Interviewer: handlers.NewInterviewerHandler(interviewerService),
		Draft:       handlers.NewDraftHandler(wizard, log),
	}, middleware.Auth(cfg.Auth.JWTSecret))

	if cfg.Auth.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty, authentication disabled")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		cancel()
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	return app.Listen(addr)
}
