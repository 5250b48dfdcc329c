package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/synereval/internal/api"
	"github.com/povarna/generative-ai-agents/synereval/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/synereval/internal/setup"
	"github.com/povarna/generative-ai-agents/synereval/internal/setup/logger"
	"github.com/rs/cors"
)

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "SynerEval API",
			Description: "Grading of generated answers with similarity, a rubric judge and a structured grader",
			Version:     "1.0.0",
		},
	}
	for _, tag := range api.Tags {
		swo.Tags = append(swo.Tags, spec.Tag{TagProps: spec.TagProps{Name: tag.Name, Description: tag.Description}})
	}
}

func main() {
	// Load env
	envErr := godotenv.Load()

	cfg := setup.LoadConfig()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	if envErr != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setup.Wire(ctx, cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	log.Info().
		Str("judge", deps.ModelInfo.JudgeModel).
		Str("structured", deps.ModelInfo.StructuredModel).
		Str("similarity", deps.ModelInfo.SimilarityBackend).
		Msg("Scorers initialized")

	handler := api.NewHandler(deps.DocumentExecutor, deps.Orchestrator, deps.ModelInfo, deps.Logger)

	container := restful.NewContainer()
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)
	api.RegisterRoutes(container, handler)

	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/apidocs.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}
	container.Add(restfulspec.NewOpenAPIService(config))

	container.ServeMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/apidocs.json", http.StatusFound)
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	server := http.Server{
		Addr:        addr,
		Handler:     corsHandler.Handler(container),
		ReadTimeout: 30 * time.Second,
		// batch uploads grade every cell before answering
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	log.Info().Str("address", addr).Msg("Starting SynerEval API")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}

	log.Info().Msg("SynerEval API stopped")
}
