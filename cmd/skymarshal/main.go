// skymarshal orchestrates the multi-agent disruption-recovery pipeline
// behind an async HTTP surface - extraction, the seven specialist
// agents, arbitration, and audit reporting, dispatched as background
// jobs so client-facing latency never blocks on a full orchestration run.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/flightops/skymarshal/pkg/api"
	"github.com/flightops/skymarshal/pkg/arbitrator"
	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/extractor"
	"github.com/flightops/skymarshal/pkg/llm"
	"github.com/flightops/skymarshal/pkg/orchestrator"
	"github.com/flightops/skymarshal/pkg/queue"
	"github.com/flightops/skymarshal/pkg/store"
	"github.com/flightops/skymarshal/pkg/tools"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("Warning: Could not load %s file: %v", envPath, err)
		log.Printf("Continuing with existing environment variables...")
	} else {
		log.Printf("Loaded environment from %s", envPath)
	}

	httpPort := getEnv("HTTP_PORT", "8080")

	log.Printf("Starting skymarshal")
	log.Printf("HTTP Port: %s", httpPort)
	log.Printf("Config Directory: %s", *configDir)

	ctx := context.Background()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		log.Fatalf("Failed to initialize configuration: %v", err)
	}

	storeClient, err := store.NewClient(ctx, store.Config{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "skymarshal"),
		Password:        os.Getenv("DB_PASSWORD"),
		Database:        getEnv("DB_NAME", "skymarshal"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := storeClient.Close(); err != nil {
			log.Printf("Error closing database client: %v", err)
		}
	}()
	log.Println("Connected to PostgreSQL database")

	providerName := getEnv("LLM_PROVIDER", "anthropic")
	provider, err := cfg.GetLLMProvider(providerName)
	if err != nil {
		log.Fatalf("Failed to resolve LLM provider %q: %v", providerName, err)
	}

	llmClient, err := llm.NewAnthropicClient(provider.APIKeyEnv)
	if err != nil {
		log.Fatalf("Failed to construct LLM client: %v", err)
	}
	defer func() {
		if err := llmClient.Close(); err != nil {
			log.Printf("Error closing LLM client: %v", err)
		}
	}()

	toolRegistry := tools.NewBuiltinRegistry(storeClient)

	arb := arbitrator.New(
		llmClient, provider, cfg.Defaults.ScoringWeights,
		arbitrator.NoopKnowledgeBase{}, cfg.Defaults.KnowledgeBaseMaxRetrievals,
		cfg.Defaults.BusinessAgentTimeout,
	)

	orch := orchestrator.New(cfg.AgentRegistry, provider, llmClient, toolRegistry, arb)

	ext := extractor.New(llmClient, provider, cfg.Defaults.ExtractorTimeout, nil)

	executor := queue.NewOrchestrationExecutor(ext, storeClient, orch, cfg.Defaults.SessionTTL)
	workerCount := getEnvInt("WORKER_POOL_SIZE", 4)
	workerQueueCapacity := getEnvInt("WORKER_QUEUE_CAPACITY", 64)
	pool := queue.NewWorkerPool(workerCount, workerQueueCapacity, cfg.Defaults.BackgroundJobTimeout, executor)

	poolCtx, cancelPool := context.WithCancel(ctx)
	defer cancelPool()
	pool.Start(poolCtx)
	log.Printf("Worker pool started: %d workers, queue capacity %d", workerCount, workerQueueCapacity)

	server := api.NewServer(storeClient, pool, cfg.Defaults.RequestTTL)

	go func() {
		log.Printf("HTTP server listening on :%s", httpPort)
		if err := server.Start(":" + httpPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during HTTP server shutdown: %v", err)
	}
	cancelPool()
	pool.Stop()
	log.Println("Shutdown complete")
}
