package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"clipcast/api"
	"clipcast/assembler"
	"clipcast/common"
	"clipcast/config"
	"clipcast/pipeline"
	"clipcast/providers"
	"clipcast/publish"
	"clipcast/store"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	ctx := context.Background()

	st := initializeStore()
	set := providers.NewSetFromEnv()

	var composer pipeline.Composer
	if !config.GetEnvBool("PREVIEW_MODE", false) {
		outputDir := config.GetEnvOrDefault("OUTPUT_DIR", config.OutputDir)
		composer = assembler.New(outputDir)
	} else {
		log.Println("preview mode: skipping media assembly")
	}

	orchestrator := pipeline.New(st, set, composer)

	// Optional S3 publishing for finished artifacts.
	artifacts, err := common.NewArtifactStoreFromEnv(ctx)
	if err != nil {
		log.Fatalf("failed to initialize artifact store: %v", err)
	}
	if artifacts != nil {
		orchestrator.WithPublisher(artifacts)
		log.Println("artifact publishing enabled")
	}

	// Optional YouTube upload of finished videos.
	if uploader, err := publish.NewUploaderFromEnv(ctx); err != nil {
		log.Fatalf("failed to initialize YouTube uploader: %v", err)
	} else if uploader != nil {
		orchestrator.WithUploader(uploader)
		log.Println("YouTube uploading enabled")
	}

	// Optional Kafka intake for queued generation requests.
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		topic := config.GetEnvOrDefault("KAFKA_REQUEST_TOPIC", "clipcast.requests")
		group := config.GetEnvOrDefault("KAFKA_GROUP_ID", "clipcast")
		consumer, err := pipeline.StartIntake(ctx, orchestrator, strings.Split(brokers, ","), topic, group)
		if err != nil {
			log.Fatalf("failed to start Kafka intake: %v", err)
		}
		defer consumer.Close()
	}

	previewEnabled := os.Getenv("ELEVENLABS_API_KEY") != ""
	controller := api.NewController(orchestrator, st, set, previewEnabled)
	r := api.NewRouter(controller)

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /health")
	log.Println("  POST /api/generate")
	log.Println("  POST /api/script")
	log.Println("  GET  /api/status/:id")
	log.Println("  GET  /api/projects")
	log.Println("  GET  /api/music")
	log.Println("  GET  /api/captions")
	log.Println("  GET  /api/voices")
	log.Println("  GET  /api/voices/preview")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// initializeStore prefers Redis when REDIS_ADDR is set, falling back to the
// in-memory store for single-instance runs.
func initializeStore() store.Store {
	if os.Getenv("REDIS_ADDR") == "" {
		return store.NewMemoryStore()
	}
	rs, err := store.NewRedisStoreFromEnv()
	if err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	log.Println("project store: redis")
	return rs
}
