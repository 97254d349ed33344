package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"fincoach/internal/ai"
	"fincoach/internal/coach"
	"fincoach/internal/config"
	"fincoach/internal/finance"
	"fincoach/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// --- DB ---
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// --- Coach module wiring ---
	coachRepo := coach.NewRepo(db)
	aiClient := ai.NewOpenAIClient(ai.Config{
		APIKey:      cfg.OpenAIAPIKey,
		Models:      cfg.OpenAIModels,
		DeepModels:  cfg.OpenAIDeepModels,
		MaxTokens:   cfg.OpenAIMaxTokens,
		CallTimeout: cfg.OpenAICallTimeout,
	})
	outbound := telegram.NewOutbound(cfg.TelegramAPIBase, cfg.TelegramBotToken)
	coachService := coach.NewService(coachRepo, aiClient, outbound)
	coachHandler := coach.NewHandler(coachService)

	coach.RegisterRoutes(r, coachHandler)

	// --- Finance module wiring ---
	financeRepo := finance.NewRepo(db)
	financeHandler := finance.NewHandler(financeRepo)

	finance.RegisterRoutes(r, financeHandler)

	// --- health ---
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Financial AI Coach API is running"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"financial-ai-coach"}`))
	})

	log.Printf("listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
