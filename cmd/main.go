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

	"github.com/proraf/whatsapp-ai-bridge/internal/agent"
	"github.com/proraf/whatsapp-ai-bridge/internal/ai"
	"github.com/proraf/whatsapp-ai-bridge/internal/config"
	"github.com/proraf/whatsapp-ai-bridge/internal/proraf"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	// --- DB (opcional: sem DATABASE_URL o bridge roda sem log de interações) ---
	var repo agent.Repo
	if cfg.DatabaseURL != "" {
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

		repo = agent.NewRepo(db)
	} else {
		log.Println("DATABASE_URL not set, interaction log disabled")
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
	}))

	// --- Agent module wiring ---
	var aiClient ai.AI
	if cfg.OpenAIAPIKey != "" {
		aiClient = ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		log.Println("OPENAI_API_KEY not set, /mensagem will answer with a config error")
	}

	backend := proraf.NewClient(cfg.ProrafBaseURL, cfg.ProrafSecretKey, cfg.ProrafAPIKey)
	svc := agent.NewService(aiClient, backend, repo, cfg.ProrafSecretKey)
	handler := agent.NewHandler(svc)

	agent.RegisterRoutes(r, handler)

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	log.Printf("listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
