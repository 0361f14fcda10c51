package config

import "os"

// Config — lida uma vez no start, depois só passa por valor
type Config struct {
	Port string

	DatabaseURL string

	OpenAIAPIKey string
	OpenAIModel  string

	ProrafBaseURL   string
	ProrafAPIKey    string
	ProrafSecretKey string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Load lê as variáveis de ambiente e monta a config.
// OPENAI_API_KEY ou PRORAF_SECRET_KEY ausentes NÃO derrubam o processo:
// o serviço sobe e responde erro de configuração no /mensagem.
func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  os.Getenv("OPENAI_MODEL"),

		ProrafBaseURL:   getEnv("PRORAF_API_BASE_URL", getEnv("API_BASE_URL", "https://proraf.cloud/api")),
		ProrafAPIKey:    firstEnv("PRORAF_API_KEY", "API_KEY"),
		ProrafSecretKey: firstEnv("PRORAF_SECRET_KEY", "SECRET_KEY"),
	}
}
