package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa a configuração do cliente (leitura via Viper de env e opcionalmente arquivo).
type Config struct {
	App AppConfig
	API APIConfig
	Log LogConfig
}

// AppConfig configuração geral.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// APIConfig endereço e timeout do backend Frog.
type APIConfig struct {
	BaseURL   string
	TimeoutMS int
}

// Timeout devolve o timeout de requisição como time.Duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// LogConfig nível de log.
type LogConfig struct {
	Level string
}

// Load lê a configuração de variáveis de ambiente (e opcionalmente de arquivo).
// As env vars têm prioridade. Nomes esperados: FROG_ENV, FROG_BASE_URL, FROG_TIMEOUT_MS, FROG_LOG_LEVEL.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: arquivo de configuração (.env ou config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos erro se não existir

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos erro se não existir

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "FROG_ENV", "development"),
			Name: getString(v, "FROG_APP_NAME", "frog"),
		},
		API: APIConfig{
			BaseURL:   getString(v, "FROG_BASE_URL", "http://localhost:3001"),
			TimeoutMS: getInt(v, "FROG_TIMEOUT_MS", 5000),
		},
		Log: LogConfig{
			Level: getString(v, "FROG_LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
