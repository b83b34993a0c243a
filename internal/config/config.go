package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Client struct {
	Address      string        `yaml:"address"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	RetriesCount int           `yaml:"retries_count" env-default:"3"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"postgres"`
	Port     int    `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-required:"true"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-required:"true"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB" env-required:"true"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"redis:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

type RabbitMQ struct {
	URL       string `yaml:"url" env:"RABBITMQ_URL" env-required:"true"`
	QueueName string `yaml:"queue_name" env-default:"reservations_queue"`
}

type GRPC struct {
	Port int `yaml:"port" env:"GRPC_PORT" env-default:"44044"`
}

type Email struct {
	Host     string `yaml:"host" env-default:"smtp.gmail.com"`
	Port     int    `yaml:"port" env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USERNAME" env-required:"true"`
	Password string `yaml:"password" env:"SMTP_PASSWORD" env-required:"true"`
}

// API configures cmd/api.
type API struct {
	Env        string   `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	GRPC       GRPC     `yaml:"grpc"`
	Postgres   Postgres `yaml:"postgres"`
	Redis      Redis    `yaml:"redis"`
	RabbitMQ   RabbitMQ `yaml:"rabbitmq"`

	// AllowedOrigins feeds the CORS middleware; "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

// Web configures cmd/web, the browser-facing booking client.
type Web struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	APIClient  APIClient `yaml:"api_client"`
	// HealthClient points at the API's gRPC health endpoint.
	HealthClient       Client        `yaml:"health_client"`
	UserID             int64         `yaml:"user_id" env-default:"1"`
	LoginRedirectDelay time.Duration `yaml:"login_redirect_delay" env-default:"1s"`
	// PageTimeout is shared by every API call of one page request and must stay below http_server.timeout.
	PageTimeout time.Duration `yaml:"page_timeout" env-default:"12s"`
}

type APIClient struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8080/api"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

// Notifications configures cmd/notifications.
type Notifications struct {
	Env                string   `yaml:"env" env:"ENV" env-default:"local"`
	RabbitMQ           RabbitMQ `yaml:"rabbitmq"`
	AdministratorEmail string   `yaml:"administrator_email" env:"ADMINISTRATOR_EMAIL" env-required:"true"`
	Email              Email    `yaml:"email"`
}

// Load reads the YAML file at configPath into cfg, applying env overrides and defaults.
func Load(configPath string, cfg any) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
		return fmt.Errorf("cannot read config %s: %w", configPath, err)
	}

	return nil
}

func MustLoadAPI(defaultPath string) *API {
	var cfg API
	mustLoad(defaultPath, &cfg)
	return &cfg
}

func MustLoadWeb(defaultPath string) *Web {
	var cfg Web
	mustLoad(defaultPath, &cfg)
	return &cfg
}

func MustLoadNotifications(defaultPath string) *Notifications {
	var cfg Notifications
	mustLoad(defaultPath, &cfg)
	return &cfg
}

func mustLoad(defaultPath string, cfg any) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultPath
	}

	if err := Load(configPath, cfg); err != nil {
		log.Fatal(err)
	}
}
