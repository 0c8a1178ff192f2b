package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	DocsDir         string        `yaml:"docs_dir"`
}

// GuiaConfig describes the upstream catalog API and its credentials.
type GuiaConfig struct {
	URL               string        `yaml:"url"`
	CnpjSH            string        `yaml:"cnpj_sh"`
	CnpjCPF           string        `yaml:"cnpj_cpf"`
	Email             string        `yaml:"email"`
	Senha             string        `yaml:"senha"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	FetchRetries      int           `yaml:"fetch_retries"`
	FetchRetryDelay   time.Duration `yaml:"fetch_retry_delay"`
}

type ImportConfig struct {
	PageDelay        time.Duration `yaml:"page_delay"`
	StallRetryDelay  time.Duration `yaml:"stall_retry_delay"`
	MaxStallRetries  int           `yaml:"max_stall_retries"`
	UpsertRetryDelay time.Duration `yaml:"upsert_retry_delay"`
	MaxUpsertRetries int           `yaml:"max_upsert_retries"`
	ExportPageSize   int           `yaml:"export_page_size"`
	ListPageSize     int           `yaml:"list_page_size"`
}

type SchedulerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Spec     string `yaml:"spec"`
	Timezone string `yaml:"timezone"`
}

type AuthConfig struct {
	JWTSecret    string   `yaml:"jwt_secret"`
	AllowedRoles []string `yaml:"allowed_roles"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Guia      GuiaConfig      `yaml:"guia"`
	Import    ImportConfig    `yaml:"import"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
}

func Default() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:            "3000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    0,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"*"},
			DocsDir:         "./api",
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			DBName:   "postgres",
			SSLMode:  "disable",
			MaxConns: 20,
		},
		Guia: GuiaConfig{
			RequestTimeout:    60 * time.Second,
			RequestsPerSecond: 2,
			FetchRetries:      3,
			FetchRetryDelay:   2 * time.Second,
		},
		Import: ImportConfig{
			PageDelay:        time.Second,
			StallRetryDelay:  5 * time.Second,
			MaxStallRetries:  10,
			UpsertRetryDelay: 2 * time.Second,
			MaxUpsertRetries: 5,
			ExportPageSize:   1000,
			ListPageSize:     50,
		},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			Spec:     "0 3 */7 * *",
			Timezone: "America/Sao_Paulo",
		},
		Auth: AuthConfig{
			AllowedRoles: []string{"admin"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads filename over the defaults and then applies environment
// overrides. A missing file is not an error.
func LoadConfig(filename string) (*AppConfig, error) {
	config := Default()

	file, err := os.Open(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil {
			return nil, fmt.Errorf("decode %s: %w", filename, err)
		}
	}

	applyEnv(config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnv(c *AppConfig) {
	c.Server.Port = getEnv("PORT", c.Server.Port)

	c.Postgres.Host = getEnv("POSTGRES_HOST", c.Postgres.Host)
	c.Postgres.Port = getEnv("POSTGRES_PORT", c.Postgres.Port)
	c.Postgres.User = getEnv("POSTGRES_USER", c.Postgres.User)
	c.Postgres.Password = getEnv("POSTGRES_PASSWORD", c.Postgres.Password)
	c.Postgres.DBName = getEnv("POSTGRES_NAME", c.Postgres.DBName)
	c.Postgres.SSLMode = getEnv("POSTGRES_SSLMODE", c.Postgres.SSLMode)

	c.Guia.URL = getEnv("GUIA_URL", c.Guia.URL)
	c.Guia.CnpjSH = getEnv("GUIA_CNPJ_SH", c.Guia.CnpjSH)
	c.Guia.CnpjCPF = getEnv("GUIA_CNPJ_CPF", c.Guia.CnpjCPF)
	c.Guia.Email = getEnv("GUIA_EMAIL", c.Guia.Email)
	c.Guia.Senha = getEnv("GUIA_SENHA", c.Guia.Senha)

	if v, err := strconv.ParseBool(os.Getenv("SCHEDULER_ENABLED")); err == nil {
		c.Scheduler.Enabled = v
	}
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

func (c *AppConfig) Validate() error {
	var errs []error
	if c.Guia.URL == "" {
		errs = append(errs, errors.New("guia.url (GUIA_URL) is required"))
	}
	if c.Guia.FetchRetries < 0 || c.Import.MaxStallRetries < 0 || c.Import.MaxUpsertRetries < 0 {
		errs = append(errs, errors.New("retry counts must not be negative"))
	}
	if c.Import.ExportPageSize <= 0 || c.Import.ListPageSize <= 0 {
		errs = append(errs, errors.New("page sizes must be positive"))
	}
	if c.Scheduler.Enabled && c.Scheduler.Spec == "" {
		errs = append(errs, errors.New("scheduler.spec is required when the scheduler is enabled"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
