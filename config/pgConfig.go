package config

import (
	"fmt"
	"net/url"
	"strings"
)

type DatabaseConfig interface {
	GetConnectionString() string
	MaxOpenConns() int
}

// PostgresConfig represents the configuration needed to connect to a PostgreSQL database
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_open_conns"`
}

func (pc PostgresConfig) GetConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, quote(pc.Password), pc.DBName, pc.SSLMode)
}

func (pc PostgresConfig) MaxOpenConns() int {
	return pc.MaxConns
}

// Redacted is safe to log.
func (pc PostgresConfig) Redacted() string {
	u := url.URL{Scheme: "postgres", User: url.User(pc.User), Host: pc.Host + ":" + pc.Port, Path: "/" + pc.DBName}
	return u.String()
}

// quote escapes a keyword/value connection string value.
func quote(v string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range v {
		if r == '\\' || r == '\'' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
