// config предоставляет структуру конфигурации сервиса и функции
// загрузки из файла/переменных окружения с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Минимальная длина секрета подписи в байтах (HMAC-SHA256 -> ключ >= 256 бит).
const minJWTSecretLen = 32

// Config — корневая конфигурация сервиса.
// Источники значений (по убыванию приоритета):
//  1. явный путь через флаг --config;
//  2. путь в переменной окружения CONFIG_PATH;
//  3. файл local.yaml из рабочей директории;
//  4. переменные окружения (cleanenv).
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	Auth     AuthConfig    `yaml:"auth"`
	DB       DBConfig      `yaml:"db"`
	Redis    RedisConfig   `yaml:"redis"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// AuthConfig содержит параметры выпуска и валидации токенов.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"1h"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"168h"`
	Issuer          string        `yaml:"issuer" env:"ISSUER" env-default:"asset-assistant"`
}

// DBConfig — настройки подключения к базе данных.
type DBConfig struct {
	DatabaseURL string `yaml:"db_url" env:"DATABASE_URL" env-required:"true"`
}

// RedisConfig — настройки подключения к Redis (реестр сессий и блэклист токенов).
type RedisConfig struct {
	RedisURL string `yaml:"redis_url" env:"REDIS_URL" env-required:"true"`
	// SessionPrefix — префикс ключей реестра сессий.
	SessionPrefix string `yaml:"session_prefix" env:"REDIS_SESSION_PREFIX" env-default:"session:"`
	// BlacklistPrefix — префикс ключей отозванных токенов.
	BlacklistPrefix string `yaml:"blacklist_prefix" env:"REDIS_BLACKLIST_PREFIX" env-default:"blacklist:token:"`
	// OpTimeout — верхняя граница одного обращения к Redis, если у входящего
	// контекста дедлайна ещё нет.
	OpTimeout time.Duration `yaml:"op_timeout" env:"REDIS_OP_TIMEOUT" env-default:"2s"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	load := func() (*Config, error) {
		// 1) Явный путь.
		if path != "" {
			return tryRead(path)
		}

		// 2) CONFIG_PATH.
		if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
			return tryRead(envPath)
		}

		// 3) ./local.yaml.
		if _, err := os.Stat("local.yaml"); err == nil {
			return tryRead("local.yaml")
		}

		// 4) Только ENV.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}

		return &cfg, nil
	}

	c, err := load()
	if err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// validate проверяет инварианты конфигурации, нарушение которых — ошибка
// развертывания, а не рантайма: короткий секрет, неположительные TTL.
func (c *Config) validate() error {
	if len(c.Auth.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("auth.jwt_secret must be at least %d bytes", minJWTSecretLen)
	}

	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return fmt.Errorf("auth token TTLs must be positive")
	}

	if c.Auth.RefreshTokenTTL < c.Auth.AccessTokenTTL {
		return fmt.Errorf("auth.refresh_token_ttl must not be shorter than access_token_ttl")
	}

	return nil
}
