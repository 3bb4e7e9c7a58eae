package config

import "github.com/joho/godotenv"

type Config interface {
	EnvConfig
	CorsConfig
	AuthConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetSmtpHost() string
	GetSmtpPort() string
	GetSmtpPassword() string
	GetSmtpAccount() string
	GetRedisAddr() string
	GetAdminAccounts() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type AuthConfig interface {
	GetSessionNamespace() string
	GetIssuer() string
	GetIdentitySigningKey() string
	GetCredentialSecret() string
}

type mainConfig struct {
	EnvVars
	Cors
	Auth
}

func New() Config {
	// optional .env for local development; absent in production
	_ = godotenv.Load()
	return mainConfig{}
}
