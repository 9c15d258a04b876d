package server

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/apresai/ikigen/internal/insight"
	"github.com/apresai/ikigen/internal/share"
	"github.com/apresai/ikigen/internal/tone"
)

// Config holds server configuration.
type Config struct {
	Port            int
	InsightModel    string
	ToneModel       string
	ToneTimeout     time.Duration
	SiteURL         string
	ReflectionStore string // file, dynamodb or none
	ReflectionDir   string
	TableName       string
	S3Bucket        string
	CDNBaseURL      string
	AWSRegion       string
	TemplatesPath   string
	SecretPrefix    string // e.g. "/ikigen/"
	Keys            insight.Keys
}

// DefaultConfig returns a Config populated from environment variables.
func DefaultConfig() Config {
	return Config{
		Port:            envInt("PORT", 8080),
		InsightModel:    envOr("INSIGHT_MODEL", "gpt-3.5-turbo"),
		ToneModel:       envOr("TONE_MODEL", "gpt-4o-mini"),
		ToneTimeout:     envDuration("TONE_TIMEOUT", tone.DefaultTimeout),
		SiteURL:         envOr("SITE_URL", share.SiteURL),
		ReflectionStore: envOr("REFLECTION_STORE", "file"),
		ReflectionDir:   envOr("REFLECTION_DIR", "reflections"),
		TableName:       envOr("DYNAMODB_TABLE", "ikigen-reflections"),
		S3Bucket:        envOr("S3_BUCKET", ""),
		CDNBaseURL:      envOr("CDN_BASE_URL", ""),
		AWSRegion:       envOr("AWS_REGION", "us-east-1"),
		TemplatesPath:   envOr("SHARE_TEMPLATES", ""),
		SecretPrefix:    envOr("SECRET_PREFIX", ""),
		Keys: insight.Keys{
			OpenAI:        os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
			Anthropic:     os.Getenv("ANTHROPIC_API_KEY"),
			Gemini:        os.Getenv("GEMINI_API_KEY"),
		},
	}
}

// SecretsAPI is the slice of the Secrets Manager client LoadSecrets uses.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// LoadSecrets fills any empty API key from Secrets Manager, reading
// prefix+"OPENAI_API_KEY" and so on. Missing secrets are logged and skipped.
func LoadSecrets(ctx context.Context, client SecretsAPI, prefix string, keys *insight.Keys, logger *slog.Logger) {
	secrets := []struct {
		name string
		dst  *string
	}{
		{"OPENAI_API_KEY", &keys.OpenAI},
		{"ANTHROPIC_API_KEY", &keys.Anthropic},
		{"GEMINI_API_KEY", &keys.Gemini},
	}

	for _, sec := range secrets {
		if *sec.dst != "" {
			continue
		}
		secretID := prefix + sec.name
		result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: &secretID,
		})
		if err != nil {
			logger.Info("Secret not found", "secret_id", secretID, "error", err)
			continue
		}
		if result.SecretString != nil {
			*sec.dst = *result.SecretString
			logger.Info("Loaded secret", "secret_id", secretID)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}
