package server_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"

	"github.com/apresai/ikigen/internal/insight"
	"github.com/apresai/ikigen/internal/server"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TONE_TIMEOUT", "2s")
	t.Setenv("REFLECTION_STORE", "dynamodb")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("INSIGHT_MODEL", "")

	cfg := server.DefaultConfig()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.ToneTimeout)
	assert.Equal(t, "dynamodb", cfg.ReflectionStore)
	assert.Equal(t, "sk-env", cfg.Keys.OpenAI)
	assert.Equal(t, "gpt-3.5-turbo", cfg.InsightModel)
	assert.Equal(t, "gpt-4o-mini", cfg.ToneModel)
}

func TestDefaultConfigIgnoresBadNumbers(t *testing.T) {
	t.Setenv("PORT", "abc")
	t.Setenv("TONE_TIMEOUT", "soon")

	cfg := server.DefaultConfig()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ToneTimeout)
}

type fakeSecrets struct {
	values map[string]string
	asked  []string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	id := aws.ToString(in.SecretId)
	f.asked = append(f.asked, id)
	v, ok := f.values[id]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(v)}, nil
}

func TestLoadSecrets(t *testing.T) {
	sm := &fakeSecrets{values: map[string]string{
		"/ikigen/OPENAI_API_KEY":    "sk-secret",
		"/ikigen/ANTHROPIC_API_KEY": "ant-secret",
	}}
	keys := insight.Keys{Anthropic: "ant-env"}
	var logs bytes.Buffer

	server.LoadSecrets(context.Background(), sm, "/ikigen/", &keys, slog.New(slog.NewTextHandler(&logs, nil)))

	assert.Equal(t, "sk-secret", keys.OpenAI)
	assert.Equal(t, "ant-env", keys.Anthropic)
	assert.Empty(t, keys.Gemini)
	assert.Equal(t, []string{"/ikigen/OPENAI_API_KEY", "/ikigen/GEMINI_API_KEY"}, sm.asked)
	assert.Contains(t, logs.String(), "Secret not found")
}
