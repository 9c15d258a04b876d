package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/apresai/ikigen/internal/insight"
	"github.com/apresai/ikigen/internal/reflection"
	"github.com/apresai/ikigen/internal/share"
	"github.com/apresai/ikigen/internal/tone"
)

// Version is reported by the MCP server and the health check.
var Version = "dev"

// Deps are the components the server routes to. Store and Exporter may be
// nil, which disables the reflection and export routes.
type Deps struct {
	Insight  *insight.Service
	Enhancer *tone.Enhancer
	Composer *share.Composer
	Store    reflection.Store
	Exporter *reflection.Exporter
}

// Server serves the HTTP API and the MCP tools.
type Server struct {
	cfg  Config
	deps Deps
	mux  *http.ServeMux
	mcp  *mcpserver.MCPServer
	log  *slog.Logger
}

// New builds every component from cfg and returns a ready server.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, error) {
	var awsCfg aws.Config
	needAWS := cfg.SecretPrefix != "" || cfg.ReflectionStore == "dynamodb" || cfg.S3Bucket != ""
	if needAWS {
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		otelaws.AppendMiddlewares(&awsCfg.APIOptions)
	}

	if cfg.SecretPrefix != "" {
		LoadSecrets(ctx, secretsmanager.NewFromConfig(awsCfg), cfg.SecretPrefix, &cfg.Keys, logger)
	}

	tmpl := share.Templates{}
	if cfg.TemplatesPath != "" {
		var err error
		if tmpl, err = share.LoadTemplates(cfg.TemplatesPath); err != nil {
			return nil, err
		}
	}

	gen, err := insight.NewGenerator(ctx, cfg.InsightModel, cfg.Keys)
	if err != nil {
		logger.Warn("Insight generation disabled", "model", cfg.InsightModel, "error", err)
	}
	toneGen, err := insight.NewGenerator(ctx, cfg.ToneModel, cfg.Keys)
	if err != nil {
		logger.Warn("Tone model unavailable, using insight model", "model", cfg.ToneModel, "error", err)
	}
	svc := insight.NewService(gen, toneGen, logger)

	var rw tone.Rewriter
	if gen != nil || toneGen != nil {
		rw = svc
	}
	enhancer := tone.NewEnhancer(rw, cfg.ToneTimeout, logger)

	deps := Deps{
		Insight:  svc,
		Enhancer: enhancer,
		Composer: share.NewComposer(share.NewSelector(tmpl, nil), enhancer, logger),
	}

	switch cfg.ReflectionStore {
	case "file":
		if deps.Store, err = reflection.NewFileStore(cfg.ReflectionDir); err != nil {
			return nil, err
		}
	case "dynamodb":
		deps.Store = reflection.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.TableName)
	case "none", "":
	default:
		return nil, fmt.Errorf("unknown REFLECTION_STORE %q (file, dynamodb, none)", cfg.ReflectionStore)
	}

	if cfg.S3Bucket != "" {
		if cfg.CDNBaseURL == "" {
			cfg.CDNBaseURL = "https://" + cfg.S3Bucket + ".s3.amazonaws.com"
		}
		deps.Exporter = reflection.NewExporter(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.CDNBaseURL)
	}

	return NewWithDeps(cfg, deps, logger), nil
}

// NewWithDeps wires the routes around already-built components.
func NewWithDeps(cfg Config, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = share.SiteURL
	}
	if deps.Composer == nil {
		var adj share.ToneAdjuster
		if deps.Enhancer != nil {
			adj = deps.Enhancer
		}
		deps.Composer = share.NewComposer(nil, adj, logger)
	}

	s := &Server{cfg: cfg, deps: deps, mux: http.NewServeMux(), log: logger}

	s.mcp = mcpserver.NewMCPServer("ikigen", Version, mcpserver.WithToolCapabilities(true))
	h := &toolHandlers{srv: s}
	tools := ToolDefs()
	s.mcp.AddTool(tools[0], h.HandleComposeSharePost)
	s.mcp.AddTool(tools[1], h.HandleAdjustTone)
	s.mcp.AddTool(tools[2], h.HandleGenerateInsight)

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /api/insight", s.handleInsight)
	s.mux.HandleFunc("POST /api/tone-adjust", s.handleToneAdjust)
	s.mux.HandleFunc("POST /api/share", s.handleShare)
	s.mux.HandleFunc("GET /api/steps", s.handleSteps)

	if s.deps.Store != nil {
		s.mux.HandleFunc("POST /api/reflections", s.handleCreateReflection)
		s.mux.HandleFunc("GET /api/reflections/{id}", s.handleGetReflection)
		s.mux.HandleFunc("DELETE /api/reflections/{id}", s.handleDeleteReflection)
		s.mux.HandleFunc("PUT /api/reflections/{id}/steps/{step}", s.handleSetStep)
		s.mux.HandleFunc("POST /api/reflections/{id}/summary", s.handleSummary)
		s.mux.HandleFunc("POST /api/reflections/{id}/share", s.handleShareReflection)
		s.mux.HandleFunc("POST /api/reflections/{id}/export", s.handleExport)
	}

	s.mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(s.mcp, mcpserver.WithStateLess(true)))
}

// Handler returns the traced HTTP handler.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.mux, "ikigen")
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting server", "addr", srv.Addr, "store", s.cfg.ReflectionStore)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
