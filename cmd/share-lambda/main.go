//go:build lambda.norpc

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/apresai/ikigen/internal/observability"
	"github.com/apresai/ikigen/internal/server"
	"github.com/apresai/ikigen/internal/share"
	"github.com/apresai/ikigen/internal/tone"
)

var fn *server.ShareFunction

func init() {
	log := observability.InitLogger(os.Stdout, observability.ParseLevel(os.Getenv("LOG_LEVEL")))
	slog.SetDefault(log)

	tmpl := share.Templates{}
	if path := os.Getenv("SHARE_TEMPLATES"); path != "" {
		var err error
		if tmpl, err = share.LoadTemplates(path); err != nil {
			log.Error("Failed to load share templates", "path", path, "error", err)
			os.Exit(1)
		}
	}

	var adj share.ToneAdjuster
	if url := os.Getenv("TONE_SERVICE_URL"); url != "" {
		adj = tone.NewEnhancer(tone.NewClient(url, nil), tone.DefaultTimeout, log)
		log.Info("Enhanced tone adjustment enabled", "url", url)
	}

	siteURL := os.Getenv("SITE_URL")
	fn = server.NewShareFunction(share.NewComposer(share.NewSelector(tmpl, nil), adj, log), siteURL, log)
}

func main() {
	ctx := context.Background()
	tp, err := observability.InitTracer(ctx, "ikigen-share-lambda", server.Version)
	if err != nil {
		slog.Warn("Failed to init tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = tp.Shutdown(ctx) }()
	}
	lambda.Start(fn.Handle)
}
