package main

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-kitchensink/config"
	"github.com/oksasatya/go-kitchensink/internal/application"
	"github.com/oksasatya/go-kitchensink/internal/container"
	"github.com/oksasatya/go-kitchensink/internal/router"
	"github.com/oksasatya/go-kitchensink/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-export", cfg.Env)

	if cfg.GCSBucket == "" {
		logger.Fatal("GCS_BUCKET not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	container.SetConfig(cfg)
	container.SetLogger(logger)

	_, closeStore, err := container.OpenMemberStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to open member store")
	}
	defer closeStore()

	gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to init GCS client")
	}
	defer func() { _ = gcsClient.Close() }()
	container.SetGCS(gcsClient)

	svc := router.BuildMemberService()
	now := time.Now()

	var buf bytes.Buffer
	n, err := svc.WriteSnapshot(ctx, &buf, cfg.Backend(), now)
	if err != nil {
		logger.WithError(err).Fatal("failed to export members")
	}

	object := application.ExportObjectName(now)
	uri, err := helpers.UploadObject(ctx, container.GetGCS(), cfg.GCSBucket, object, "application/json", &buf)
	if err != nil {
		logger.WithError(err).WithField("object", object).Fatal("failed to upload export")
	}
	fmt.Printf("exported %d members to %s\n", n, uri)
}
