package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-kitchensink/config"
	"github.com/oksasatya/go-kitchensink/internal/application"
	"github.com/oksasatya/go-kitchensink/internal/container"
	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
	"github.com/oksasatya/go-kitchensink/internal/router"
	"github.com/oksasatya/go-kitchensink/pkg/helpers"
)

var demoMember = entity.Member{
	Name:        "John Smith",
	Email:       "john.smith@mailinator.com",
	PhoneNumber: "2125551212",
}

func main() {
	reset := flag.Bool("reset", false, "delete all members before seeding")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	container.SetConfig(cfg)
	container.SetLogger(logger)

	_, closeStore, err := container.OpenMemberStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to open member store")
	}
	defer closeStore()

	closeRedis := container.OpenRedis(ctx, cfg, logger)
	defer closeRedis()
	container.OpenSearch(ctx, cfg, logger)

	svc := router.BuildMemberService()
	if *reset {
		if err := svc.Reset(ctx); err != nil {
			logger.WithError(err).Fatal("failed to reset members")
		}
	}

	m, err := svc.Register(ctx, demoMember)
	switch {
	case errors.Is(err, application.ErrDuplicateEmail):
		fmt.Printf("member already seeded: email=%s\n", demoMember.Email)
	case err != nil:
		logger.WithError(err).Fatal("failed to seed member")
	default:
		fmt.Printf("seeded member: id=%s name=%s email=%s phone=%s\n", m.ID, m.Name, m.Email, m.PhoneNumber)
	}
}
