// cmd/seedowner creates a business and its owner account, bypassing the
// ALLOW_REGISTRATION flag. Uses the same DATABASE_URL / DB_DRIVER as the server.
//
//	go run ./cmd/seedowner -business "Rahim Traders" -username owner -password s3cret-pass
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/authz"
	"github.com/gsagg03-cmyk/erpx/internal/config"
	"github.com/gsagg03-cmyk/erpx/internal/dto"
	"github.com/gsagg03-cmyk/erpx/internal/infra"
	"github.com/gsagg03-cmyk/erpx/internal/repository"
	"github.com/gsagg03-cmyk/erpx/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	business := flag.String("business", "Demo Shop", "business name")
	name := flag.String("name", "Owner", "owner display name")
	username := flag.String("username", "owner", "owner login")
	password := flag.String("password", "", "owner password (min 8 chars)")
	flag.Parse()

	if len(*password) < 8 {
		log.Fatal().Msg("-password must be at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(infra.DatabaseOptions{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	auth := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewBusinessRepository(db),
		authz.DefaultPolicy(),
		cfg,
	)
	resp, err := auth.RegisterOwner(context.Background(), dto.RegisterOwnerRequest{
		BusinessName: *business,
		Name:         *name,
		Username:     *username,
		Password:     *password,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().
		Str("business_id", resp.User.BusinessID).
		Str("username", resp.User.Username).
		Msg("owner created")
}
