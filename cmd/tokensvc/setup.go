package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voxmesh/rtc-token-service/internal/config"
	"github.com/voxmesh/rtc-token-service/internal/domain"
	"github.com/voxmesh/rtc-token-service/internal/rtctoken"
	"github.com/voxmesh/rtc-token-service/internal/server"
	"github.com/voxmesh/rtc-token-service/internal/tokensvc/app"
	"github.com/voxmesh/rtc-token-service/internal/tokensvc/port"
)

// Dev credential used when running locally without a configured one.
// Production requires the real app ID and certificate from the environment;
// config.Load fails startup outside local when they are missing.
const (
	devAppID       = "dev-app-id"
	devCertificate = "dev-app-certificate"
)

// setup is the tokensvc composition root. It resolves the issuing
// credential, wires the builder and issue service, and registers the
// HTTP handler.
func setup(ctx context.Context, deps server.SetupDeps) (func(context.Context) error, error) {
	cfg := deps.Config
	logger := deps.Logger

	credential, err := resolveCredential(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("tokensvc setup: %w", err)
	}

	clock := domain.RealClock{}

	builder := rtctoken.NewBuilder(rtctoken.BuilderConfig{
		Credential: credential,
		Clock:      clock,
		Random:     domain.CryptoRandomSource{},
	})

	svc := app.NewIssueService(app.IssueServiceConfig{
		Builder: builder,
		AppID:   credential.AppID,
		Clock:   clock,
		Logger:  logger,
	})

	handler := port.NewTokenHandler(svc, logger)
	handler.Register(deps.HTTPMux)

	logger.InfoContext(ctx, "token issuance service initialized")

	return nil, nil
}

// resolveCredential returns the issuing credential for the environment.
// Local: falls back to a fixed dev credential so the service runs without
// secrets. Everywhere else: both values must come from configuration.
func resolveCredential(cfg *config.Config, logger *slog.Logger) (rtctoken.Credential, error) {
	appID := cfg.Token.App.ID
	cert := cfg.Token.App.Certificate

	if appID != "" && !cert.IsEmpty() {
		return rtctoken.Credential{
			AppID:       appID,
			Certificate: domain.SecretBytes(cert.Expose()),
		}, nil
	}

	if cfg.IsLocal() {
		logger.Warn("using dev credential for local development")
		return rtctoken.Credential{
			AppID:       devAppID,
			Certificate: domain.SecretBytes(devCertificate),
		}, nil
	}

	return rtctoken.Credential{}, domain.ErrCredentialMissing
}
