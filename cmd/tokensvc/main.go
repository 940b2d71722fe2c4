// Package main is the entrypoint for the RTC token issuance service.
// The service mints one signed channel access token per request.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/voxmesh/rtc-token-service/internal/config"
	"github.com/voxmesh/rtc-token-service/internal/server"
)

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return server.Run(ctx, server.Params{
		Name:           "tokensvc",
		PortFromConfig: func(cfg *config.Config) int { return cfg.Server.Port },
		Setup:          setup,
	}, nil)
}
