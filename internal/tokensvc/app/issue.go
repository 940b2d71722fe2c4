// Package app contains the application service for token issuance.
// It validates boundary input, applies role and lifetime defaults, and
// delegates the actual token construction to the rtctoken builder.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/voxmesh/rtc-token-service/internal/domain"
	"github.com/voxmesh/rtc-token-service/internal/observability"
	"github.com/voxmesh/rtc-token-service/internal/rtctoken"
)

var tracer = otel.Tracer("tokensvc/app")

var (
	tokensIssuedTotal    metric.Int64Counter
	issueFailuresTotal   metric.Int64Counter
	issueDurationSeconds metric.Float64Histogram
)

func init() {
	m := otel.Meter("tokensvc/app")

	tokensIssuedTotal, _ = m.Int64Counter("token_issued_total",
		metric.WithDescription("Total access tokens issued"))
	issueFailuresTotal, _ = m.Int64Counter("token_issue_failures_total",
		metric.WithDescription("Total failed issuance requests"))
	issueDurationSeconds, _ = m.Float64Histogram("token_issue_duration_seconds",
		metric.WithDescription("Token issuance latency"))
}

// IssueRequest is the boundary-shaped issuance request. UID and ExpireTime
// are pointers so the handler can distinguish "absent" from "zero": a missing
// uid is a validation error, while a missing expireTime falls back to the
// default lifetime and an explicit zero stays lenient (immediately expired
// token).
type IssueRequest struct {
	Channel    string
	UID        *int64
	Role       string
	ExpireTime *int64 // seconds
}

// IssueResult holds the issued token and the echo fields for the response.
type IssueResult struct {
	AppID      string
	Token      string
	Channel    string
	UID        uint32
	ExpireTime int64
}

// IssueService mints one token per request. Stateless; safe for
// unrestricted concurrent use.
type IssueService struct {
	builder *rtctoken.Builder
	appID   string
	clock   domain.Clock
	logger  *slog.Logger
}

// IssueServiceConfig holds the dependencies for an IssueService.
type IssueServiceConfig struct {
	Builder *rtctoken.Builder
	AppID   string
	Clock   domain.Clock
	Logger  *slog.Logger
}

// NewIssueService creates an IssueService.
func NewIssueService(cfg IssueServiceConfig) *IssueService {
	return &IssueService{
		builder: cfg.Builder,
		appID:   cfg.AppID,
		clock:   cfg.Clock,
		logger:  cfg.Logger,
	}
}

// Issue validates the request, applies defaults, and mints a signed token.
func (s *IssueService) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	ctx, span := tracer.Start(ctx, "tokensvc.issue")
	defer span.End()
	start := s.clock.Now()

	logger := observability.WithTraceID(ctx, s.logger)

	channel, err := domain.NewChannelName(req.Channel)
	if err != nil {
		return nil, s.reject(ctx, span, "invalid_channel", err)
	}

	if req.UID == nil {
		return nil, s.reject(ctx, span, "missing_uid", fmt.Errorf("uid is required: %w", domain.ErrInvalidUID))
	}
	uid := *req.UID
	if uid < 0 || uid > math.MaxUint32 {
		return nil, s.reject(ctx, span, "uid_out_of_range", fmt.Errorf("uid %d: %w", uid, domain.ErrInvalidUID))
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, s.reject(ctx, span, "invalid_role", err)
	}

	expireTime := int64(domain.DefaultTokenTTL / time.Second)
	if req.ExpireTime != nil {
		expireTime = *req.ExpireTime
	}

	result, err := s.builder.Build(rtctoken.BuildRequest{
		Channel: channel,
		UID:     uint32(uid),
		Role:    role,
		TTL:     time.Duration(expireTime) * time.Second,
	})
	if err != nil {
		return nil, s.reject(ctx, span, "build_failed", err)
	}

	span.SetAttributes(
		attribute.String("rtc.role", role.String()),
		attribute.Int64("rtc.expire_time", expireTime),
	)
	tokensIssuedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("role", role.String())))
	issueDurationSeconds.Record(ctx, s.clock.Now().Sub(start).Seconds())

	// Channel name and uid are not secrets, but the token itself carries
	// the signature and is never logged.
	logger.InfoContext(ctx, "token issued",
		slog.String("channel", channel.String()),
		slog.Uint64("uid", uint64(uid)),
		slog.String("role", role.String()),
		slog.Time("expires_at", result.ExpiresAt),
	)

	return &IssueResult{
		AppID:      s.appID,
		Token:      result.Token,
		Channel:    channel.String(),
		UID:        uint32(uid),
		ExpireTime: expireTime,
	}, nil
}

func (s *IssueService) reject(ctx context.Context, span trace.Span, reason string, err error) error {
	issueFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
