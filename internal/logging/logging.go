// Package logging builds the coordinator's zap.Logger and the request-scoped
// field helpers used across internal/coordinator, internal/publisher and
// internal/dispatcher.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/angzarr-io/angzarr/internal/pb"
)

// Build constructs a zap.Logger from a level string ("debug", "info", ...)
// and a format ("console" or "json").
func Build(level, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("logging: invalid level %q: %w", level, err)
	}

	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	return cfg.Build()
}

// ForCover returns the standard set of request-scoped fields attached to
// every log line touching a given Cover: domain, edition, root and
// correlation_id.
func ForCover(c *pb.Cover) []zap.Field {
	if c == nil {
		return []zap.Field{zap.String("domain", "unknown")}
	}
	fields := []zap.Field{
		zap.String("domain", c.GetDomain()),
		zap.String("correlation_id", c.GetCorrelationId()),
	}
	if r := c.GetRoot(); r != nil {
		fields = append(fields, zap.String("root", fmt.Sprintf("%x", r.GetValue())))
	}
	if e := c.GetEdition(); e != nil && e.GetName() != "" {
		fields = append(fields, zap.String("edition", e.GetName()))
	}
	return fields
}
