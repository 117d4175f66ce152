package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerProvider exports zap records as OTLP logs next to the traces
type LoggerProvider struct {
	sdk *sdklog.LoggerProvider
}

// NewLoggerProvider starts an OTLP/gRPC log exporter. cfg.Enabled gates it
// the same way it gates tracing.
func NewLoggerProvider(ctx context.Context, cfg Config) (*LoggerProvider, error) {
	if !cfg.Enabled {
		return &LoggerProvider{}, nil
	}
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP log exporter: %w", err)
	}
	lp := &LoggerProvider{sdk: sdklog.NewLoggerProvider(
		sdklog.WithResource(Resource(cfg)),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)}
	global.SetLoggerProvider(lp.sdk)
	return lp, nil
}

// IsEnabled reports whether logs are exported
func (lp *LoggerProvider) IsEnabled() bool {
	return lp.sdk != nil
}

// Bridge returns base with every record at or above level also sent to
// lp. A disabled provider returns base unchanged.
func (lp *LoggerProvider) Bridge(base *zap.Logger, name string, level zapcore.Level) *zap.Logger {
	if lp.sdk == nil {
		return base
	}
	return Bridge(base, lp.sdk, name, level)
}

// Shutdown flushes buffered records within ctx's deadline
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if lp.sdk == nil {
		return nil
	}
	if err := lp.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown logger provider: %w", err)
	}
	return nil
}

// Bridge tees base into an otelzap core on provider
func Bridge(base *zap.Logger, provider otellog.LoggerProvider, name string, level zapcore.Level) *zap.Logger {
	var otelCore zapcore.Core = otelzap.NewCore(name, otelzap.WithLoggerProvider(provider))
	if filtered, err := zapcore.NewIncreaseLevelCore(otelCore, level); err == nil {
		otelCore = filtered
	}
	return base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, otelCore)
	}))
}
