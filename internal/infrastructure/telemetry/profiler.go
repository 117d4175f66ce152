package telemetry

import (
	"errors"
	"fmt"
	"os"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// ProfilerConfig points continuous profiling at a Pyroscope server
type ProfilerConfig struct {
	Enabled         bool
	ServerAddress   string
	ApplicationName string
	Environment     string
}

// Profiler owns a running Pyroscope session. The zero value is disabled.
type Profiler struct {
	session *pyroscope.Profiler
	logger  *zap.Logger
}

var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

// StartProfiler starts sending CPU, heap and goroutine profiles
func StartProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Profiler{logger: logger}
	if !cfg.Enabled {
		return p, nil
	}
	if cfg.ServerAddress == "" || cfg.ApplicationName == "" {
		return nil, errors.New("profiling needs a server address and an application name")
	}

	tags := map[string]string{"env": cfg.Environment}
	if host, err := os.Hostname(); err == nil {
		tags["hostname"] = host
	}
	session, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          logger.Named("pyroscope").Sugar(),
		Tags:            tags,
		ProfileTypes:    profileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}
	p.session = session
	logger.Info("Continuous profiling started", zap.String("server", cfg.ServerAddress))
	return p, nil
}

// IsEnabled reports whether profiles are being sent
func (p *Profiler) IsEnabled() bool {
	return p != nil && p.session != nil
}

// LinkSpans labels profile samples with the span that was running, so a slow
// settlement trace opens its CPU profile. It needs both tracing and profiling.
func (p *Profiler) LinkSpans(tp *TracerProvider) bool {
	if !p.IsEnabled() || !tp.IsEnabled() {
		return false
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp.sdk))
	return true
}

// Stop flushes the last profiles and ends the session
func (p *Profiler) Stop() error {
	if !p.IsEnabled() {
		return nil
	}
	err := p.session.Stop()
	p.session = nil
	if err != nil {
		return fmt.Errorf("stop pyroscope: %w", err)
	}
	return nil
}
