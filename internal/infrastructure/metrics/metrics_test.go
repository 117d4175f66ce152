package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	assert.Equal(t, "success", metrics.Result(nil))
	assert.Equal(t, "conflict", metrics.Result(billing.ErrAlreadyPaid))
	assert.Equal(t, "insufficient_balance", metrics.Result(shared.ErrInsufficientBalance))
	assert.Equal(t, "error", metrics.Result(errors.New("plain")))
}

func TestLedger_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewLedger(reg)

	m.Observe("settle_fee", time.Now(), nil)
	m.Observe("settle_fee", time.Now(), shared.ErrInsufficientBalance)
	m.Observe("settle_fee", time.Now(), shared.ErrInsufficientBalance)
	m.BalanceMoved(5000)
	m.BalanceMoved(-2000)
	m.BalanceMoved(0)
	m.DriftDetected()
	m.NoticeSent(nil)
	m.NoticeSent(errors.New("sink down"))
	m.HTTPRequest("/api/v1/fees", "GET", 200, time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	assert.Len(t, series(families, "rtrw_ledger_operations_total"), 2)
	assert.Len(t, series(families, "rtrw_waste_bank_rupiah_total"), 2)

	for _, metric := range series(families, "rtrw_ledger_operations_total") {
		for _, label := range metric.GetLabel() {
			if label.GetName() == "result" && label.GetValue() == "insufficient_balance" {
				assert.Equal(t, float64(2), metric.GetCounter().GetValue())
			}
		}
	}
}

func series(families []*dto.MetricFamily, name string) []*dto.Metric {
	for _, f := range families {
		if f.GetName() == name {
			return f.GetMetric()
		}
	}
	return nil
}

func TestLedger_NilIsNoop(t *testing.T) {
	var m *metrics.Ledger
	assert.NotPanics(t, func() {
		m.Observe("x", time.Now(), nil)
		m.BalanceMoved(1)
		m.DriftDetected()
		m.NoticeSent(nil)
		m.HTTPRequest("", "GET", 500, 0)
	})
}
