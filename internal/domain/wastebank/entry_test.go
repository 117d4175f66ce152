package wastebank_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name   string
		weight string
		price  string
		want   int64
	}{
		{"whole numbers", "2", "3000", 6000},
		{"fractional weight", "1.5", "2500", 3750},
		{"rounds half up", "0.25", "2", 1},
		{"rounds down", "0.333", "1000", 333},
		{"free material", "4.2", "0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wastebank.ComputeTotal(decimal.RequireFromString(tt.weight), decimal.RequireFromString(tt.price))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDeposit(t *testing.T) {
	now := time.Now().UTC()
	residentID := uuid.New()

	entry, err := wastebank.NewDeposit(residentID, " Plastik ", decimal.NewFromFloat(2.5), decimal.NewFromInt(4000), uuid.New(), now)
	require.NoError(t, err)
	assert.Equal(t, wastebank.EntryKindDeposit, entry.Kind)
	assert.Equal(t, "Plastik", entry.WasteType)
	assert.Equal(t, int64(10000), entry.TotalValue)
	assert.Nil(t, entry.FeeID)
	assert.NotNil(t, entry.RecordedBy)

	_, err = wastebank.NewDeposit(residentID, "Kertas", decimal.Zero, decimal.NewFromInt(1000), uuid.New(), now)
	assert.ErrorIs(t, err, wastebank.ErrInvalidWeight)

	_, err = wastebank.NewDeposit(residentID, "Kertas", decimal.NewFromInt(1), decimal.NewFromInt(-1), uuid.New(), now)
	assert.ErrorIs(t, err, wastebank.ErrInvalidPrice)

	_, err = wastebank.NewDeposit(residentID, "", decimal.NewFromInt(1), decimal.NewFromInt(1), uuid.New(), now)
	assert.Error(t, err)
}

func TestNewDeposit_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		weight  string
		price   string
		wantErr error
		want    int64
	}{
		{"three weight decimals", "0.125", "8000", nil, 1000},
		{"trailing zeros are not extra precision", "2.5000", "3000.00", nil, 7500},
		{"four weight decimals", "0.0001", "1000", wastebank.ErrWeightOutOfRange, 0},
		{"three price decimals", "1", "1500.505", wastebank.ErrPriceOutOfRange, 0},
		{"largest weight", "999999999.999", "1", nil, 1000000000},
		{"weight beyond column", "1000000000", "1", wastebank.ErrWeightOutOfRange, 0},
		{"price beyond column", "1", "1000000000000", wastebank.ErrPriceOutOfRange, 0},
		{"product beyond int64", "900000000", "90000000000", wastebank.ErrTotalOutOfRange, 0},
		{"nineteen digit price", "1", "9223372036854775807", wastebank.ErrPriceOutOfRange, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := wastebank.NewDeposit(uuid.New(), "Kardus",
				decimal.RequireFromString(tt.weight), decimal.RequireFromString(tt.price), uuid.New(), time.Now())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, entry)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, entry.TotalValue)
		})
	}
}

func TestEntry_ReviseRejectsOverflow(t *testing.T) {
	entry, err := wastebank.NewDeposit(uuid.New(), "Besi", decimal.NewFromInt(10), decimal.NewFromInt(5000), uuid.New(), time.Now())
	require.NoError(t, err)

	_, err = entry.Revise("Besi", decimal.NewFromInt(900000000), decimal.NewFromInt(90000000000), time.Now())
	assert.ErrorIs(t, err, wastebank.ErrTotalOutOfRange)
	assert.Equal(t, int64(50000), entry.TotalValue, "a rejected revision leaves the entry unchanged")
	assert.True(t, entry.Weight.Equal(decimal.NewFromInt(10)))
}

func TestNewFeeSettlement(t *testing.T) {
	feeID := uuid.New()
	entry, err := wastebank.NewFeeSettlement(uuid.New(), feeID, "Pembayaran Iuran Januari 2025", 50000, time.Now())
	require.NoError(t, err)
	assert.Equal(t, wastebank.EntryKindFeeSettlement, entry.Kind)
	assert.Equal(t, int64(-50000), entry.TotalValue)
	assert.True(t, entry.Weight.IsZero())
	assert.True(t, entry.PricePerKg.IsZero())
	require.NotNil(t, entry.FeeID)
	assert.Equal(t, feeID, *entry.FeeID)

	_, err = wastebank.NewFeeSettlement(uuid.New(), feeID, "x", 0, time.Now())
	assert.Error(t, err)
}

func TestEntry_Revise(t *testing.T) {
	now := time.Now().UTC()
	entry, err := wastebank.NewDeposit(uuid.New(), "Plastik", decimal.NewFromInt(2), decimal.NewFromInt(3000), uuid.New(), now)
	require.NoError(t, err)

	delta, err := entry.Revise("Logam", decimal.NewFromInt(1), decimal.NewFromInt(3000), now)
	require.NoError(t, err)
	assert.Equal(t, int64(-3000), delta)
	assert.Equal(t, int64(3000), entry.TotalValue)
	assert.Equal(t, "Logam", entry.WasteType)

	settlement, err := wastebank.NewFeeSettlement(uuid.New(), uuid.New(), "x", 100, now)
	require.NoError(t, err)
	_, err = settlement.Revise("Logam", decimal.NewFromInt(1), decimal.NewFromInt(1), now)
	assert.ErrorIs(t, err, wastebank.ErrNotEditable)
}

func TestReconciliation(t *testing.T) {
	r := wastebank.NewReconciliation(uuid.New(), 12000, 10000)
	assert.Equal(t, int64(2000), r.Drift)
	assert.False(t, r.InSync())
	assert.True(t, wastebank.NewReconciliation(uuid.New(), 5, 5).InSync())
}
