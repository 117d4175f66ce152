package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/identity"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/resident"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type MockReader struct {
	mock.Mock
}

func (m *MockReader) FeeTotals(ctx context.Context, hood shared.Neighborhood, period billing.Period) ([]StatusTotal, error) {
	args := m.Called(ctx, hood, period)
	return args.Get(0).([]StatusTotal), args.Error(1)
}

func (m *MockReader) FeeLines(ctx context.Context, hood shared.Neighborhood, period billing.Period) ([]FeeLine, error) {
	args := m.Called(ctx, hood, period)
	return args.Get(0).([]FeeLine), args.Error(1)
}

func (m *MockReader) WasteTotals(ctx context.Context, hood shared.Neighborhood, from, to time.Time) (WasteTotals, error) {
	args := m.Called(ctx, hood, from, to)
	return args.Get(0).(WasteTotals), args.Error(1)
}

type MockFeeFinder struct {
	mock.Mock
}

func (m *MockFeeFinder) GetFee(ctx context.Context, p identity.Principal, feeID uuid.UUID) (*billing.Fee, error) {
	args := m.Called(ctx, p, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Fee), args.Error(1)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) FindByID(ctx context.Context, id uuid.UUID) (*resident.Resident, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resident.Resident), args.Error(1)
}

func (m *MockDirectory) FindByUserID(ctx context.Context, userID uuid.UUID) (*resident.Resident, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resident.Resident), args.Error(1)
}

func (m *MockDirectory) AdminUserIDs(ctx context.Context, hood shared.Neighborhood) ([]uuid.UUID, error) {
	args := m.Called(ctx, hood)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

var hood = shared.Neighborhood{RT: "003", RW: "007"}

var admin = identity.Principal{UserID: uuid.New(), Role: identity.RoleAdmin, Neighborhood: hood}

func march2025(t *testing.T) billing.Period {
	t.Helper()
	p, err := billing.NewPeriod("Maret", 2025)
	require.NoError(t, err)
	return p
}

func TestMonthlyRecap_Aggregates(t *testing.T) {
	reader := new(MockReader)
	svc := NewService(reader, nil, nil, nil, nil)
	period := march2025(t)

	reader.On("FeeTotals", mock.Anything, hood, period).Return([]StatusTotal{
		{Status: billing.FeeStatusPaid, Count: 2, Amount: 100000},
		{Status: billing.FeeStatusUnpaid, Count: 1, Amount: 50000},
	}, nil)
	// 1 March 00:00 WIB is 28 February 17:00 UTC
	from := time.Date(2025, 2, 28, 17, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 17, 0, 0, 0, time.UTC)
	waste := WasteTotals{DepositCount: 4, DepositWeight: decimal.RequireFromString("12.5"), DepositValue: 62500, OutstandingBalance: 40000}
	reader.On("WasteTotals", mock.Anything, hood,
		mock.MatchedBy(from.Equal), mock.MatchedBy(to.Equal)).Return(waste, nil)

	recap, err := svc.MonthlyRecap(context.Background(), admin, "maret", 2025)
	require.NoError(t, err)

	assert.Equal(t, "Maret 2025", recap.Period)
	assert.Equal(t, int64(3), recap.FeeCount)
	assert.Equal(t, int64(150000), recap.Billed)
	assert.Equal(t, int64(100000), recap.Collected)
	assert.Equal(t, int64(0), recap.Pending)
	assert.Equal(t, int64(50000), recap.Outstanding)
	assert.Equal(t, "0.6667", recap.CollectionRate().String())
	assert.Equal(t, waste, recap.WasteBank)

	require.Len(t, recap.Statuses, 3)
	assert.Equal(t, StatusTotal{Status: billing.FeeStatusPendingVerification}, recap.Statuses[1])
	reader.AssertExpectations(t)
}

func TestMonthlyRecap_Rejects(t *testing.T) {
	svc := NewService(new(MockReader), nil, nil, nil, nil)
	resID := uuid.New()
	residentP := identity.Principal{UserID: uuid.New(), Role: identity.RoleResident, Neighborhood: hood, ResidentID: &resID}

	_, err := svc.MonthlyRecap(context.Background(), residentP, "Maret", 2025)
	assert.ErrorIs(t, err, identity.ErrAdminRequired)

	_, err = svc.MonthlyRecap(context.Background(), admin, "March", 2025)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestMonthlyRecap_ReaderFailure(t *testing.T) {
	reader := new(MockReader)
	svc := NewService(reader, nil, nil, nil, nil)
	boom := shared.NewDependencyError("STORAGE_UNAVAILABLE", errors.New("connection refused"))
	reader.On("FeeTotals", mock.Anything, hood, march2025(t)).Return([]StatusTotal(nil), boom)

	_, err := svc.MonthlyRecap(context.Background(), admin, "Maret", 2025)
	assert.ErrorIs(t, err, boom)
	reader.AssertNotCalled(t, "WasteTotals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExportRecapXLSX(t *testing.T) {
	reader := new(MockReader)
	svc := NewService(reader, nil, nil, nil, nil)
	period := march2025(t)
	paidAt := time.Date(2025, 3, 4, 20, 0, 0, 0, time.UTC)

	reader.On("FeeTotals", mock.Anything, hood, period).Return([]StatusTotal{
		{Status: billing.FeeStatusPaid, Count: 1, Amount: 50000},
	}, nil)
	reader.On("WasteTotals", mock.Anything, hood, mock.Anything, mock.Anything).Return(WasteTotals{}, nil)
	reader.On("FeeLines", mock.Anything, hood, period).Return([]FeeLine{
		{FeeID: uuid.New(), ResidentName: "Budi", HouseNumber: "C-3", Amount: 50000, Status: billing.FeeStatusPaid, Method: "Bank Transfer", PaidAt: &paidAt},
		{FeeID: uuid.New(), ResidentName: "Sari", HouseNumber: "C-4", Amount: 50000, Status: billing.FeeStatusUnpaid},
	}, nil)

	data, filename, err := svc.ExportRecapXLSX(context.Background(), admin, "Maret", 2025)
	require.NoError(t, err)
	assert.Equal(t, "rekap-iuran-rt003-rw007-2025-03.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	var cells []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		for _, row := range rows {
			cells = append(cells, row...)
		}
	}
	joined := strings.Join(cells, "|")
	assert.Contains(t, joined, "Budi")
	assert.Contains(t, joined, "Lunas")
	assert.Contains(t, joined, "Belum Dibayar")
	// paid in the evening UTC is the next day in WIB
	assert.Contains(t, joined, "05-03-2025")
}

func TestFeeReceiptPDF(t *testing.T) {
	res, err := resident.NewResident("Budi", "C-3", hood)
	require.NoError(t, err)
	fee, err := billing.NewFee(res.ID, hood, 50000, march2025(t), "Iuran kebersihan")
	require.NoError(t, err)

	t.Run("unpaid fee has no receipt", func(t *testing.T) {
		fees := new(MockFeeFinder)
		svc := NewService(new(MockReader), fees, new(MockDirectory), nil, nil)
		fees.On("GetFee", mock.Anything, admin, fee.ID).Return(fee, nil).Once()

		_, _, err := svc.FeeReceiptPDF(context.Background(), admin, fee.ID)
		assert.ErrorIs(t, err, ErrNotPaid)
	})

	t.Run("fee outside scope", func(t *testing.T) {
		fees := new(MockFeeFinder)
		svc := NewService(new(MockReader), fees, new(MockDirectory), nil, nil)
		fees.On("GetFee", mock.Anything, admin, fee.ID).Return(nil, billing.ErrFeeNotFound)

		_, _, err := svc.FeeReceiptPDF(context.Background(), admin, fee.ID)
		assert.ErrorIs(t, err, billing.ErrFeeNotFound)
	})

	t.Run("paid fee renders", func(t *testing.T) {
		paid, err := billing.NewFee(res.ID, hood, 50000, march2025(t), "")
		require.NoError(t, err)
		require.NoError(t, paid.SettleWithBalance(time.Date(2025, 3, 5, 2, 0, 0, 0, time.UTC), 0))

		fees := new(MockFeeFinder)
		residents := new(MockDirectory)
		svc := NewService(new(MockReader), fees, residents, nil, nil)
		fees.On("GetFee", mock.Anything, admin, paid.ID).Return(paid, nil)
		residents.On("FindByID", mock.Anything, res.ID).Return(res, nil)

		data, filename, err := svc.FeeReceiptPDF(context.Background(), admin, paid.ID)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
		number := strings.ReplaceAll(paid.ID.String(), "-", "")[:12]
		assert.Equal(t, "kuitansi-"+number+".pdf", filename)
	})
}
