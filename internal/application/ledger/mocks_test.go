package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/identity"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/resident"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/wastebank"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock collaborators
// =============================================================================

type MockFeeRepository struct {
	mock.Mock
}

func (m *MockFeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Fee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Fee), args.Error(1)
}

func (m *MockFeeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Fee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Fee), args.Error(1)
}

func (m *MockFeeRepository) ExistsForPeriod(ctx context.Context, residentID uuid.UUID, period billing.Period) (bool, error) {
	args := m.Called(ctx, residentID, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeeRepository) List(ctx context.Context, filter billing.FeeFilter) ([]billing.Fee, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Fee), args.Get(1).(int64), args.Error(2)
}

func (m *MockFeeRepository) Create(ctx context.Context, fee *billing.Fee) error {
	return m.Called(ctx, fee).Error(0)
}

func (m *MockFeeRepository) SaveWithLock(ctx context.Context, fee *billing.Fee) error {
	return m.Called(ctx, fee).Error(0)
}

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*wastebank.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wastebank.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*wastebank.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wastebank.Entry), args.Error(1)
}

func (m *MockEntryRepository) List(ctx context.Context, filter wastebank.EntryFilter) ([]wastebank.Entry, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]wastebank.Entry), args.Get(1).(int64), args.Error(2)
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *wastebank.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockEntryRepository) Update(ctx context.Context, entry *wastebank.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEntryRepository) SumByResident(ctx context.Context, residentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, residentID)
	return args.Get(0).(int64), args.Error(1)
}

type MockBalanceStore struct {
	mock.Mock
}

func (m *MockBalanceStore) AdjustBalance(ctx context.Context, residentID uuid.UUID, delta, floor int64) (int64, error) {
	args := m.Called(ctx, residentID, delta, floor)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBalanceStore) GetBalance(ctx context.Context, residentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, residentID)
	return args.Get(0).(int64), args.Error(1)
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

type MockProofStorage struct {
	mock.Mock
}

func (m *MockProofStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *MockProofStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockProofStorage) PresignGet(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// mockScope runs the callback directly against the mock repositories and
// returns whatever it returns, as a committed or rolled back transaction would
type mockScope struct {
	fees     *MockFeeRepository
	entries  *MockEntryRepository
	balances *MockBalanceStore
}

func (s *mockScope) Execute(_ context.Context, fn func(TransactionalRepositories) error) error {
	return fn(s)
}

func (s *mockScope) Fees() billing.FeeRepository       { return s.fees }
func (s *mockScope) Entries() wastebank.EntryRepository { return s.entries }
func (s *mockScope) Balances() wastebank.BalanceStore   { return s.balances }

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// =============================================================================
// Fixtures
// =============================================================================

var (
	hood      = shared.Neighborhood{RT: "003", RW: "007"}
	otherHood = shared.Neighborhood{RT: "004", RW: "007"}
	fixedNow  = time.Date(2025, 1, 20, 5, 0, 0, 0, time.UTC)
)

type fixture struct {
	fees      *MockFeeRepository
	entries   *MockEntryRepository
	balances  *MockBalanceStore
	residents *MockDirectory
	proofs    *MockProofStorage
	events    *recordingPublisher
	deps      Dependencies
}

func newFixture() *fixture {
	f := &fixture{
		fees:      new(MockFeeRepository),
		entries:   new(MockEntryRepository),
		balances:  new(MockBalanceStore),
		residents: new(MockDirectory),
		proofs:    new(MockProofStorage),
		events:    &recordingPublisher{},
	}
	f.deps = Dependencies{
		Fees:      f.fees,
		Entries:   f.entries,
		Balances:  f.balances,
		Residents: f.residents,
		Scope:     &mockScope{fees: f.fees, entries: f.entries, balances: f.balances},
		Proofs:    f.proofs,
		Events:    f.events,
		Now:       func() time.Time { return fixedNow },
	}
	return f
}

func adminOf(h shared.Neighborhood) identity.Principal {
	return identity.Principal{UserID: uuid.New(), Role: identity.RoleAdmin, Neighborhood: h}
}

func residentPrincipal(res *resident.Resident) identity.Principal {
	id := res.ID
	return identity.Principal{UserID: *res.UserID, Role: identity.RoleResident, Neighborhood: res.Neighborhood, ResidentID: &id}
}

func newResident(name string, h shared.Neighborhood) *resident.Resident {
	res, err := resident.NewResident(name, "C-3", h)
	if err != nil {
		panic(err)
	}
	res.LinkUser(uuid.New())
	return res
}

func newUnpaidFee(res *resident.Resident, amount int64) *billing.Fee {
	period, err := billing.NewPeriod("Januari", 2025)
	if err != nil {
		panic(err)
	}
	fee, err := billing.NewFee(res.ID, res.Neighborhood, amount, period, "")
	if err != nil {
		panic(err)
	}
	fee.ClearDomainEvents()
	return fee
}

// pngProof is the smallest byte sequence http.DetectContentType reports as image/png
var pngProof = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
