//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"payment-status-bot/internal/domain"
	"payment-status-bot/internal/domain/model"
	"payment-status-bot/internal/domain/ports/adapter"
	"payment-status-bot/internal/domain/ports/repository"
	"payment-status-bot/internal/infra/i18n"
	"payment-status-bot/internal/usecase"
)

// -----------------------------
// Registry
// -----------------------------

var _ repository.Registry = (*MockRegistry)(nil)

type MockRegistry struct {
	mu          sync.Mutex
	entries     map[int64]string
	appended    []model.Registration
	RegisterErr error
}

func NewMockRegistry() *MockRegistry {
	return &MockRegistry{entries: map[int64]string{}}
}

func (m *MockRegistry) Lookup(_ context.Context, chatID int64) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.entries[chatID]
	return acc, ok
}

func (m *MockRegistry) Register(_ context.Context, chatID int64, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RegisterErr != nil {
		return m.RegisterErr
	}
	m.entries[chatID] = accountID
	m.appended = append(m.appended, model.Registration{ChatID: chatID, AccountID: accountID})
	return nil
}

func (m *MockRegistry) Appended() []model.Registration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Registration(nil), m.appended...)
}

var errDiskFull = errors.Join(domain.ErrRegistryUnavailable, errors.New("no space left on device"))

// -----------------------------
// Conversation state
// -----------------------------

var _ repository.ConversationStateStore = (*MockStateStore)(nil)

type MockStateStore struct {
	mu     sync.Mutex
	states map[int64]model.ConversationState
}

func NewMockStateStore() *MockStateStore {
	return &MockStateStore{states: map[int64]model.ConversationState{}}
}

func (m *MockStateStore) Get(_ context.Context, chatID int64) model.ConversationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.states[chatID]; ok {
		return st
	}
	return model.Idle()
}

func (m *MockStateStore) Set(_ context.Context, chatID int64, st model.ConversationState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[chatID] = st
}

func (m *MockStateStore) Clear(_ context.Context, chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, chatID)
}

// -----------------------------
// Upstream clients
// -----------------------------

type paymentCall struct{ AccountID, OrderID string }

type MockPayments struct {
	Result adapter.PaymentStatus
	Calls  []paymentCall
}

func (m *MockPayments) QueryPaymentStatus(_ context.Context, accountID, orderID string) adapter.PaymentStatus {
	m.Calls = append(m.Calls, paymentCall{accountID, orderID})
	return m.Result
}

type blacklistCall struct {
	Value      string
	FilterType model.FilterType
	Comment    string
}

type MockBlacklist struct {
	Result adapter.BlacklistResult
	Calls  []blacklistCall
}

func (m *MockBlacklist) SubmitBlacklist(_ context.Context, value string, ft model.FilterType, comment string) adapter.BlacklistResult {
	m.Calls = append(m.Calls, blacklistCall{value, ft, comment})
	return m.Result
}

type MockDescriptors struct {
	Result adapter.Descriptors
	Calls  int
}

func (m *MockDescriptors) FetchDescriptors(context.Context) adapter.Descriptors {
	m.Calls++
	return m.Result
}

type MockPinger struct {
	Reply string
}

func (m *MockPinger) Ping(context.Context) string { return m.Reply }

// -----------------------------
// Fixture
// -----------------------------

const testBotUsername = "StatusPaymentBot"

type fixture struct {
	registry    *MockRegistry
	states      *MockStateStore
	payments    *MockPayments
	blacklist   *MockBlacklist
	descriptors *MockDescriptors
	pinger      *MockPinger
	t           *i18n.Translator
	d           *usecase.Dispatcher
}

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func newTestTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, i18n.DefaultLang)
	if err != nil {
		t.Fatalf("load translator: %v", err)
	}
	return tr
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newNamedFixture(t, testBotUsername)
}

func newNamedFixture(t *testing.T, botUsername string) *fixture {
	t.Helper()
	f := &fixture{
		registry:    NewMockRegistry(),
		states:      NewMockStateStore(),
		payments:    &MockPayments{},
		blacklist:   &MockBlacklist{},
		descriptors: &MockDescriptors{},
		pinger:      &MockPinger{Reply: "*Services Operational*"},
		t:           newTestTranslator(t),
	}
	f.d = usecase.NewDispatcher(
		f.registry,
		f.states,
		usecase.Upstreams{
			Payments:    f.payments,
			Blacklist:   f.blacklist,
			Descriptors: f.descriptors,
			Pinger:      f.pinger,
		},
		f.t,
		botUsername,
		newTestLogger(),
		false,
	)
	return f
}
