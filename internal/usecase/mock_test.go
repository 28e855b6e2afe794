//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"shop-billing-service/internal/domain"
	"shop-billing-service/internal/domain/model"
	"shop-billing-service/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// -----------------------------
// Mock PaymentRepository
// -----------------------------

type MockPaymentRepo struct {
	mu    sync.Mutex
	store map[string]*model.Payment // keyed by transaction id

	SaveFunc   func(ctx context.Context, tx repository.Tx, p *model.Payment) error
	UpdateFunc func(ctx context.Context, tx repository.Tx, transactionID string, status model.PaymentStatus, paidAt *time.Time) (bool, error)

	SaveCalls   int
	UpdateCalls int
}

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{store: make(map[string]*model.Payment)}
}

func (m *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.TransactionID] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByTransactionID(ctx context.Context, tx repository.Tx, transactionID string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[transactionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// UpdateStatusIfPending mirrors the conditional-update semantics of the real
// repo: only a row still in 'pending' transitions, and the caller learns
// whether it won the race via the boolean.
func (m *MockPaymentRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, transactionID string, status model.PaymentStatus, paidAt *time.Time) (bool, error) {
	m.mu.Lock()
	m.UpdateCalls++
	m.mu.Unlock()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, transactionID, status, paidAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[transactionID]
	if !ok || p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = status
	p.PaidAt = paidAt
	p.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Payment
	for _, p := range m.store {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPaymentRepo) SumCompletedByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, p := range m.store {
		if p.Status == model.PaymentStatusCompleted {
			sum += p.Amount.IntPart()
		}
	}
	return sum, nil
}

func (m *MockPaymentRepo) Get(transactionID string) *model.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store[transactionID]
}

// -----------------------------
// Mock OrderRepository
// -----------------------------

type MockOrderRepo struct {
	mu     sync.Mutex
	status map[string]model.OrderStatus

	MarkPaidFunc  func(ctx context.Context, tx repository.Tx, orderID string) (bool, error)
	MarkPaidCalls int
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{status: make(map[string]model.OrderStatus)}
}

func (m *MockOrderRepo) SetStatus(orderID string, s model.OrderStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status[orderID] = s
}

func (m *MockOrderRepo) MarkPaid(ctx context.Context, tx repository.Tx, orderID string) (bool, error) {
	m.mu.Lock()
	m.MarkPaidCalls++
	m.mu.Unlock()
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(ctx, tx, orderID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.status[orderID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if s == model.OrderStatusPaid {
		return false, nil
	}
	m.status[orderID] = model.OrderStatusPaid
	return true, nil
}

func (m *MockOrderRepo) GetStatus(ctx context.Context, tx repository.Tx, orderID string) (model.OrderStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.status[orderID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return s, nil
}

func (m *MockOrderRepo) CountByStatus(ctx context.Context, tx repository.Tx, status model.OrderStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.status {
		if s == status {
			n++
		}
	}
	return n, nil
}

// -----------------------------
// Mock PropagationQueue
// -----------------------------

type MockPropagationQueue struct {
	mu     sync.Mutex
	Tasks  []repository.PropagationTask
	Parked []repository.PropagationTask

	EnqueueErr error
}

func NewMockPropagationQueue() *MockPropagationQueue {
	return &MockPropagationQueue{}
}

func (m *MockPropagationQueue) Enqueue(ctx context.Context, task repository.PropagationTask) error {
	if m.EnqueueErr != nil {
		return m.EnqueueErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks = append(m.Tasks, task)
	return nil
}

func (m *MockPropagationQueue) PopBatch(ctx context.Context, limit int) ([]repository.PropagationTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.Tasks) {
		limit = len(m.Tasks)
	}
	out := append([]repository.PropagationTask(nil), m.Tasks[:limit]...)
	m.Tasks = m.Tasks[limit:]
	return out, nil
}

func (m *MockPropagationQueue) Park(ctx context.Context, task repository.PropagationTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Parked = append(m.Parked, task)
	return nil
}

func (m *MockPropagationQueue) Len(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.Tasks)), nil
}

func (m *MockPropagationQueue) ParkedLen(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.Parked)), nil
}

// -----------------------------
// Mock SubscriptionRepository
// -----------------------------

type MockSubscriptionRepo struct {
	mu    sync.Mutex
	store map[string]*model.Subscription

	SaveFunc func(ctx context.Context, tx repository.Tx, s *model.Subscription) error
}

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{store: make(map[string]*model.Subscription)}
}

func (m *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *MockSubscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepo) CountActive(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.store {
		if s.Status == model.SubscriptionStatusActive {
			n++
		}
	}
	return n, nil
}

// -----------------------------
// Mock PaymentGateway
// -----------------------------

type MockPaymentGateway struct {
	CheckoutURLFunc func(ctx context.Context, transactionID string, amount decimal.Decimal, currency string) (string, error)
}

func (m *MockPaymentGateway) Name() string { return "testpay" }

func (m *MockPaymentGateway) CheckoutURL(ctx context.Context, transactionID string, amount decimal.Decimal, currency string) (string, error) {
	if m.CheckoutURLFunc != nil {
		return m.CheckoutURLFunc(ctx, transactionID, amount, currency)
	}
	return "https://pay.test/checkout?transaction_id=" + transactionID, nil
}

func (m *MockPaymentGateway) DecodeWebhook(body []byte) (*model.GatewayEvent, error) {
	return nil, domain.ErrValidation
}

func (m *MockPaymentGateway) VerifySignature(signature string, body []byte) bool { return true }
