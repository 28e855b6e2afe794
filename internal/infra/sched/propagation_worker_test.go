//go:build !integration

package sched

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"shop-billing-service/internal/domain"
	"shop-billing-service/internal/domain/model"
	"shop-billing-service/internal/domain/ports/repository"
)

type stubQueue struct {
	mu     sync.Mutex
	tasks  []repository.PropagationTask
	parked []repository.PropagationTask
}

func (q *stubQueue) Enqueue(ctx context.Context, task repository.PropagationTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *stubQueue) PopBatch(ctx context.Context, limit int) ([]repository.PropagationTask, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if limit > len(q.tasks) {
		limit = len(q.tasks)
	}
	out := append([]repository.PropagationTask(nil), q.tasks[:limit]...)
	q.tasks = q.tasks[limit:]
	return out, nil
}

func (q *stubQueue) Park(ctx context.Context, task repository.PropagationTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.parked = append(q.parked, task)
	return nil
}

func (q *stubQueue) Len(ctx context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.tasks)), nil
}

func (q *stubQueue) ParkedLen(ctx context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.parked)), nil
}

type stubOrders struct {
	markPaid func(orderID string) (bool, error)
	calls    int
}

func (o *stubOrders) MarkPaid(ctx context.Context, tx repository.Tx, orderID string) (bool, error) {
	o.calls++
	return o.markPaid(orderID)
}

func (o *stubOrders) GetStatus(ctx context.Context, tx repository.Tx, orderID string) (model.OrderStatus, error) {
	return model.OrderStatusUnpaid, nil
}

func (o *stubOrders) CountByStatus(ctx context.Context, tx repository.Tx, status model.OrderStatus) (int, error) {
	return 0, nil
}

func newWorker(queue *stubQueue, orders *stubOrders, maxAttempts int) *PropagationWorker {
	logger := zerolog.New(io.Discard)
	return NewPropagationWorker(queue, orders, nil, time.Second, maxAttempts, 10, &logger)
}

func task() repository.PropagationTask {
	return repository.PropagationTask{
		PaymentID:     "pay-1",
		TransactionID: "cp_abc",
		OrderID:       "O1",
		EnqueuedAt:    time.Now(),
	}
}

func TestProcess_SuccessDropsTask(t *testing.T) {
	ctx := context.Background()
	queue := &stubQueue{}
	orders := &stubOrders{markPaid: func(string) (bool, error) { return true, nil }}
	w := newWorker(queue, orders, 3)

	w.process(ctx, task())

	if len(queue.tasks) != 0 || len(queue.parked) != 0 {
		t.Errorf("successful task must leave the queue: tasks=%d parked=%d", len(queue.tasks), len(queue.parked))
	}
}

func TestProcess_AlreadyPaidIsSuccess(t *testing.T) {
	// MarkPaid returns (false, nil) when the order is already paid; that is a
	// resolved task, not a failure to retry.
	ctx := context.Background()
	queue := &stubQueue{}
	orders := &stubOrders{markPaid: func(string) (bool, error) { return false, nil }}
	w := newWorker(queue, orders, 3)

	w.process(ctx, task())

	if len(queue.tasks) != 0 || len(queue.parked) != 0 {
		t.Errorf("already-paid order must resolve the task: tasks=%d parked=%d", len(queue.tasks), len(queue.parked))
	}
}

func TestProcess_FailureRequeuesWithAttemptCount(t *testing.T) {
	ctx := context.Background()
	queue := &stubQueue{}
	orders := &stubOrders{markPaid: func(string) (bool, error) { return false, domain.ErrOperationFailed }}
	w := newWorker(queue, orders, 3)

	w.process(ctx, task())

	if len(queue.tasks) != 1 {
		t.Fatalf("failed task must be requeued, got %d tasks", len(queue.tasks))
	}
	if queue.tasks[0].Attempts != 1 {
		t.Errorf("attempt count not incremented: %d", queue.tasks[0].Attempts)
	}
	if len(queue.parked) != 0 {
		t.Error("task parked before exhausting attempts")
	}
}

func TestProcess_ExhaustedTaskIsParked(t *testing.T) {
	ctx := context.Background()
	queue := &stubQueue{}
	orders := &stubOrders{markPaid: func(string) (bool, error) { return false, domain.ErrOperationFailed }}
	w := newWorker(queue, orders, 3)

	tk := task()
	tk.Attempts = 2 // one failure away from the limit
	w.process(ctx, tk)

	if len(queue.parked) != 1 {
		t.Fatalf("exhausted task must be parked, got %d", len(queue.parked))
	}
	if queue.parked[0].Attempts != 3 {
		t.Errorf("parked task attempts: got %d, want 3", queue.parked[0].Attempts)
	}
	if len(queue.tasks) != 0 {
		t.Error("parked task must not also be requeued")
	}
}

func TestProcess_DrainToResolution(t *testing.T) {
	// A task that keeps failing moves through the queue until it lands on the
	// dead-letter list, never lost, never retried past the cap.
	ctx := context.Background()
	queue := &stubQueue{}
	orders := &stubOrders{markPaid: func(string) (bool, error) { return false, domain.ErrOperationFailed }}
	w := newWorker(queue, orders, 4)

	if err := queue.Enqueue(ctx, task()); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		batch, err := queue.PopBatch(ctx, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(batch) == 0 {
			break
		}
		for _, tk := range batch {
			w.process(ctx, tk)
		}
	}

	if orders.calls != 4 {
		t.Errorf("expected exactly maxAttempts order updates, got %d", orders.calls)
	}
	if len(queue.parked) != 1 || len(queue.tasks) != 0 {
		t.Errorf("task not parked after exhaustion: tasks=%d parked=%d", len(queue.tasks), len(queue.parked))
	}
}
