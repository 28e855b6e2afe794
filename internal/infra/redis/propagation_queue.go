package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-redis/redis/v8"

	"shop-billing-service/internal/domain"
	"shop-billing-service/internal/domain/ports/repository"
)

var _ repository.PropagationQueue = (*PropagationQueue)(nil)

const (
	queueKey  = "billing:order_propagation"
	parkedKey = "billing:order_propagation:parked"
)

// PropagationQueue is the operator-visible holding area for order updates
// that could not be applied after a payment completed. Backed by two Redis
// lists: the retry queue and a dead-letter list for exhausted tasks.
type PropagationQueue struct {
	cli *redis.Client
}

func NewPropagationQueue(c *Client) *PropagationQueue {
	return &PropagationQueue{cli: c.cli}
}

func (q *PropagationQueue) Enqueue(ctx context.Context, task repository.PropagationTask) error {
	b, err := json.Marshal(task)
	if err != nil {
		return domain.ErrInvalidArgument
	}
	if err := q.cli.LPush(ctx, queueKey, b).Err(); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (q *PropagationQueue) PopBatch(ctx context.Context, limit int) ([]repository.PropagationTask, error) {
	if limit <= 0 {
		limit = 50
	}
	out := make([]repository.PropagationTask, 0, limit)
	for i := 0; i < limit; i++ {
		raw, err := q.cli.RPop(ctx, queueKey).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return out, domain.ErrOperationFailed
		}
		var task repository.PropagationTask
		if err := json.Unmarshal([]byte(raw), &task); err != nil {
			// A corrupt entry is parked raw rather than lost.
			_ = q.cli.LPush(ctx, parkedKey, raw).Err()
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (q *PropagationQueue) Park(ctx context.Context, task repository.PropagationTask) error {
	b, err := json.Marshal(task)
	if err != nil {
		return domain.ErrInvalidArgument
	}
	if err := q.cli.LPush(ctx, parkedKey, b).Err(); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (q *PropagationQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.cli.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0, domain.ErrOperationFailed
	}
	return n, nil
}

func (q *PropagationQueue) ParkedLen(ctx context.Context) (int64, error) {
	n, err := q.cli.LLen(ctx, parkedKey).Result()
	if err != nil {
		return 0, domain.ErrOperationFailed
	}
	return n, nil
}
