package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Predefined queue IDs carrying successful mutations towards the mirror.
const (
	CreateQueue = "books:created"
	UpdateQueue = "books:updated"
	DeleteQueue = "books:deleted"
)

// Ensure implementations satisfy Queuer.
var (
	_ Queuer = (*redisQueue)(nil)
	_ Queuer = (*noopQueue)(nil)
)

// Queuer describes a queue of book mutation events.
type Queuer interface {
	Push(ctx context.Context, qid string, book Book) error
	Pop(ctx context.Context, qids ...string) (string, Book, error)
}

// redisQueue represents a queue which implements the Queuer interface.
type redisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) Queuer {
	return &redisQueue{client: client}
}

// Push enqueues a book onto the queue identified by qid.
func (q *redisQueue) Push(ctx context.Context, qid string, book Book) error {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, qid, bookBytes).Err()
}

// Pop returns the first dequeued book from the list of queue ids.
func (q *redisQueue) Pop(ctx context.Context, qids ...string) (string, Book, error) {
	var book Book
	var qid string
	infos, err := q.client.BLPop(ctx, 0*time.Second, qids...).Result()
	if err != nil {
		return qid, book, err
	}

	if err = json.Unmarshal([]byte(infos[1]), &book); err != nil {
		return qid, book, err
	}
	qid = infos[0]
	return qid, book, nil
}

// noopQueue discards mutation events. It stands in when the bolt backend
// is primary and there is no mirror to feed.
type noopQueue struct{}

func NewNoopQueue() Queuer {
	return &noopQueue{}
}

func (q *noopQueue) Push(_ context.Context, _ string, _ Book) error {
	return nil
}

func (q *noopQueue) Pop(_ context.Context, _ ...string) (string, Book, error) {
	return "", Book{}, errors.New("queue: pop called on noop queue")
}
