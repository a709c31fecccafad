package main

import (
	"context"
	"net"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startRedisDockerContainer(t *testing.T) (string, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Failed to start Dockertest: %+v", err)
	}

	err = pool.Client.Ping()
	if err != nil {
		t.Fatalf("Could not connect to Docker: %+v", err)
	}

	resource, err := pool.Run("redis", "7.0.10-alpine", nil)
	if err != nil {
		t.Fatalf("Failed to start redis: %+v", err)
	}

	// build address the container is listening on
	addr := net.JoinHostPort("localhost", resource.GetPort("6379/tcp"))

	// ensure to wait for the container to be ready
	err = pool.Retry(func() error {
		var e error
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()

		e = client.Ping(context.Background()).Err()
		return e
	})

	if err != nil {
		t.Fatalf("Failed to ping Redis: %+v", err)
	}

	destroyFunc := func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Failed to purge resource: %+v", err)
		}
	}

	return addr, destroyFunc
}

// TestRedisStore exercises the full record store contract on the redis backend.
func TestRedisStore(t *testing.T) {
	addr, destroyFunc := startRedisDockerContainer(t)
	defer destroyFunc()
	rs := NewRedisBookStorage(zap.NewNop(), redis.NewClient(&redis.Options{Addr: addr}))
	ctx := context.Background()

	t.Run("create assigns ascending ids and keeps fields", func(t *testing.T) {
		first, err := rs.Create(ctx, BookFields{Name: "Django Basics", Edition: 1, Price: "29.99"})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), first.ID)

		second, err := rs.Create(ctx, BookFields{Name: "Python Guide", Edition: 3, Price: "45.50"})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), second.ID)

		got, err := rs.GetOne(ctx, first.ID)
		assert.NoError(t, err)
		assert.Equal(t, first, got)
	})

	t.Run("get unknown id fails", func(t *testing.T) {
		_, err := rs.GetOne(ctx, 999)
		assert.Equal(t, ErrBookNotFound, err)
	})

	t.Run("listing is ordered by id and filterable", func(t *testing.T) {
		third, err := rs.Create(ctx, BookFields{Name: "Go in Action", Edition: 2, Price: "39.00"})
		assert.NoError(t, err)
		assert.Equal(t, int64(3), third.ID)

		books, err := rs.GetAll(ctx, "")
		assert.NoError(t, err)
		require.Len(t, books, 3)
		assert.Equal(t, []int64{1, 2, 3}, []int64{books[0].ID, books[1].ID, books[2].ID})

		books, err = rs.GetAll(ctx, "DJANGO")
		assert.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Django Basics", books[0].Name)
	})

	t.Run("update overwrites existing record only", func(t *testing.T) {
		updated, err := rs.Update(ctx, 1, BookFields{Name: "Django Basics", Edition: 2, Price: "19.99"})
		assert.NoError(t, err)
		assert.Equal(t, "19.99", updated.Price)

		got, err := rs.GetOne(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, "19.99", got.Price)

		_, err = rs.Update(ctx, 999, BookFields{Name: "Ghost", Edition: 1, Price: "1.00"})
		assert.Equal(t, ErrBookNotFound, err)
	})

	t.Run("delete removes the record, second delete fails", func(t *testing.T) {
		err := rs.Delete(ctx, 2)
		assert.NoError(t, err)

		err = rs.Delete(ctx, 2)
		assert.Equal(t, ErrBookNotFound, err)

		books, err := rs.GetAll(ctx, "")
		assert.NoError(t, err)
		assert.Len(t, books, 2)
	})

	t.Run("deleted id is never reused", func(t *testing.T) {
		book, err := rs.Create(ctx, BookFields{Name: "Clean Architecture", Edition: 1, Price: "31.25"})
		assert.NoError(t, err)
		assert.Equal(t, int64(4), book.ID)
	})
}

// TestRedisQueue ensures mutation events round-trip through the redis lists.
func TestRedisQueue(t *testing.T) {
	addr, destroyFunc := startRedisDockerContainer(t)
	defer destroyFunc()
	q := NewRedisQueue(redis.NewClient(&redis.Options{Addr: addr}))
	ctx := context.Background()

	book := Book{ID: 5, Name: "Queued", Edition: 1, Price: "12.00"}
	require.NoError(t, q.Push(ctx, CreateQueue, book))

	qid, got, err := q.Pop(ctx, CreateQueue, UpdateQueue, DeleteQueue)
	assert.NoError(t, err)
	assert.Equal(t, CreateQueue, qid)
	assert.Equal(t, book, got)
}
