package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestPanicRecoveryMiddleware ensures a handler panic turns into the 500 page.
func TestPanicRecoveryMiddleware(t *testing.T) {
	api := newTestAPIHandler(t, &MockBookStorage{})
	panicking := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		panic("boom")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	api.PanicRecoveryMiddleware(panicking)(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "text/html; charset=UTF-8", res.Header.Get("Content-Type"))
}

// TestRequestsCounterMiddleware ensures each request bumps the counter.
func TestRequestsCounterMiddleware(t *testing.T) {
	api := newTestAPIHandler(t, &MockBookStorage{})
	noop := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {}

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		api.RequestsCounterMiddleware(noop)(httptest.NewRecorder(), req, httprouter.Params{})
	}
	assert.Equal(t, uint64(3), atomic.LoadUint64(&api.stats.called))
}

// TestRequestIDMiddleware ensures a valid unique id lands in the context.
func TestRequestIDMiddleware(t *testing.T) {
	api := newTestAPIHandler(t, &MockBookStorage{})
	var seen string
	capture := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		seen = GetValueFromContext(r.Context(), ContextRequestID)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	api.RequestIDMiddleware(capture)(httptest.NewRecorder(), req, httprouter.Params{})
	assert.NotEmpty(t, seen)
	assert.True(t, NewIDsHandler().IsValid(seen, RequestIDPrefix))
}

// TestCoreMiddlewareRecordsStatus ensures response codes feed the stats.
func TestCoreMiddlewareRecordsStatus(t *testing.T) {
	api := newTestAPIHandler(t, &MockBookStorage{})
	notFound := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNotFound)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	api.CoreMiddleware(notFound)(httptest.NewRecorder(), req, httprouter.Params{})

	api.stats.mu.RLock()
	defer api.stats.mu.RUnlock()
	assert.Equal(t, uint64(1), api.stats.status[http.StatusNotFound])
}

// TestMaintenanceModeConcurrentToggle ensures the maintenance message and
// start time can be toggled by the ops handler while public requests are
// being served. Meant to run under the race detector.
func TestMaintenanceModeConcurrentToggle(t *testing.T) {
	api := newTestAPIHandler(t, &MockBookStorage{})
	noop := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				req := httptest.NewRequest(http.MethodGet, "/ops/maintenance?status=enable&msg=upgrading+the+shelves", nil)
				api.Maintenance(httptest.NewRecorder(), req, httprouter.Params{})
				req = httptest.NewRequest(http.MethodGet, "/ops/maintenance?status=disable", nil)
				api.Maintenance(httptest.NewRecorder(), req, httprouter.Params{})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				api.MaintenanceModeMiddleware(noop)(httptest.NewRecorder(), req, httprouter.Params{})
				req = httptest.NewRequest(http.MethodGet, "/ops/stats", nil)
				api.GetStatistics(httptest.NewRecorder(), req, httprouter.Params{})
			}
		}()
	}
	wg.Wait()
}

// TestBoltDBConsumer ensures queued mutations converge into the bolt mirror.
func TestBoltDBConsumer(t *testing.T) {
	mirror := newTestBoltStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int
	queue := &MockQueue{
		PopFunc: func(ctx context.Context, qids ...string) (string, Book, error) {
			calls++
			switch calls {
			case 1:
				return CreateQueue, Book{ID: 1, Name: "Django Basics", Edition: 1, Price: "29.99"}, nil
			case 2:
				return UpdateQueue, Book{ID: 1, Name: "Django Basics", Edition: 2, Price: "19.99"}, nil
			case 3:
				return CreateQueue, Book{ID: 2, Name: "Python Guide", Edition: 3, Price: "45.50"}, nil
			case 4:
				return DeleteQueue, Book{ID: 2}, nil
			default:
				cancel()
				return "", Book{}, context.Canceled
			}
		},
	}

	consumer := NewBoltDBConsumer(zap.NewNop(), queue, mirror)
	done := make(chan error, 1)
	go func() { done <- consumer.Consume(ctx, CreateQueue, UpdateQueue, DeleteQueue) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop on context cancellation")
	}

	book, err := mirror.GetOne(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, "19.99", book.Price)
	assert.Equal(t, 2, book.Edition)

	_, err = mirror.GetOne(context.Background(), 2)
	assert.Equal(t, ErrBookNotFound, err)
}
