package main

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// MiddlewareFunc is a custom type for ease of use.
type MiddlewareFunc func(httprouter.Handle) httprouter.Handle

// Middlewares is a custom type to represent a stack of
// middleware functions used to build a single chain.
type Middlewares []MiddlewareFunc

// pageResponseWriter records the status code and body size of a response
// for the access log and the per-status counters.
type pageResponseWriter struct {
	http.ResponseWriter
	code  int
	bytes int
	wrote bool
}

func newPageResponseWriter(w http.ResponseWriter) *pageResponseWriter {
	return &pageResponseWriter{ResponseWriter: w, code: http.StatusOK}
}

func (pw *pageResponseWriter) WriteHeader(code int) {
	if !pw.wrote {
		pw.code = code
		pw.wrote = true
		pw.ResponseWriter.WriteHeader(code)
	}
}

func (pw *pageResponseWriter) Write(b []byte) (int, error) {
	if !pw.wrote {
		pw.WriteHeader(pw.code)
	}
	n, err := pw.ResponseWriter.Write(b)
	pw.bytes += n
	return n, err
}

// CoreMiddleware measures each request, records the response status into
// the stats and emits the access logs.
func (api *APIHandler) CoreMiddleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		requestID := GetValueFromContext(r.Context(), ContextRequestID)

		api.logger.Info(
			"request",
			zap.String("request.id", requestID),
			zap.String("request.method", r.Method),
			zap.String("request.path", r.URL.Path),
			zap.String("request.ip", GetRequestSourceIP(r)),
			zap.String("request.agent", r.UserAgent()),
			zap.String("request.referer", r.Referer()),
		)

		pw := newPageResponseWriter(w)
		next(pw, r, ps)

		api.stats.mu.Lock()
		api.stats.status[pw.code]++
		api.stats.mu.Unlock()

		api.logger.Info(
			"request",
			zap.String("request.id", requestID),
			zap.String("request.method", r.Method),
			zap.String("request.path", r.URL.Path),
			zap.Int("response.status", pw.code),
			zap.Int("response.bytes", pw.bytes),
			zap.Duration("request.duration", time.Since(start)),
		)
	}
}

// RequestsCounterMiddleware increments the number of received requests statistics and add this
// new value to the request context to be used during logging as `request.num` field.
func (api *APIHandler) RequestsCounterMiddleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), ContextRequestNo, atomic.AddUint64(&api.stats.called, 1))
		r = r.WithContext(ctx)
		next(w, r, ps)
	}
}

// RequestIDMiddleware generates and add a unique id to the request context.
func (api *APIHandler) RequestIDMiddleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		requestID := api.idsHandler.Generate(RequestIDPrefix)
		ctx := context.WithValue(r.Context(), ContextRequestID, requestID)
		r = r.WithContext(ctx)
		next(w, r, ps)
	}
}

// MaintenanceModeMiddleware short-circuits public requests with the
// maintenance page while the mode is enabled.
func (api *APIHandler) MaintenanceModeMiddleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if api.mode.enabled.Load() {
			requestID := GetValueFromContext(r.Context(), ContextRequestID)
			api.mode.mu.RLock()
			detail := api.mode.message
			api.mode.mu.RUnlock()
			if detail == "" {
				detail = "The bookshop is under maintenance. Please come back later."
			}
			data := &ErrorPageData{Status: http.StatusServiceUnavailable, Title: "Under Maintenance", Detail: detail}
			if err := api.render.ErrorPage(w, http.StatusServiceUnavailable, data); err != nil {
				api.logger.Error("failed to render maintenance page", zap.String("request.id", requestID), zap.Error(err))
			}
			return
		}
		next(w, r, ps)
	}
}

// PanicRecoveryMiddleware catches any panic during the request lifecycle and produces
// an error log for further analysis. It sends the rendered 500 page to the client.
func (api *APIHandler) PanicRecoveryMiddleware(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		recovery := func() {
			if err := recover(); err != nil {
				requestID := GetValueFromContext(r.Context(), ContextRequestID)
				api.logger.Error("panic occurred", zap.String("request.id", requestID), zap.Any("error", err))
				api.ServerErrorPage(w, r)
			}
		}
		defer recovery()
		next(w, r, ps)
	}
}

// MiddlewaresStacks builds the middlewares stacks applied to the
// public-facing routes and to the internal ops routes.
func (api *APIHandler) MiddlewaresStacks() (*Middlewares, *Middlewares) {
	public := Middlewares{
		api.PanicRecoveryMiddleware,
		api.RequestsCounterMiddleware,
		api.RequestIDMiddleware,
		api.MaintenanceModeMiddleware,
		api.CoreMiddleware,
	}
	ops := Middlewares{
		api.PanicRecoveryMiddleware,
		api.RequestsCounterMiddleware,
		api.RequestIDMiddleware,
		api.CoreMiddleware,
	}
	return &public, &ops
}

// Chain wraps a given httprouter.Handle with a list of middlewares.
// It does by starting from the last middleware from the list.
func (m *Middlewares) Chain(h httprouter.Handle) httprouter.Handle {
	if len(*m) == 0 {
		return h
	}
	lg := len(*m)
	handle := (*m)[lg-1](h)

	for i := lg - 2; i >= 0; i-- {
		handle = (*m)[i](handle)
	}

	return handle
}
