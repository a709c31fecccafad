package main

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Statistics holds app stats for ops.
type Statistics struct {
	version   string
	container bool
	runtime   string
	platform  string
	called    uint64
	started   time.Time
	status    map[int]uint64
	mu        *sync.RWMutex
}

// Maintenance holds app maintenance mode infos. The message and start
// time are written by the ops handler while the middleware reads them,
// so both sides hold the mutex.
type Maintenance struct {
	enabled atomic.Bool
	mu      sync.RWMutex
	message string
	started time.Time
}

// APIHandler defines the web handler of the shop.
type APIHandler struct {
	logger      *zap.Logger
	config      *Config
	stats       *Statistics
	mode        *Maintenance
	clock       Clocker
	idsHandler  UIDHandler
	render      *Renderer
	bookService BookServiceProvider
}

// NewAPIHandler provides a new instance of APIHandler.
func NewAPIHandler(logger *zap.Logger, config *Config, stats *Statistics, clock Clocker, ids UIDHandler, render *Renderer, bs BookServiceProvider) *APIHandler {
	m := &Maintenance{}
	m.enabled.Store(false)
	stats.status = make(map[int]uint64)
	stats.mu = &sync.RWMutex{}
	return &APIHandler{
		logger:      logger,
		config:      config,
		stats:       stats,
		mode:        m,
		clock:       clock,
		idsHandler:  ids,
		render:      render,
		bookService: bs,
	}
}

// NotFoundPage answers with the rendered 404 page.
func (api *APIHandler) NotFoundPage(w http.ResponseWriter, r *http.Request, detail string) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	data := &ErrorPageData{Status: http.StatusNotFound, Title: "Not Found", Detail: detail}
	if err := api.render.ErrorPage(w, http.StatusNotFound, data); err != nil {
		api.logger.Error("failed to render not found page", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ServerErrorPage answers with the rendered 500 page.
func (api *APIHandler) ServerErrorPage(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	data := &ErrorPageData{
		Status: http.StatusInternalServerError,
		Title:  "Something went wrong",
		Detail: "The request could not be processed. Please try again later.",
	}
	if err := api.render.ErrorPage(w, http.StatusInternalServerError, data); err != nil {
		api.logger.Error("failed to render server error page", zap.String("request.id", requestID), zap.Error(err))
	}
}
