// Package chi exposes the HTTP API: hybrid product search, the backfill
// trigger, health and metrics.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodsearch/internal/domain"
	"github.com/kailas-cloud/prodsearch/internal/metrics"
	backfilluc "github.com/kailas-cloud/prodsearch/internal/usecase/backfill"
	healthuc "github.com/kailas-cloud/prodsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/prodsearch/internal/usecase/search"
)

// ErrorResponse is the JSON error body for all endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned to clients.
const (
	CodeBadRequest           = "bad_request"
	CodeInvalidQuery         = "invalid_query"
	CodeUpstreamFailure      = "upstream_failure"
	CodeEmbeddingUnavailable = "embedding_unavailable"
	CodeRateLimited          = "rate_limited"
	CodeInternalError        = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// ProductUpserter seeds product rows. Used by the admin endpoint.
type ProductUpserter interface {
	UpsertProduct(ctx context.Context, externalID, name string) error
}

// Server wires the usecase services into HTTP handlers.
type Server struct {
	search        *searchuc.Service
	backfill      *backfilluc.Service
	health        *healthuc.Service
	products      ProductUpserter
	backfillBatch int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	backfill *backfilluc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:        search,
		backfill:      backfill,
		health:        health,
		backfillBatch: backfilluc.DefaultBatchSize,
		logger:        logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusBadGateway, CodeEmbeddingUnavailable),
		sentinelHandler(domain.ErrUpstreamFailure, http.StatusBadGateway, CodeUpstreamFailure),
		sentinelHandler(domain.ErrStoreFailure, http.StatusBadGateway, CodeUpstreamFailure),
	}
	return s
}

// WithProductUpserter enables the PUT /products seeding endpoint.
func (s *Server) WithProductUpserter(p ProductUpserter) *Server {
	s.products = p
	return s
}

// WithBackfillBatchSize configures the batch size used by the trigger endpoint
// when the request does not specify one.
func (s *Server) WithBackfillBatchSize(size int) *Server {
	if size > 0 {
		s.backfillBatch = size
	}
	return s
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search-products", s.SearchProducts)
	r.Post("/backfill", s.TriggerBackfill)
	if s.products != nil {
		r.Put("/products", s.UpsertProduct)
	}
	r.Get("/healthz", s.Healthz)
	r.Get("/metrics", s.Metrics)
}

// SearchRequest is the body of POST /search-products.
type SearchRequest struct {
	QueryText string `json:"query_text"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	IDs []string `json:"ids"`
}

// SearchProducts handles POST /search-products.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ids, err := s.search.Search(r.Context(), req.QueryText)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			metrics.SearchRequestsTotal.WithLabelValues("invalid").Inc()
		} else {
			metrics.SearchRequestsTotal.WithLabelValues("upstream_error").Inc()
		}
		s.handleDomainError(w, err)
		return
	}

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchResultsReturned.Observe(float64(len(ids)))

	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{IDs: ids})
}

// BackfillRequest is the optional body of POST /backfill.
type BackfillRequest struct {
	BatchSize int `json:"batch_size"`
}

// BackfillResponse acknowledges a started run.
type BackfillResponse struct {
	Status    string `json:"status"`
	BatchSize int    `json:"batch_size"`
}

// TriggerBackfill handles POST /backfill. The run is spawned detached from
// the request: its context does not end when the caller disconnects, and its
// outcome is reported through logs and metrics, not the response.
func (s *Server) TriggerBackfill(w http.ResponseWriter, r *http.Request) {
	var req BackfillRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = s.backfillBatch
	}

	go func() {
		progress, err := s.backfill.Run(context.Background(), batchSize)
		if err != nil {
			s.logger.Error("backfill run failed",
				zap.Int("total_updated", progress.TotalUpdated),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("backfill run finished",
			zap.Int("batch_size", progress.BatchSize),
			zap.Int("total_updated", progress.TotalUpdated),
		)
	}()

	writeJSON(w, http.StatusAccepted, BackfillResponse{Status: "started", BatchSize: batchSize})
}

// UpsertRequest is the body of PUT /products.
type UpsertRequest struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
}

// UpsertProduct handles PUT /products. Seeds or renames a product row.
// A rename clears the stored embedding so the next backfill recomputes it.
func (s *Server) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.ExternalID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "external_id and name are required")
		return
	}

	if err := s.products.UpsertProduct(r.Context(), req.ExternalID, req.Name); err != nil {
		s.handleDomainError(w, fmt.Errorf("%w: %w", domain.ErrStoreFailure, err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Healthz handles GET /healthz.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrRateLimited,
		domain.ErrEmbeddingUnavailable,
		domain.ErrUpstreamFailure,
		domain.ErrStoreFailure,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
