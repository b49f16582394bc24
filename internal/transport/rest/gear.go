package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
	"github.com/heartmarshall/gearcatalog-backend/internal/metrics"
	"github.com/heartmarshall/gearcatalog-backend/internal/service/catalog"
	"github.com/heartmarshall/gearcatalog-backend/internal/service/extractor"
)

const (
	maxExtractMessageLen = 4000
	maxExtractRadius     = 10
	maxExtractCandidates = 50
)

type catalogSearcher interface {
	Search(ctx context.Context, input catalog.SearchInput) (*catalog.SearchResult, error)
	Resolve(ctx context.Context, input catalog.ResolveInput) (*catalog.ResolveResult, error)
}

type candidateExtractor interface {
	ExtractScored(message string, opts ...extractor.Option) []extractor.Candidate
}

// GearHandler serves the gear search API.
type GearHandler struct {
	catalog   catalogSearcher
	extractor candidateExtractor
	timeout   time.Duration
	log       *slog.Logger
}

// NewGearHandler creates a GearHandler. A positive timeout bounds every
// catalog call.
func NewGearHandler(
	searcher catalogSearcher,
	ex candidateExtractor,
	timeout time.Duration,
	logger *slog.Logger,
) *GearHandler {
	return &GearHandler{
		catalog:   searcher,
		extractor: ex,
		timeout:   timeout,
		log:       logger.With("handler", "gear"),
	}
}

// Search handles GET /api/v1/gear/search.
func (h *GearHandler) Search(w http.ResponseWriter, r *http.Request) {
	input, err := parseSearchQuery(r)
	if err != nil {
		writeValidation(w, err)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	sort := input.Sort
	if sort == "" {
		sort = domain.SortRelevance
	}

	start := time.Now()
	result, err := h.catalog.Search(ctx, input)
	if !errors.Is(err, domain.ErrValidation) {
		metrics.ObserveSearch(sort.String(), time.Since(start), resultTotal(result), err)
	}
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(result))
}

// Extract handles POST /api/v1/gear/extract.
func (h *GearHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeValidation(w, err)
		return
	}

	var opts []extractor.Option
	if req.Radius != nil {
		opts = append(opts, extractor.WithRadius(*req.Radius))
	}
	if req.MaxCandidates != nil {
		opts = append(opts, extractor.WithMaxCandidates(*req.MaxCandidates))
	}

	scored := h.extractor.ExtractScored(req.Message, opts...)
	metrics.ObserveExtract(len(scored) > 0)

	resp := extractResponse{Candidates: make([]candidateResponse, 0, len(scored))}
	for _, c := range scored {
		resp.Candidates = append(resp.Candidates, candidateResponse{Text: c.Text, Score: c.Score})
	}
	if len(scored) > 0 {
		top := scored[0].Text
		resp.Top = &top
	}

	writeJSON(w, http.StatusOK, resp)
}

// Resolve handles POST /api/v1/gear/resolve.
func (h *GearHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeValidation(w, err)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	start := time.Now()
	result, err := h.catalog.Resolve(ctx, input)
	switch {
	case err == nil:
		metrics.ObserveExtract(result.Query != "")
		if result.Query != "" {
			metrics.ObserveSearch(domain.SortRelevance.String(), time.Since(start), result.Search.Total, nil)
		}
	case errors.Is(err, domain.ErrSearchFailed):
		metrics.ObserveExtract(true)
		metrics.ObserveSearch(domain.SortRelevance.String(), time.Since(start), 0, err)
	}
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := resolveResponse{Search: toSearchResponse(result.Search)}
	if result.Query != "" {
		q := result.Query
		resp.Query = &q
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GearHandler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

func (h *GearHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeValidation(w, err)
	case errors.Is(err, context.DeadlineExceeded):
		h.log.WarnContext(r.Context(), "search timed out", slog.String("error", err.Error()))
		writeError(w, http.StatusGatewayTimeout, "search timed out")
	case errors.Is(err, domain.ErrSearchFailed):
		writeError(w, http.StatusInternalServerError, "search failed")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func resultTotal(result *catalog.SearchResult) int {
	if result == nil {
		return 0
	}
	return result.Total
}

// ---------------------------------------------------------------------------
// Query parsing
// ---------------------------------------------------------------------------

// parseSearchQuery reads the search parameters from the URL. Unparsable
// numbers are reported together as field errors; range checks are left to
// the service.
func parseSearchQuery(r *http.Request) (catalog.SearchInput, error) {
	q := r.URL.Query()
	var errs []domain.FieldError

	intParam := func(name string) int {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: name, Message: "must be an integer"})
		}
		return n
	}
	priceParam := func(name string) *int64 {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: name, Message: "must be an integer"})
			return nil
		}
		return &n
	}
	strParam := func(name string) *string {
		v := strings.TrimSpace(q.Get(name))
		if v == "" {
			return nil
		}
		return &v
	}

	input := catalog.SearchInput{
		Query:    q.Get("q"),
		Sort:     domain.SortMode(strings.ToLower(strings.TrimSpace(q.Get("sort")))),
		Page:     intParam("page"),
		PageSize: intParam("page_size"),
		Filters: catalog.Filters{
			Brand:    strParam("brand"),
			Mount:    strParam("mount"),
			PriceMin: priceParam("price_min"),
			PriceMax: priceParam("price_max"),
		},
	}
	if gt := strParam("gear_type"); gt != nil {
		g := domain.GearType(strings.ToUpper(*gt))
		input.Filters.GearType = &g
	}

	if len(errs) > 0 {
		return catalog.SearchInput{}, domain.NewValidationErrors(errs)
	}
	return input, nil
}
