package rest

import (
	"strings"
	"time"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
	"github.com/heartmarshall/gearcatalog-backend/internal/service/catalog"
)

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

type extractRequest struct {
	Message       string `json:"message"`
	Radius        *int   `json:"radius,omitempty"`
	MaxCandidates *int   `json:"max_candidates,omitempty"`
}

func (r extractRequest) validate() error {
	var v domain.ValidationError

	if len(r.Message) > maxExtractMessageLen {
		v.Add("message", "too long (max 4000)")
	}
	if r.Radius != nil && (*r.Radius < 1 || *r.Radius > maxExtractRadius) {
		v.Add("radius", "must be in 1..10")
	}
	if r.MaxCandidates != nil && (*r.MaxCandidates < 1 || *r.MaxCandidates > maxExtractCandidates) {
		v.Add("max_candidates", "must be in 1..50")
	}

	return v.Err()
}

type resolveRequest struct {
	Message  string  `json:"message"`
	PageSize int     `json:"page_size,omitempty"`
	Brand    *string `json:"brand,omitempty"`
	Mount    *string `json:"mount,omitempty"`
	GearType *string `json:"gear_type,omitempty"`
	PriceMin *int64  `json:"price_min,omitempty"`
	PriceMax *int64  `json:"price_max,omitempty"`
}

func (r resolveRequest) toInput() (catalog.ResolveInput, error) {
	input := catalog.ResolveInput{
		Message:  r.Message,
		PageSize: r.PageSize,
		Filters: catalog.Filters{
			Brand:    r.Brand,
			Mount:    r.Mount,
			PriceMin: r.PriceMin,
			PriceMax: r.PriceMax,
		},
	}
	if r.GearType != nil && *r.GearType != "" {
		g := domain.GearType(strings.ToUpper(*r.GearType))
		input.Filters.GearType = &g
	}
	if err := input.Validate(); err != nil {
		return catalog.ResolveInput{}, err
	}
	return input, nil
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

type itemResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Brand        *string  `json:"brand"`
	Mount        *string  `json:"mount"`
	GearType     string   `json:"gear_type"`
	PriceCents   *int64   `json:"price_cents"`
	ThumbnailURL *string  `json:"thumbnail_url"`
	ReleaseDate  *string  `json:"release_date"`
	Relevance    *float64 `json:"relevance,omitempty"`
}

type searchResponse struct {
	Results    []itemResponse `json:"results"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

type candidateResponse struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

type extractResponse struct {
	Candidates []candidateResponse `json:"candidates"`
	Top        *string             `json:"top"`
}

type resolveResponse struct {
	Query  *string        `json:"query"`
	Search searchResponse `json:"search"`
}

func toSearchResponse(result *catalog.SearchResult) searchResponse {
	resp := searchResponse{
		Results:    make([]itemResponse, 0, len(result.Items)),
		Total:      result.Total,
		TotalPages: result.TotalPages,
		Page:       result.Page,
		PageSize:   result.PageSize,
	}
	for i := range result.Items {
		resp.Results = append(resp.Results, toItemResponse(&result.Items[i]))
	}
	return resp
}

func toItemResponse(item *domain.CatalogItem) itemResponse {
	resp := itemResponse{
		ID:           item.ID.String(),
		Name:         item.Name,
		Slug:         item.Slug,
		Brand:        item.BrandName,
		Mount:        item.MountValue,
		GearType:     item.GearType.String(),
		PriceCents:   item.PriceCents,
		ThumbnailURL: item.ThumbnailURL,
		Relevance:    item.Relevance,
	}
	if item.ReleaseDate != nil {
		d := item.ReleaseDate.Format(time.DateOnly)
		resp.ReleaseDate = &d
	}
	return resp
}
