package catalog

import (
	"math"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

const (
	maxQueryLen   = 500
	maxMessageLen = 4000

	// maxPrice is the largest whole-unit price whose cents fit in int64.
	maxPrice = math.MaxInt64 / 100
)

// Filters are the optional structured constraints of a search. Prices are
// in whole currency units.
type Filters struct {
	Brand    *string
	Mount    *string
	GearType *domain.GearType
	PriceMin *int64
	PriceMax *int64
}

// SearchInput holds the parameters of a catalog search.
type SearchInput struct {
	Query    string
	Sort     domain.SortMode // empty means relevance
	Page     int             // 1-based; 0 means the first page
	PageSize int             // 0 means the configured default
	Filters  Filters
}

// Validate checks all fields and collects all errors.
func (i *SearchInput) Validate() error {
	var v domain.ValidationError

	if len(i.Query) > maxQueryLen {
		v.Add("query", "too long (max 500)")
	}
	if i.Sort != "" && !i.Sort.IsValid() {
		v.Add("sort", "must be one of relevance, name, newest")
	}
	if i.Page < 0 {
		v.Add("page", "must be positive")
	}
	if i.PageSize < 0 {
		v.Add("page_size", "must be positive")
	}
	i.Filters.validate(&v)

	return v.Err()
}

func (f Filters) validate(v *domain.ValidationError) {
	if f.GearType != nil && !f.GearType.IsValid() {
		v.Add("gear_type", "invalid value")
	}
	validatePrice(v, "price_min", f.PriceMin)
	validatePrice(v, "price_max", f.PriceMax)
	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		v.Add("price_min", "must not exceed price_max")
	}
}

func validatePrice(v *domain.ValidationError, field string, price *int64) {
	switch {
	case price == nil:
	case *price < 0:
		v.Add(field, "must not be negative")
	case *price > maxPrice:
		v.Add(field, "too large")
	}
}

// toDomain converts whole-unit prices to cents.
func (f Filters) toDomain() domain.CatalogFilter {
	out := domain.CatalogFilter{
		Brand:    nonEmpty(f.Brand),
		Mount:    nonEmpty(f.Mount),
		GearType: f.GearType,
	}
	if f.PriceMin != nil {
		cents := *f.PriceMin * 100
		out.PriceMinCents = &cents
	}
	if f.PriceMax != nil {
		cents := *f.PriceMax * 100
		out.PriceMaxCents = &cents
	}
	return out
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// ResolveInput holds the parameters for resolving free text to catalog items.
type ResolveInput struct {
	Message  string
	PageSize int
	Filters  Filters
}

// Validate checks all fields and collects all errors.
func (i *ResolveInput) Validate() error {
	var v domain.ValidationError

	if len(i.Message) > maxMessageLen {
		v.Add("message", "too long (max 4000)")
	}
	if i.PageSize < 0 {
		v.Add("page_size", "must be positive")
	}
	i.Filters.validate(&v)

	return v.Err()
}
