// Package catalogfile reads gear catalogs from YAML files.
//
// A catalog file lists brands and items:
//
//	brands:
//	  - name: Nikon
//	items:
//	  - name: Nikon Z6 III
//	    brand: Nikon
//	    aliases: [Z6III, Z6 Mark III]
//	    mount: Nikon Z
//	    gear_type: CAMERA
//	    price_cents: 249995
//	    release_date: 2024-06-17
//
// Slugs default to the slugified name. search_name defaults to the name
// followed by the aliases. Brands referenced by items but not listed are
// added.
package catalogfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
	"github.com/heartmarshall/gearcatalog-backend/internal/service/extractor"
)

const dateLayout = "2006-01-02"

// Catalog is the parsed content of a catalog file.
type Catalog struct {
	Brands []domain.Brand
	Items  []domain.CatalogItem
}

type rawCatalog struct {
	Brands []domain.Brand `yaml:"brands"`
	Items  []rawItem      `yaml:"items"`
}

type rawItem struct {
	Name         string   `yaml:"name"`
	Slug         string   `yaml:"slug"`
	Brand        string   `yaml:"brand"`
	Aliases      []string `yaml:"aliases"`
	SearchName   string   `yaml:"search_name"`
	Mount        string   `yaml:"mount"`
	GearType     string   `yaml:"gear_type"`
	PriceCents   *int64   `yaml:"price_cents"`
	ThumbnailURL string   `yaml:"thumbnail_url"`
	ReleaseDate  string   `yaml:"release_date"`
}

// Parse decodes and validates a catalog. All item errors are collected into
// one *domain.ValidationError.
func Parse(r io.Reader) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return &Catalog{Brands: []domain.Brand{}, Items: []domain.CatalogItem{}}, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	var errs []domain.FieldError
	brands := newBrandSet()
	for i, b := range raw.Brands {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("brands[%d].name", i), Message: "required"})
			continue
		}
		brands.add(name, b.Slug)
	}

	items := make([]domain.CatalogItem, 0, len(raw.Items))
	slugs := make(map[string]int, len(raw.Items))
	for i, ri := range raw.Items {
		item, itemErrs := ri.toDomain(fmt.Sprintf("items[%d]", i))
		if len(itemErrs) > 0 {
			errs = append(errs, itemErrs...)
			continue
		}
		if prev, dup := slugs[item.Slug]; dup {
			errs = append(errs, domain.FieldError{
				Field:   fmt.Sprintf("items[%d].slug", i),
				Message: fmt.Sprintf("duplicates items[%d]", prev),
			})
			continue
		}
		slugs[item.Slug] = i

		if item.BrandName != nil {
			brands.add(*item.BrandName, "")
		}
		items = append(items, item)
	}

	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}
	return &Catalog{Brands: brands.list, Items: items}, nil
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

func (ri rawItem) toDomain(field string) (domain.CatalogItem, []domain.FieldError) {
	var errs []domain.FieldError

	item := domain.CatalogItem{
		Name:     strings.TrimSpace(ri.Name),
		Slug:     strings.TrimSpace(ri.Slug),
		GearType: domain.GearType(strings.ToUpper(strings.TrimSpace(ri.GearType))),
	}

	if item.Name == "" {
		errs = append(errs, domain.FieldError{Field: field + ".name", Message: "required"})
	}
	if !item.GearType.IsValid() {
		errs = append(errs, domain.FieldError{Field: field + ".gear_type", Message: "invalid value"})
	}
	if ri.PriceCents != nil && *ri.PriceCents < 0 {
		errs = append(errs, domain.FieldError{Field: field + ".price_cents", Message: "must not be negative"})
	}
	if ri.ReleaseDate != "" {
		d, err := time.Parse(dateLayout, ri.ReleaseDate)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: field + ".release_date", Message: "must be YYYY-MM-DD"})
		} else {
			item.ReleaseDate = &d
		}
	}
	if len(errs) > 0 {
		return domain.CatalogItem{}, errs
	}

	if item.Slug == "" {
		item.Slug = extractor.Slugify(item.Name)
	}
	item.SearchName = strings.TrimSpace(ri.SearchName)
	if item.SearchName == "" {
		item.SearchName = searchName(item.Name, ri.Aliases)
	}
	item.BrandName = optional(ri.Brand)
	item.MountValue = optional(ri.Mount)
	item.ThumbnailURL = optional(ri.ThumbnailURL)
	item.PriceCents = ri.PriceCents

	return item, nil
}

// searchName joins the name and the aliases, skipping blank aliases.
func searchName(name string, aliases []string) string {
	parts := []string{name}
	for _, a := range aliases {
		if a = strings.TrimSpace(a); a != "" {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// brandSet keeps brands in first-seen order, unique by case-insensitive name.
type brandSet struct {
	seen map[string]struct{}
	list []domain.Brand
}

func newBrandSet() *brandSet {
	return &brandSet{seen: make(map[string]struct{}), list: []domain.Brand{}}
}

func (s *brandSet) add(name, slug string) {
	key := strings.ToLower(name)
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}

	if slug == "" {
		slug = extractor.Slugify(name)
	}
	s.list = append(s.list, domain.Brand{Name: name, Slug: slug})
}
