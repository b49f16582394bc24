package domain

import (
	"time"

	"github.com/google/uuid"
)

// GearType is the product category of a catalog item.
type GearType string

const (
	GearTypeCamera    GearType = "CAMERA"
	GearTypeLens      GearType = "LENS"
	GearTypeFlash     GearType = "FLASH"
	GearTypeTeleconv  GearType = "TELECONVERTER"
	GearTypeAdapter   GearType = "MOUNT_ADAPTER"
	GearTypeAccessory GearType = "ACCESSORY"
)

func (g GearType) String() string { return string(g) }

func (g GearType) IsValid() bool {
	switch g {
	case GearTypeCamera, GearTypeLens, GearTypeFlash, GearTypeTeleconv, GearTypeAdapter, GearTypeAccessory:
		return true
	}
	return false
}

// CatalogItem is a single product in the gear catalog.
// SearchName is the denormalized field all matching runs against: the
// display name with aliases and model numbers folded in.
type CatalogItem struct {
	ID           uuid.UUID
	Name         string
	Slug         string
	SearchName   string
	BrandName    *string
	MountValue   *string
	GearType     GearType
	PriceCents   *int64
	ThumbnailURL *string
	ReleaseDate  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Relevance is set only on search results ranked by relevance.
	Relevance *float64
}

// Brand returns the brand name or "" when the item has none.
func (i *CatalogItem) Brand() string {
	if i.BrandName == nil {
		return ""
	}
	return *i.BrandName
}

// Brand is one entry of the brand vocabulary.
type Brand struct {
	Name string `yaml:"name" json:"name"`
	Slug string `yaml:"slug" json:"slug"`
}
