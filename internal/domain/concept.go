package domain

import "time"

// Concept is a priceable line-item template from the CPU catalog.
type Concept struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	Category    string `json:"category,omitempty" gorm:"index"`
	Unit        string `json:"unit,omitempty"`

	Price float64 `json:"price"`

	Brand   string `json:"brand,omitempty"`
	Model   string `json:"model,omitempty"`
	SATCode string `json:"sat_code,omitempty" gorm:"column:sat_code"`

	WarrantyMonths int    `json:"warranty_months,omitempty"`
	ExecutionTime  string `json:"execution_time,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	SpecSheetURL   string `json:"spec_sheet_url,omitempty"`

	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Concept) TableName() string { return "concepts" }

// ConceptCategory is the lookup table behind the category dropdown.
type ConceptCategory struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (ConceptCategory) TableName() string { return "concept_categories" }

// PriceHistory is an append-only log of concept price changes.
type PriceHistory struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	ConceptID int64     `json:"concept_id" gorm:"not null;index"`
	OldPrice  float64   `json:"old_price"`
	NewPrice  float64   `json:"new_price"`
	ChangedBy int64     `json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (PriceHistory) TableName() string { return "concept_price_history" }

// PriceOverride is a per-collaborator price for a concept. When present it
// replaces the catalog price for that collaborator's quotations.
type PriceOverride struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	ConceptID      int64     `json:"concept_id" gorm:"not null;uniqueIndex:idx_override_concept_collab"`
	CollaboratorID int64     `json:"collaborator_id" gorm:"not null;uniqueIndex:idx_override_concept_collab"`
	Price          float64   `json:"price"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (PriceOverride) TableName() string { return "concept_price_overrides" }
