package catalog

type CreateConceptRequest struct {
	Title       string  `json:"title" binding:"required" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Unit        string  `json:"unit"`
	Price       float64 `json:"price" validate:"gte=0"`

	Brand   string `json:"brand"`
	Model   string `json:"model"`
	SATCode string `json:"sat_code"`

	WarrantyMonths int    `json:"warranty_months" validate:"gte=0"`
	ExecutionTime  string `json:"execution_time"`
	ImageURL       string `json:"image_url"`
	SpecSheetURL   string `json:"spec_sheet_url"`
}

type UpdateConceptRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Unit        *string  `json:"unit"`
	Price       *float64 `json:"price"`

	Brand   *string `json:"brand"`
	Model   *string `json:"model"`
	SATCode *string `json:"sat_code"`

	WarrantyMonths *int    `json:"warranty_months"`
	ExecutionTime  *string `json:"execution_time"`
	ImageURL       *string `json:"image_url"`
	SpecSheetURL   *string `json:"spec_sheet_url"`
	IsActive       *bool   `json:"is_active"`
}

type BulkAdjustRequest struct {
	ConceptIDs []int64 `json:"concept_ids" binding:"required"`
	Percent    float64 `json:"percent"`
}

type BulkAdjustResult struct {
	Adjusted int `json:"adjusted"`
	Logged   int `json:"logged"`
}

type ImportResult struct {
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

type OverrideRequest struct {
	ConceptID      int64   `json:"concept_id" binding:"required"`
	CollaboratorID int64   `json:"collaborator_id" binding:"required"`
	Price          float64 `json:"price"`
}

type RenameCategoryRequest struct {
	OldName string `json:"old_name" binding:"required"`
	NewName string `json:"new_name" binding:"required"`
}
