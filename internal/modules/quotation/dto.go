package quotation

import (
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/pkg/paylink"
)

// TabPayload is one builder tab at submission time. TempID is the
// client-generated identifier items and links refer to; the server resolves
// it to the real row ID on insert.
type TabPayload struct {
	TempID   string         `json:"temp_id" binding:"required"`
	Section  domain.Section `json:"section" binding:"required"`
	Label    string         `json:"label" binding:"required"`
	Position int            `json:"position"`
}

type ItemPayload struct {
	TempTabID string         `json:"temp_tab_id"`
	ConceptID *int64         `json:"concept_id,omitempty"`
	Section   domain.Section `json:"section" binding:"required"`
	Quantity  int            `json:"quantity" binding:"required,min=1"`
	UnitPrice float64        `json:"unit_price"`

	CustomTitle       string `json:"custom_title,omitempty"`
	CustomDescription string `json:"custom_description,omitempty"`
	CustomFormat      string `json:"custom_format,omitempty"`
	IsCustom          bool   `json:"is_custom"`
}

type LinkPayload struct {
	SourceTempID string `json:"source_temp_id" binding:"required"`
	TargetTempID string `json:"target_temp_id" binding:"required"`
}

// CreateQuotationRequest carries the whole builder state in one submit.
// Subtotal/tax/total come from the builder and are stored as supplied.
type CreateQuotationRequest struct {
	Title    string `json:"title" binding:"required"`
	ClientID int64  `json:"client_id" binding:"required"`

	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`

	Notes      string     `json:"notes"`
	ValidUntil *time.Time `json:"valid_until"`

	ServiceTypeID *int64 `json:"service_type_id"`
	TemplateID    *int64 `json:"template_id"`

	Terms       string             `json:"terms"`
	Privacy     string             `json:"privacy"`
	PaymentType domain.PaymentType `json:"payment_type"`

	Tabs  []TabPayload  `json:"tabs"`
	Items []ItemPayload `json:"items"`
	Links []LinkPayload `json:"links"`
}

// PublishResult reports the publish outcome including the best-effort
// paylink status so the UI can offer a retry.
type PublishResult struct {
	Quotation *domain.Quotation `json:"quotation"`
	PublicURL string            `json:"public_url"`
	Paylink   paylink.Result    `json:"paylink"`
}

// PublicView is the read-only render of a published quotation.
type PublicView struct {
	Quotation *domain.Quotation `json:"quotation"`

	// Paying by card goes through the hosted link; paying by transfer
	// skips the card-processing fee, so the fallback amount is lower.
	PaymentURL    string  `json:"payment_url,omitempty"`
	TransferTotal float64 `json:"transfer_total"`
}
