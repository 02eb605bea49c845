package domain

import "time"

type QuotationStatus string

const (
	QuotationDraft    QuotationStatus = "draft"
	QuotationSent     QuotationStatus = "sent"
	QuotationAccepted QuotationStatus = "accepted"
	QuotationRejected QuotationStatus = "rejected"
	QuotationExpired  QuotationStatus = "expired"
)

type PaymentType string

const (
	PaymentOneTime   PaymentType = "one_time"
	PaymentRecurring PaymentType = "recurring"
)

// Section identifies one of the three fixed quotation sections.
type Section string

const (
	SectionEquipment Section = "equipos"
	SectionMaterials Section = "materiales"
	SectionLabor     Section = "mano_de_obra"
)

// Sections lists every section in display order.
var Sections = []Section{SectionEquipment, SectionMaterials, SectionLabor}

func (s Section) Valid() bool {
	return s == SectionEquipment || s == SectionMaterials || s == SectionLabor
}

// VATRate is the tax applied on quotation subtotals (16% IVA).
const VATRate = 0.16

type Quotation struct {
	ID       int64           `json:"id" gorm:"primaryKey"`
	Title    string          `json:"title" gorm:"not null"`
	ClientID int64           `json:"client_id" gorm:"not null;index"`
	Status   QuotationStatus `json:"status" gorm:"default:'draft'"`

	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`

	Notes      string     `json:"notes,omitempty" gorm:"type:text"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`

	// Version lineage: the first quotation of a lineage has ParentID nil,
	// every duplicate points at that root (not at its immediate source).
	Version  int    `json:"version" gorm:"default:1"`
	ParentID *int64 `json:"parent_id,omitempty" gorm:"index"`
	Folio    string `json:"folio,omitempty"`

	ServiceTypeID *int64 `json:"service_type_id,omitempty"`
	TemplateID    *int64 `json:"template_id,omitempty"`

	Terms       string      `json:"terms,omitempty" gorm:"type:text"`
	Privacy     string      `json:"privacy,omitempty" gorm:"type:text"`
	PaymentType PaymentType `json:"payment_type" gorm:"default:'one_time'"`

	// Publish state. Token is the opaque segment of the public URL.
	PublishToken *string    `json:"publish_token,omitempty" gorm:"index"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`

	// Payment-provider identifiers, set when a checkout link was obtained.
	PaylinkURL       *string `json:"paylink_url,omitempty"`
	PaylinkProductID *string `json:"paylink_product_id,omitempty"`
	PaylinkPriceID   *string `json:"paylink_price_id,omitempty"`
	PaylinkLinkID    *string `json:"paylink_link_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Loaded separately, not columns.
	Tabs  []QuotationTab  `json:"tabs,omitempty" gorm:"-"`
	Items []QuotationItem `json:"items,omitempty" gorm:"-"`
	Links []TabLink       `json:"links,omitempty" gorm:"-"`
}

func (Quotation) TableName() string { return "quotations" }

// QuotationTab groups items inside one section. Position orders tabs
// within their section.
type QuotationTab struct {
	ID          int64   `json:"id" gorm:"primaryKey"`
	QuotationID int64   `json:"quotation_id" gorm:"not null;index"`
	Section     Section `json:"section" gorm:"not null"`
	Label       string  `json:"label" gorm:"not null"`
	Position    int     `json:"position"`
}

func (QuotationTab) TableName() string { return "quotation_tabs" }

type QuotationItem struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	QuotationID int64  `json:"quotation_id" gorm:"not null;index"`
	TabID       *int64 `json:"tab_id,omitempty"`
	ConceptID   *int64 `json:"concept_id,omitempty"`

	Section   Section `json:"section" gorm:"not null"`
	Quantity  int     `json:"quantity" gorm:"default:1"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`

	// Used only when ConceptID is nil.
	CustomTitle       string `json:"custom_title,omitempty"`
	CustomDescription string `json:"custom_description,omitempty" gorm:"type:text"`
	CustomFormat      string `json:"custom_format,omitempty"`
	IsCustom          bool   `json:"is_custom"`
}

func (QuotationItem) TableName() string { return "quotation_items" }

// TabLink couples two tabs of different sections: selecting the source tab
// in the public view also reveals the target tab. Stored directed, used
// undirected.
type TabLink struct {
	ID          int64 `json:"id" gorm:"primaryKey"`
	QuotationID int64 `json:"quotation_id" gorm:"not null;index"`
	SourceTabID int64 `json:"source_tab_id" gorm:"not null"`
	TargetTabID int64 `json:"target_tab_id" gorm:"not null"`
}

func (TabLink) TableName() string { return "quotation_tab_links" }
