package domain

import "time"

type ContractStatus string

const (
	ContractDraft            ContractStatus = "draft"
	ContractPendingSignature ContractStatus = "pending_signature"
	ContractActive           ContractStatus = "active"
	ContractCompleted        ContractStatus = "completed"
	ContractCancelled        ContractStatus = "cancelled"
)

// SignerRole says which side of the contract a token signs for.
type SignerRole string

const (
	SignerClient   SignerRole = "CLIENT"
	SignerProvider SignerRole = "PROVIDER"
)

func (r SignerRole) Valid() bool {
	return r == SignerClient || r == SignerProvider
}

// Opposite returns the role the company's own representative has to fill
// when the counterparty occupies r.
func (r SignerRole) Opposite() SignerRole {
	if r == SignerClient {
		return SignerProvider
	}
	return SignerClient
}

type Contract struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	// CounterpartyID is the external user on the other side of the table;
	// CounterpartRole is the side that user plays.
	CounterpartyID  int64      `json:"counterparty_id" gorm:"not null;index"`
	CounterpartRole SignerRole `json:"counterpart_role" gorm:"not null"`

	ContractTypeID *int64         `json:"contract_type_id,omitempty"`
	Status         ContractStatus `json:"status" gorm:"default:'draft'"`

	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Contract) TableName() string { return "contracts" }

// ContractToken is one party's signing credential. Exactly two are minted
// when a contract is sent to signature, one per role.
type ContractToken struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	ContractID int64      `json:"contract_id" gorm:"not null;index"`
	Token      string     `json:"token" gorm:"uniqueIndex;not null"`
	Role       SignerRole `json:"role" gorm:"not null"`
	UserID     int64      `json:"user_id" gorm:"not null"`
	SignedAt   *time.Time `json:"signed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (ContractToken) TableName() string { return "contract_tokens" }

// ContractSignature holds the artifacts captured during one signing.
type ContractSignature struct {
	ID      int64 `json:"id" gorm:"primaryKey"`
	TokenID int64 `json:"token_id" gorm:"not null;uniqueIndex"`

	SelfieURL       string `json:"selfie_url"`
	IDFrontURL      string `json:"id_front_url"`
	IDBackURL       string `json:"id_back_url"`
	DrawnSignature  string `json:"drawn_signature_url" gorm:"column:drawn_signature_url"`
	ConsentTerms    bool   `json:"consent_terms"`
	ConsentIdentity bool   `json:"consent_identity"`

	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (ContractSignature) TableName() string { return "contract_signatures" }

type ContractAction string

const (
	ActionView    ContractAction = "view"
	ActionSign    ContractAction = "sign"
	ActionComment ContractAction = "comment"
	ActionModify  ContractAction = "modify"
	ActionSend    ContractAction = "send"
)

// ContractHistory is the append-only audit trail. Views are never deduped.
type ContractHistory struct {
	ID         int64          `json:"id" gorm:"primaryKey"`
	ContractID int64          `json:"contract_id" gorm:"not null;index"`
	TokenID    *int64         `json:"token_id,omitempty"`
	Action     ContractAction `json:"action" gorm:"not null"`
	Metadata   string         `json:"metadata,omitempty" gorm:"type:text"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (ContractHistory) TableName() string { return "contract_history" }
