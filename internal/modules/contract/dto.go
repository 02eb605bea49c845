package contract

import (
	"time"

	"backoffice/internal/domain"
)

type CreateContractRequest struct {
	Title           string            `json:"title" binding:"required"`
	Description     string            `json:"description"`
	CounterpartyID  int64             `json:"counterparty_id" binding:"required"`
	CounterpartRole domain.SignerRole `json:"counterpart_role" binding:"required"`
	ContractTypeID  *int64            `json:"contract_type_id"`
	StartDate       *time.Time        `json:"start_date"`
	EndDate         *time.Time        `json:"end_date"`
}

// SignatureSubmission carries the four captured artifacts plus consents.
// The binary payloads come from the multipart form on the public wizard.
type SignatureSubmission struct {
	Selfie         []byte
	IDFront        []byte
	IDBack         []byte
	DrawnSignature []byte

	ConsentTerms    bool
	ConsentIdentity bool

	IPAddress string
	UserAgent string
}

// SigningView is what the public wizard renders for a token.
type SigningView struct {
	Contract *domain.Contract  `json:"contract"`
	Role     domain.SignerRole `json:"role"`
	Signed   bool              `json:"signed"`
}

type InitiateResult struct {
	Contract *domain.Contract       `json:"contract"`
	Tokens   []domain.ContractToken `json:"tokens"`
}
