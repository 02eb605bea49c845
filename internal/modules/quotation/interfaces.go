package quotation

import (
	"context"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/pkg/paylink"
)

// Repository is the persistence surface the service needs.
type Repository interface {
	Create(ctx context.Context, q *domain.Quotation) error
	GetByID(ctx context.Context, id int64) (*domain.Quotation, error)
	GetFull(ctx context.Context, id int64) (*domain.Quotation, error)
	GetByPublishToken(ctx context.Context, token string) (*domain.Quotation, error)
	List(ctx context.Context, limit, offset int) ([]domain.Quotation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.QuotationStatus) error
	MaxLineageVersion(ctx context.Context, rootID int64) (int, error)
	CreateTab(ctx context.Context, tab *domain.QuotationTab) error
	CreateItem(ctx context.Context, item *domain.QuotationItem) error
	CreateLink(ctx context.Context, link *domain.TabLink) error
	SumItemTotals(ctx context.Context, quotationID int64) (float64, error)
	SetPublishState(ctx context.Context, id int64, token string, publishedAt time.Time, subtotal, tax, total float64) error
	SetPaylink(ctx context.Context, id int64, url, productID, priceID, linkID string) error
	ClearPublishState(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// PaylinkClient is the best-effort checkout-link provider.
type PaylinkClient interface {
	CreateLink(ctx context.Context, amountMinor int64, label, redirectURL string, recurring bool) paylink.Result
	Deactivate(ctx context.Context, productID, priceID, linkID string) paylink.Status
}
