package quotation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/pkg/paylink"
	"backoffice/internal/pkg/pdf"

	"github.com/google/uuid"
)

// transferFeeRate and transferFeeFlat model the card-processing fee the
// provider charges; paying by bank transfer skips it, so the public view
// shows total minus the fee as an incentive.
const (
	transferFeeRate = 0.036
	transferFeeFlat = 3.0
)

type Service struct {
	repo    Repository
	links   PaylinkClient
	baseURL string
	loggerf func(format string, args ...interface{})
}

func NewService(repo Repository, links PaylinkClient, publicBaseURL string, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		repo:    repo,
		links:   links,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		loggerf: loggerf,
	}
}

// Create inserts the quotation and all builder rows. Tabs are inserted one
// by one so every real ID is captured against the client temp ID it came
// from; items with an unresolvable temp tab id keep a null tab reference,
// links with an unresolvable endpoint are dropped. There is no compensating
// rollback across the four insert phases.
func (s *Service) Create(ctx context.Context, req CreateQuotationRequest) (*domain.Quotation, error) {
	if strings.TrimSpace(req.Title) == "" || req.ClientID == 0 {
		return nil, ErrValidation
	}
	for _, t := range req.Tabs {
		if !t.Section.Valid() {
			return nil, ErrValidation
		}
	}

	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = domain.PaymentOneTime
	}

	q := &domain.Quotation{
		Title:         strings.TrimSpace(req.Title),
		ClientID:      req.ClientID,
		Status:        domain.QuotationDraft,
		Subtotal:      req.Subtotal,
		Tax:           req.Tax,
		Total:         req.Total,
		Notes:         req.Notes,
		ValidUntil:    req.ValidUntil,
		Version:       1,
		ServiceTypeID: req.ServiceTypeID,
		TemplateID:    req.TemplateID,
		Terms:         req.Terms,
		Privacy:       req.Privacy,
		PaymentType:   paymentType,
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}

	tabIDs := make(map[string]int64, len(req.Tabs))
	for _, t := range req.Tabs {
		tab := &domain.QuotationTab{
			QuotationID: q.ID,
			Section:     t.Section,
			Label:       t.Label,
			Position:    t.Position,
		}
		if err := s.repo.CreateTab(ctx, tab); err != nil {
			return nil, err
		}
		tabIDs[t.TempID] = tab.ID
	}

	for _, it := range req.Items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		item := &domain.QuotationItem{
			QuotationID:       q.ID,
			ConceptID:         it.ConceptID,
			Section:           it.Section,
			Quantity:          qty,
			UnitPrice:         it.UnitPrice,
			Total:             round2(float64(qty) * it.UnitPrice),
			CustomTitle:       it.CustomTitle,
			CustomDescription: it.CustomDescription,
			CustomFormat:      it.CustomFormat,
			IsCustom:          it.IsCustom,
		}
		if realID, ok := tabIDs[it.TempTabID]; ok {
			item.TabID = &realID
		}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, err
		}
	}

	for _, l := range req.Links {
		src, srcOK := tabIDs[l.SourceTempID]
		tgt, tgtOK := tabIDs[l.TargetTempID]
		if !srcOK || !tgtOK {
			continue
		}
		link := &domain.TabLink{QuotationID: q.ID, SourceTabID: src, TargetTabID: tgt}
		if err := s.repo.CreateLink(ctx, link); err != nil {
			return nil, err
		}
	}

	return q, nil
}

// Duplicate deep-copies a quotation into the next version of its lineage.
// The copy points at the lineage root, not at the immediate source.
func (s *Service) Duplicate(ctx context.Context, id int64) (*domain.Quotation, error) {
	src, err := s.repo.GetFull(ctx, id)
	if err != nil {
		return nil, err
	}

	rootID := src.ID
	if src.ParentID != nil {
		rootID = *src.ParentID
	}

	maxVersion, err := s.repo.MaxLineageVersion(ctx, rootID)
	if err != nil {
		return nil, err
	}
	version := maxVersion + 1

	dup := &domain.Quotation{
		Title:         src.Title,
		ClientID:      src.ClientID,
		Status:        domain.QuotationDraft,
		Subtotal:      src.Subtotal,
		Tax:           src.Tax,
		Total:         src.Total,
		Notes:         src.Notes,
		ValidUntil:    src.ValidUntil,
		Version:       version,
		ParentID:      &rootID,
		Folio:         folio(rootID, version),
		ServiceTypeID: src.ServiceTypeID,
		TemplateID:    src.TemplateID,
		Terms:         src.Terms,
		Privacy:       src.Privacy,
		PaymentType:   src.PaymentType,
	}
	if err := s.repo.Create(ctx, dup); err != nil {
		return nil, err
	}

	// Old tab ID -> new tab ID, same remap discipline as Create.
	tabIDs := make(map[int64]int64, len(src.Tabs))
	for _, t := range src.Tabs {
		tab := &domain.QuotationTab{
			QuotationID: dup.ID,
			Section:     t.Section,
			Label:       t.Label,
			Position:    t.Position,
		}
		if err := s.repo.CreateTab(ctx, tab); err != nil {
			return nil, err
		}
		tabIDs[t.ID] = tab.ID
	}

	for _, it := range src.Items {
		item := &domain.QuotationItem{
			QuotationID:       dup.ID,
			ConceptID:         it.ConceptID,
			Section:           it.Section,
			Quantity:          it.Quantity,
			UnitPrice:         it.UnitPrice,
			Total:             it.Total,
			CustomTitle:       it.CustomTitle,
			CustomDescription: it.CustomDescription,
			CustomFormat:      it.CustomFormat,
			IsCustom:          it.IsCustom,
		}
		if it.TabID != nil {
			if newID, ok := tabIDs[*it.TabID]; ok {
				item.TabID = &newID
			}
		}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, err
		}
	}

	for _, l := range src.Links {
		newSrc, srcOK := tabIDs[l.SourceTabID]
		newTgt, tgtOK := tabIDs[l.TargetTabID]
		if !srcOK || !tgtOK {
			continue
		}
		link := &domain.TabLink{QuotationID: dup.ID, SourceTabID: newSrc, TargetTabID: newTgt}
		if err := s.repo.CreateLink(ctx, link); err != nil {
			return nil, err
		}
	}

	return dup, nil
}

func folio(rootID int64, version int) string {
	return fmt.Sprintf("COT-%08d-V%d", rootID, version)
}

// Publish recomputes totals from the persisted items (the stored subtotal
// column is not trusted here), mints the public token and asks the payment
// provider for a checkout link when there is something to charge. Provider
// failure never fails the publish.
func (s *Service) Publish(ctx context.Context, id int64) (*PublishResult, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	subtotal, err := s.repo.SumItemTotals(ctx, id)
	if err != nil {
		return nil, err
	}
	subtotal = round2(subtotal)
	tax := round2(subtotal * domain.VATRate)
	total := round2(subtotal + tax)

	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	now := time.Now().UTC()

	if err := s.repo.SetPublishState(ctx, id, token, now, subtotal, tax, total); err != nil {
		return nil, err
	}

	publicURL := s.baseURL + "/cotizacion/" + token
	result := paylink.Result{Status: paylink.StatusSkipped}

	if total > 0 {
		amountMinor := int64(total*100 + 0.5)
		recurring := q.PaymentType == domain.PaymentRecurring
		result = s.links.CreateLink(ctx, amountMinor, q.Title, publicURL, recurring)
		if result.Status == paylink.StatusOK {
			if err := s.repo.SetPaylink(ctx, id, result.URL, result.ProductID, result.PriceID, result.LinkID); err != nil {
				return nil, err
			}
		} else {
			s.loggerf("level=warn msg=checkout link not available quotation_id=%d status=%s", id, result.Status)
		}
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PublishResult{Quotation: updated, PublicURL: publicURL, Paylink: result}, nil
}

// Unpublish deactivates the provider link best-effort, then clears the
// token and every payment field unconditionally.
func (s *Service) Unpublish(ctx context.Context, id int64) error {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if q.PaylinkProductID != nil || q.PaylinkPriceID != nil || q.PaylinkLinkID != nil {
		status := s.links.Deactivate(ctx,
			deref(q.PaylinkProductID), deref(q.PaylinkPriceID), deref(q.PaylinkLinkID))
		if status == paylink.StatusFailed {
			s.loggerf("level=warn msg=paylink deactivation failed quotation_id=%d", id)
		}
	}

	return s.repo.ClearPublishState(ctx, id)
}

// statusAdvance is the only forward map the UI gets. Accepted, rejected
// and expired are terminal at this layer.
var statusAdvance = map[domain.QuotationStatus]domain.QuotationStatus{
	domain.QuotationDraft: domain.QuotationSent,
	domain.QuotationSent:  domain.QuotationAccepted,
}

func (s *Service) AdvanceStatus(ctx context.Context, id int64) (*domain.Quotation, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, ok := statusAdvance[q.Status]
	if !ok {
		return nil, ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	q.Status = next
	return q, nil
}

// GetPublic resolves a published quotation by its token and computes the
// bank-transfer fallback amount.
func (s *Service) GetPublic(ctx context.Context, token string) (*PublicView, error) {
	q, err := s.repo.GetByPublishToken(ctx, token)
	if err != nil {
		return nil, ErrNotPublished
	}

	view := &PublicView{
		Quotation:     q,
		TransferTotal: round2(q.Total - (q.Total*transferFeeRate + transferFeeFlat)),
	}
	if q.PaylinkURL != nil {
		view.PaymentURL = *q.PaylinkURL
	}
	return view, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Quotation, error) {
	return s.repo.GetFull(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Quotation, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// BuildPDF renders the printable document, embedding the public link when
// the quotation is published.
func (s *Service) BuildPDF(ctx context.Context, id int64) ([]byte, error) {
	q, err := s.repo.GetFull(ctx, id)
	if err != nil {
		return nil, err
	}
	publicURL := ""
	if q.PublishToken != nil {
		publicURL = s.baseURL + "/cotizacion/" + *q.PublishToken
	}
	return pdf.BuildQuotation(q, publicURL)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
