package contract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/domain"

	"github.com/google/uuid"
)

type Service struct {
	repo    Repository
	users   UserDirectory
	store   ArtifactStore
	loggerf func(format string, args ...interface{})
}

func NewService(repo Repository, users UserDirectory, store ArtifactStore, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{repo: repo, users: users, store: store, loggerf: loggerf}
}

func (s *Service) Create(ctx context.Context, req CreateContractRequest) (*domain.Contract, error) {
	if strings.TrimSpace(req.Title) == "" || req.CounterpartyID == 0 || !req.CounterpartRole.Valid() {
		return nil, ErrValidation
	}
	c := &domain.Contract{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		CounterpartyID:  req.CounterpartyID,
		CounterpartRole: req.CounterpartRole,
		ContractTypeID:  req.ContractTypeID,
		Status:          domain.ContractDraft,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Contract, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Contract, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Tokens(ctx context.Context, contractID int64) ([]domain.ContractToken, error) {
	return s.repo.GetTokensByContract(ctx, contractID)
}

func (s *Service) History(ctx context.Context, contractID int64) ([]domain.ContractHistory, error) {
	return s.repo.ListHistory(ctx, contractID)
}

// Initiate sends a draft contract to signature: it mints exactly two
// tokens, one per signer role. The counterparty fills its declared role,
// the first active admin fills the other.
func (s *Service) Initiate(ctx context.Context, contractID int64) (*InitiateResult, error) {
	c, err := s.repo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.ContractDraft {
		return nil, ErrNotDraft
	}

	rep, err := s.users.FirstAdmin(ctx)
	if err != nil {
		return nil, ErrNoRepresentative
	}

	assignments := []struct {
		role   domain.SignerRole
		userID int64
	}{
		{c.CounterpartRole, c.CounterpartyID},
		{c.CounterpartRole.Opposite(), rep.ID},
	}

	tokens := make([]domain.ContractToken, 0, 2)
	for _, a := range assignments {
		t := domain.ContractToken{
			ContractID: c.ID,
			Token:      strings.ReplaceAll(uuid.New().String(), "-", ""),
			Role:       a.role,
			UserID:     a.userID,
		}
		if err := s.repo.CreateToken(ctx, &t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}

	if err := s.repo.UpdateStatus(ctx, c.ID, domain.ContractPendingSignature); err != nil {
		return nil, err
	}
	c.Status = domain.ContractPendingSignature

	s.logAction(ctx, c.ID, nil, domain.ActionSend, "tokens minted for both parties")

	return &InitiateResult{Contract: c, Tokens: tokens}, nil
}

// ViewByToken resolves the public signing page and records the view.
// Repeated views are all logged, there is no dedup.
func (s *Service) ViewByToken(ctx context.Context, token, ip, userAgent string) (*SigningView, error) {
	t, err := s.repo.GetToken(ctx, token)
	if err != nil {
		return nil, ErrTokenNotFound
	}
	c, err := s.repo.GetByID(ctx, t.ContractID)
	if err != nil {
		return nil, err
	}

	s.logAction(ctx, c.ID, &t.ID, domain.ActionView, fmt.Sprintf("ip=%s ua=%s", ip, userAgent))

	return &SigningView{
		Contract: c,
		Role:     t.Role,
		Signed:   t.SignedAt != nil,
	}, nil
}

// SubmitSignature validates the token, stores the four artifacts, records
// the signature and flips the contract to active once every token has
// signed.
func (s *Service) SubmitSignature(ctx context.Context, token string, sub SignatureSubmission) (*domain.ContractSignature, error) {
	t, err := s.repo.GetToken(ctx, token)
	if err != nil {
		return nil, ErrTokenNotFound
	}
	if t.SignedAt != nil {
		return nil, ErrAlreadySigned
	}
	if !sub.ConsentTerms || !sub.ConsentIdentity {
		return nil, ErrConsentRequired
	}

	now := time.Now().UTC()
	base := fmt.Sprintf("contracts/%d/%s/%d", t.ContractID, t.Token, now.UnixNano())

	artifacts := []struct {
		name string
		data []byte
		dest *string
	}{
		{"selfie.jpg", sub.Selfie, nil},
		{"id_front.jpg", sub.IDFront, nil},
		{"id_back.jpg", sub.IDBack, nil},
		{"signature.png", sub.DrawnSignature, nil},
	}

	sig := &domain.ContractSignature{
		TokenID:         t.ID,
		ConsentTerms:    sub.ConsentTerms,
		ConsentIdentity: sub.ConsentIdentity,
		IPAddress:       sub.IPAddress,
		UserAgent:       sub.UserAgent,
	}
	artifacts[0].dest = &sig.SelfieURL
	artifacts[1].dest = &sig.IDFrontURL
	artifacts[2].dest = &sig.IDBackURL
	artifacts[3].dest = &sig.DrawnSignature

	for _, a := range artifacts {
		contentType := "image/jpeg"
		if strings.HasSuffix(a.name, ".png") {
			contentType = "image/png"
		}
		url, err := s.store.Save(base+"/"+a.name, a.data, contentType)
		if err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", a.name, err)
		}
		*a.dest = url
	}

	if err := s.repo.CreateSignature(ctx, sig); err != nil {
		return nil, err
	}
	if err := s.repo.MarkTokenSigned(ctx, t.ID, now); err != nil {
		return nil, err
	}

	s.logAction(ctx, t.ContractID, &t.ID, domain.ActionSign, fmt.Sprintf("role=%s", t.Role))

	// The contract goes active as a side effect of the last signature,
	// not as a separate operator action.
	tokens, err := s.repo.GetTokensByContract(ctx, t.ContractID)
	if err != nil {
		return sig, nil
	}
	allSigned := true
	for _, tok := range tokens {
		if tok.ID == t.ID {
			continue
		}
		if tok.SignedAt == nil {
			allSigned = false
			break
		}
	}
	if allSigned {
		if err := s.repo.UpdateStatus(ctx, t.ContractID, domain.ContractActive); err != nil {
			s.loggerf("level=error msg=failed to activate fully signed contract contract_id=%d err=%v", t.ContractID, err)
		}
	}

	return sig, nil
}

// Cancel is an operator action; terminal states stay as they are.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.Status == domain.ContractCompleted || c.Status == domain.ContractCancelled {
		return ErrValidation
	}
	if err := s.repo.UpdateStatus(ctx, id, domain.ContractCancelled); err != nil {
		return err
	}
	s.logAction(ctx, id, nil, domain.ActionModify, "contract cancelled")
	return nil
}

// Complete closes out an active contract.
func (s *Service) Complete(ctx context.Context, id int64) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.Status != domain.ContractActive {
		return ErrValidation
	}
	if err := s.repo.UpdateStatus(ctx, id, domain.ContractCompleted); err != nil {
		return err
	}
	s.logAction(ctx, id, nil, domain.ActionModify, "contract completed")
	return nil
}

// Comment appends a free-form note to the audit trail.
func (s *Service) Comment(ctx context.Context, contractID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrValidation
	}
	s.logAction(ctx, contractID, nil, domain.ActionComment, text)
	return nil
}

func (s *Service) logAction(ctx context.Context, contractID int64, tokenID *int64, action domain.ContractAction, metadata string) {
	h := &domain.ContractHistory{
		ContractID: contractID,
		TokenID:    tokenID,
		Action:     action,
		Metadata:   metadata,
	}
	if err := s.repo.CreateHistory(ctx, h); err != nil {
		s.loggerf("level=error msg=failed to write contract history contract_id=%d action=%s err=%v", contractID, action, err)
	}
}
