package billing

import (
	"context"
	"time"

	"github.com/mateflow/mateflow/internal/shared"
)

// RepositoryPort defines data access methods for bills.
type RepositoryPort interface {
	ListBills(ctx context.Context, userID string) ([]Bill, error)
	GetBill(ctx context.Context, userID, id string) (*Bill, error)
	CreateBill(ctx context.Context, bill Bill, items []CreateItemInput) (*Bill, error)
	UpdateStatus(ctx context.Context, userID, id string, status BillStatus) error
	GetStatus(ctx context.Context, userID, id string) (BillStatus, error)
	DeleteBill(ctx context.Context, userID, id string) error
	ListBillRecords(ctx context.Context, userID string, from, to time.Time, excludeStatus BillStatus) ([]BillRecord, error)
}

// StatsInvalidator bumps cached aggregates after bill mutations.
type StatsInvalidator interface {
	Bump(ctx context.Context) error
}

// Service handles bill business logic.
type Service struct {
	repo  RepositoryPort
	stats StatsInvalidator
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, stats StatsInvalidator) *Service {
	return &Service{repo: repo, stats: stats}
}

const defaultValidityDays = 7

// CreateBill validates input, computes totals and persists the bill.
func (s *Service) CreateBill(ctx context.Context, userID string, input CreateBillInput) (*Bill, error) {
	if userID == "" {
		return nil, shared.ErrUnauthorized
	}
	if input.CustomerID == "" {
		return nil, shared.Invalid("a customer must be selected")
	}
	if len(input.Items) == 0 {
		return nil, shared.Invalid("a bill needs at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, shared.Invalid("item quantities must be at least 1")
		}
		if item.UnitPrice < 0 {
			return nil, shared.Invalid("item prices cannot be negative")
		}
	}

	totals := CalculateTotals(input.Items, input.Adjustments)

	validity := input.ValidityDays
	if validity == 0 {
		validity = defaultValidityDays
	}
	adjustments := input.Adjustments
	if adjustments == nil {
		adjustments = []Adjustment{}
	}

	bill := Bill{
		UserID:       userID,
		CustomerID:   input.CustomerID,
		TotalAmount:  totals.GrandTotal,
		Status:       StatusDraft,
		Note:         input.Note,
		Adjustments:  adjustments,
		PaymentTerms: input.PaymentTerms,
		ValidityDays: validity,
	}

	created, err := s.repo.CreateBill(ctx, bill, input.Items)
	if err != nil {
		return nil, err
	}
	if s.stats != nil {
		_ = s.stats.Bump(ctx)
	}
	return created, nil
}

// ListBills returns all bills for the user, newest first.
func (s *Service) ListBills(ctx context.Context, userID string) ([]Bill, error) {
	return s.repo.ListBills(ctx, userID)
}

// GetBill loads one bill with items.
func (s *Service) GetBill(ctx context.Context, userID, id string) (*Bill, error) {
	return s.repo.GetBill(ctx, userID, id)
}

// UpdateStatus transitions a bill between lifecycle states. Allowed moves:
// draft -> paid, draft/paid -> cancelled.
func (s *Service) UpdateStatus(ctx context.Context, userID, id string, status BillStatus) error {
	switch status {
	case StatusPaid, StatusCancelled:
	default:
		return shared.Invalid("status must be paid or cancelled")
	}

	current, err := s.repo.GetStatus(ctx, userID, id)
	if err != nil {
		return err
	}
	switch {
	case current == status:
		return nil
	case current == StatusDraft:
	case current == StatusPaid && status == StatusCancelled:
	default:
		return shared.Invalid("bill cannot move from " + string(current) + " to " + string(status))
	}

	if err := s.repo.UpdateStatus(ctx, userID, id, status); err != nil {
		return err
	}
	if s.stats != nil {
		_ = s.stats.Bump(ctx)
	}
	return nil
}

// DeleteBill removes a bill entirely.
func (s *Service) DeleteBill(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteBill(ctx, userID, id); err != nil {
		return err
	}
	if s.stats != nil {
		_ = s.stats.Bump(ctx)
	}
	return nil
}

// ListRecords exposes the slim projection used by tax aggregation.
func (s *Service) ListRecords(ctx context.Context, userID string, from, to time.Time) ([]BillRecord, error) {
	return s.repo.ListBillRecords(ctx, userID, from, to, StatusCancelled)
}
