package plan

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound = errors.New("plan not found")
)

type (
	Repository interface {
		CreatePlan(ctx context.Context, pln Plan) (Plan, error)
		// QueryPlans applies AND operation on available QueryFilter fields.
		QueryPlans(ctx context.Context, filter QueryFilter) ([]Plan, error)
		GetPlanByID(ctx context.Context, id string) (Plan, error)
		UpdatePlan(ctx context.Context, pln Plan, isActive *bool) (Plan, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, np NewPlan) (Plan, error) {
	if err := np.Validate(); err != nil {
		return Plan{}, err
	}
	now := time.Now().UTC()
	pln := Plan{
		Name:          np.Name,
		Price:         np.Price,
		DurationValue: np.DurationValue,
		DurationUnit:  np.DurationUnit,
		Benefits:      np.Benefits,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreatePlan(ctx, pln)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Plan, error) {
	return svc.repo.QueryPlans(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Plan, error) {
	return svc.repo.GetPlanByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, up UpdatePlan) (Plan, error) {
	orig, err := svc.repo.GetPlanByID(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	if err := up.Validate(orig); err != nil {
		return Plan{}, err
	}

	pln := Plan{
		ID:        id,
		Name:      up.Name,
		Price:     orig.Price,
		Benefits:  up.Benefits,
		UpdatedAt: time.Now().UTC(),
	}
	if up.Price != nil {
		pln.Price = *up.Price
	}
	pln.DurationValue = orig.DurationValue
	if up.DurationValue != nil {
		pln.DurationValue = *up.DurationValue
	}
	pln.DurationUnit = orig.DurationUnit
	if up.DurationUnit != "" {
		pln.DurationUnit = up.DurationUnit
	}
	if pln.Benefits == nil {
		pln.Benefits = orig.Benefits
	}
	return svc.repo.UpdatePlan(ctx, pln, up.IsActive)
}

// Deactivate hides a plan from the catalog; existing memberships keep their
// snapshotted price and expiry untouched.
func (svc *Service) Deactivate(ctx context.Context, id string) (Plan, error) {
	isActive := false
	return svc.Update(ctx, id, UpdatePlan{IsActive: &isActive})
}
