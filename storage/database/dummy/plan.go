package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jherparva/TauroGym-sub000/core/plan"
)

type planRepository struct {
	db *planTable
}

var _ plan.Repository = (*planRepository)(nil) // interface compliance check

func NewPlanRepository(db *DB) plan.Repository {
	return &planRepository{db: db.plan}
}

func (repo *planRepository) query() []plan.Plan {
	plans := make([]plan.Plan, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		plans = append(plans, *p)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Name < plans[j].Name })
	return plans
}

func (repo *planRepository) CreatePlan(ctx context.Context, pln plan.Plan) (plan.Plan, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	pln.ID = uuid.New().String()
	repo.db.table[pln.ID] = &pln
	return pln, nil
}

func (repo *planRepository) QueryPlans(ctx context.Context, filter plan.QueryFilter) ([]plan.Plan, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	plans := repo.query()
	if filter.IsActive != nil {
		filtered := make([]plan.Plan, 0, len(plans))
		for _, p := range plans {
			if p.IsActive == *filter.IsActive {
				filtered = append(filtered, p)
			}
		}
		plans = filtered
	}
	return plans, nil
}

func (repo *planRepository) GetPlanByID(ctx context.Context, id string) (plan.Plan, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if pln, ok := repo.db.table[id]; ok {
		return *pln, nil
	}
	return plan.Plan{}, plan.ErrNotFound
}

func (repo *planRepository) UpdatePlan(ctx context.Context, pln plan.Plan, isActive *bool) (plan.Plan, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[pln.ID]
	if !ok {
		return plan.Plan{}, plan.ErrNotFound
	}
	pln.IsActive = orig.IsActive
	if isActive != nil {
		pln.IsActive = *isActive
	}
	pln.CreatedAt = orig.CreatedAt
	repo.db.table[pln.ID] = &pln
	return pln, nil
}
