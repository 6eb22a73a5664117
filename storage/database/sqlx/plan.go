package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/plan"
)

type planRow struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	Price         int64          `db:"price"`
	DurationValue int            `db:"duration_value"`
	DurationUnit  string         `db:"duration_unit"`
	Benefits      pq.StringArray `db:"benefits"`
	IsActive      bool           `db:"is_active"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r planRow) toPlan() plan.Plan {
	return plan.Plan{
		ID:            r.ID,
		Name:          r.Name,
		Price:         core.Money(r.Price),
		DurationValue: r.DurationValue,
		DurationUnit:  plan.DurationUnit(r.DurationUnit),
		Benefits:      r.Benefits,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type planRepository struct {
	exec core.DBExecutor
}

var _ plan.Repository = (*planRepository)(nil) // interface compliance check

func NewPlanRepository(exec core.DBExecutor) *planRepository {
	return &planRepository{exec: exec}
}

const planColumns = "id, name, price, duration_value, duration_unit, benefits, is_active, created_at, updated_at"

func (repo planRepository) CreatePlan(ctx context.Context, pln plan.Plan) (plan.Plan, error) {
	pln.ID = uuid.New().String()
	_, err := repo.exec.ExecContext(ctx,
		`INSERT INTO plan (`+planColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		pln.ID, pln.Name, int64(pln.Price), pln.DurationValue, string(pln.DurationUnit),
		pq.StringArray(pln.Benefits), pln.IsActive, pln.CreatedAt.UTC(), pln.UpdatedAt.UTC(),
	)
	if err != nil {
		return plan.Plan{}, errors.Wrap(err, "inserting plan")
	}
	return pln, nil
}

func (repo planRepository) QueryPlans(ctx context.Context, filter plan.QueryFilter) ([]plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plan`
	args := make([]interface{}, 0, 1)
	if filter.IsActive != nil {
		query += ` WHERE is_active = $1`
		args = append(args, *filter.IsActive)
	}
	query += ` ORDER BY name ASC`

	var rows []planRow
	if err := repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying plans")
	}
	plans := make([]plan.Plan, 0, len(rows))
	for _, r := range rows {
		plans = append(plans, r.toPlan())
	}
	return plans, nil
}

func (repo planRepository) GetPlanByID(ctx context.Context, id string) (plan.Plan, error) {
	var r planRow
	if err := repo.exec.GetContext(ctx, &r, `SELECT `+planColumns+` FROM plan WHERE id = $1`, id); err != nil {
		return plan.Plan{}, trapNoRowsErr(err, plan.ErrNotFound, "getting plan by ID")
	}
	return r.toPlan(), nil
}

func (repo planRepository) UpdatePlan(ctx context.Context, pln plan.Plan, isActive *bool) (plan.Plan, error) {
	query := `UPDATE plan
		SET name = $2, price = $3, duration_value = $4, duration_unit = $5, benefits = $6, updated_at = $7`
	args := []interface{}{
		pln.ID, pln.Name, int64(pln.Price), pln.DurationValue, string(pln.DurationUnit),
		pq.StringArray(pln.Benefits), pln.UpdatedAt.UTC(),
	}
	if isActive != nil {
		query += `, is_active = $8`
		args = append(args, *isActive)
	}
	query += ` WHERE id = $1`

	res, err := repo.exec.ExecContext(ctx, query, args...)
	if err != nil {
		return plan.Plan{}, errors.Wrap(err, "updating plan")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return plan.Plan{}, plan.ErrNotFound
	}
	return repo.GetPlanByID(ctx, pln.ID)
}
