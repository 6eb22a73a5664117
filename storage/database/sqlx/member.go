package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/member"
)

type memberRow struct {
	ID               string      `db:"id"`
	NationalID       string      `db:"national_id"`
	Name             string      `db:"name"`
	Phone            null.String `db:"phone"`
	Email            null.String `db:"email"`
	Address          null.String `db:"address"`
	EmergencyContact null.String `db:"emergency_contact"`
	IsActive         bool        `db:"is_active"`
	CreatedAt        time.Time   `db:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at"`

	PlanID     null.String `db:"plan_id"`
	PlanName   null.String `db:"plan_name"`
	PlanPrice  null.Int64  `db:"plan_price"`
	StartDate  null.Time   `db:"start_date"`
	EndDate    null.Time   `db:"end_date"`
	AmountPaid int64       `db:"amount_paid"`
}

func rowOf(mbr member.Member) memberRow {
	return memberRow{
		ID:               mbr.ID,
		NationalID:       mbr.NationalID,
		Name:             mbr.Name,
		Phone:            null.NewString(mbr.Phone, mbr.Phone != ""),
		Email:            null.NewString(mbr.Email, mbr.Email != ""),
		Address:          null.NewString(mbr.Address, mbr.Address != ""),
		EmergencyContact: null.NewString(mbr.EmergencyContact, mbr.EmergencyContact != ""),
		IsActive:         mbr.IsActive,
		CreatedAt:        mbr.CreatedAt.UTC(),
		UpdatedAt:        mbr.UpdatedAt.UTC(),
		PlanID:           null.NewString(mbr.PlanID, mbr.PlanID != ""),
		PlanName:         null.NewString(mbr.PlanName, mbr.PlanName != ""),
		PlanPrice:        null.NewInt64(int64(mbr.PlanPrice), mbr.PlanID != ""),
		StartDate:        null.NewTime(mbr.StartDate, !mbr.StartDate.IsZero()),
		EndDate:          null.NewTime(mbr.EndDate, !mbr.EndDate.IsZero()),
		AmountPaid:       int64(mbr.AmountPaid),
	}
}

func (r memberRow) toMember() member.Member {
	return member.Member{
		ID:               r.ID,
		NationalID:       r.NationalID,
		Name:             r.Name,
		Phone:            r.Phone.String,
		Email:            r.Email.String,
		Address:          r.Address.String,
		EmergencyContact: r.EmergencyContact.String,
		IsActive:         r.IsActive,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		PlanID:           r.PlanID.String,
		PlanName:         r.PlanName.String,
		PlanPrice:        core.Money(r.PlanPrice.Int64),
		StartDate:        r.StartDate.Time,
		EndDate:          r.EndDate.Time,
		AmountPaid:       core.Money(r.AmountPaid),
	}
}

type memberRepository struct {
	exec core.DBExecutor
}

var _ member.Repository = (*memberRepository)(nil) // interface compliance check

func NewMemberRepository(exec core.DBExecutor) *memberRepository {
	return &memberRepository{exec: exec}
}

const memberColumns = `id, national_id, name, phone, email, address, emergency_contact, is_active,
	created_at, updated_at, plan_id, plan_name, plan_price, start_date, end_date, amount_paid`

func (repo memberRepository) CheckNationalIDUniqueness(ctx context.Context, nationalID string, excludedMembers ...member.Member) error {
	query := `SELECT EXISTS (SELECT 1 FROM member WHERE national_id = $1`
	args := []interface{}{nationalID}
	if len(excludedMembers) > 0 {
		query += ` AND id <> $2`
		args = append(args, excludedMembers[0].ID)
	}
	query += `)`

	var exists bool
	if err := repo.exec.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking member uniqueness")
	}
	if exists {
		return member.ErrNationalIDExists
	}
	return nil
}

func (repo memberRepository) CreateMember(ctx context.Context, mbr member.Member) (member.Member, error) {
	mbr.ID = uuid.New().String()
	r := rowOf(mbr)
	_, err := repo.exec.ExecContext(ctx,
		`INSERT INTO member (`+memberColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		r.ID, r.NationalID, r.Name, r.Phone, r.Email, r.Address, r.EmergencyContact, r.IsActive,
		r.CreatedAt, r.UpdatedAt, r.PlanID, r.PlanName, r.PlanPrice, r.StartDate, r.EndDate, r.AmountPaid,
	)
	if err != nil {
		if isUniqueViolation(err, "member_national_id_key") {
			return member.Member{}, member.ErrNationalIDExists
		}
		return member.Member{}, errors.Wrap(err, "inserting member")
	}
	return mbr, nil
}

func (repo memberRepository) QueryMembers(ctx context.Context, filter member.QueryFilter) ([]member.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM member`
	args := make([]interface{}, 0, 2)
	where := ""

	appendCond := func(cond string) {
		if where == "" {
			where = ` WHERE ` + cond
		} else {
			where += ` AND ` + cond
		}
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		appendCond(`(name ILIKE $1 OR national_id ILIKE $1 OR phone ILIKE $1)`)
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		if len(args) == 1 {
			appendCond(`is_active = $1`)
		} else {
			appendCond(`is_active = $2`)
		}
	}
	query += where + ` ORDER BY name ASC`

	var rows []memberRow
	if err := repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying members")
	}
	members := make([]member.Member, 0, len(rows))
	for _, r := range rows {
		members = append(members, r.toMember())
	}
	return members, nil
}

func (repo memberRepository) GetMemberByID(ctx context.Context, id string) (member.Member, error) {
	var r memberRow
	err := repo.exec.GetContext(ctx, &r, `SELECT `+memberColumns+` FROM member WHERE id = $1`, id)
	if err != nil {
		return member.Member{}, trapNoRowsErr(err, member.ErrNotFound, "getting member by ID")
	}
	return r.toMember(), nil
}

func (repo memberRepository) GetMemberByNationalID(ctx context.Context, nationalID string) (member.Member, error) {
	var r memberRow
	err := repo.exec.GetContext(ctx, &r, `SELECT `+memberColumns+` FROM member WHERE national_id = $1`, nationalID)
	if err != nil {
		return member.Member{}, trapNoRowsErr(err, member.ErrNotFound, "getting member by national ID")
	}
	return r.toMember(), nil
}

func (repo memberRepository) UpdateMember(ctx context.Context, mbr member.Member, isActive *bool) (member.Member, error) {
	r := rowOf(mbr)
	query := `UPDATE member
		SET national_id = $2, name = $3, phone = $4, email = $5, address = $6, emergency_contact = $7,
			updated_at = $8, plan_id = $9, plan_name = $10, plan_price = $11, start_date = $12,
			end_date = $13, amount_paid = $14`
	args := []interface{}{
		r.ID, r.NationalID, r.Name, r.Phone, r.Email, r.Address, r.EmergencyContact,
		r.UpdatedAt, r.PlanID, r.PlanName, r.PlanPrice, r.StartDate, r.EndDate, r.AmountPaid,
	}
	if isActive != nil {
		query += `, is_active = $15`
		args = append(args, *isActive)
	}
	query += ` WHERE id = $1`

	res, err := repo.exec.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err, "member_national_id_key") {
			return member.Member{}, member.ErrNationalIDExists
		}
		return member.Member{}, errors.Wrap(err, "updating member")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return member.Member{}, member.ErrNotFound
	}
	return repo.GetMemberByID(ctx, mbr.ID)
}

// ApplyAbono runs the balance guard and the increment in a single conditional
// UPDATE so concurrent abonos cannot lose updates or overshoot the price.
func (repo memberRepository) ApplyAbono(ctx context.Context, memberID string, amount core.Money) (member.Member, error) {
	res, err := repo.exec.ExecContext(ctx,
		`UPDATE member
		SET amount_paid = amount_paid + $2, updated_at = $3
		WHERE id = $1 AND plan_id IS NOT NULL AND amount_paid + $2 <= plan_price`,
		memberID, int64(amount), time.Now().UTC(),
	)
	if err != nil {
		return member.Member{}, errors.Wrap(err, "applying abono")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return member.Member{}, errors.Wrap(err, "applying abono")
	}
	if n == 0 {
		// figure out which guard failed
		mbr, err := repo.GetMemberByID(ctx, memberID)
		if err != nil {
			return member.Member{}, err
		}
		if !mbr.HasPlan() {
			return member.Member{}, member.ErrNoActivePlan
		}
		return member.Member{}, member.ErrExceedsBalance
	}
	return repo.GetMemberByID(ctx, memberID)
}

func (repo memberRepository) DeleteMember(ctx context.Context, id string) error {
	// attendance and notification_log rows cascade via FK
	res, err := repo.exec.ExecContext(ctx, `DELETE FROM member WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting member")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return member.ErrNotFound
	}
	return nil
}
