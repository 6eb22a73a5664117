package member

import (
	"context"
	"errors"
	"time"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/plan"
)

var (
	// errors
	ErrNotFound         = errors.New("member not found")
	ErrNationalIDExists = errors.New("a member with this national ID already exists")
	ErrNoActivePlan     = errors.New("member has no plan assigned")
	ErrExceedsBalance   = errors.New("payment exceeds the remaining balance")
	ErrExpiredStart     = errors.New("membership window is already past")
)

type (
	Repository interface {
		CheckNationalIDUniqueness(ctx context.Context, nationalID string, excludedMembers ...Member) error
		CreateMember(ctx context.Context, mbr Member) (Member, error)
		// QueryMembers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of
		// Member.Name, Member.NationalID or Member.Phone.
		QueryMembers(ctx context.Context, filter QueryFilter) ([]Member, error)
		GetMemberByID(ctx context.Context, id string) (Member, error)
		GetMemberByNationalID(ctx context.Context, nationalID string) (Member, error)
		UpdateMember(ctx context.Context, mbr Member, isActive *bool) (Member, error)
		// ApplyAbono increments the amount paid atomically; it fails with
		// ErrNoActivePlan or ErrExceedsBalance without touching the row.
		ApplyAbono(ctx context.Context, memberID string, amount core.Money) (Member, error)
		// DeleteMember cascades over attendance and notification rows.
		DeleteMember(ctx context.Context, id string) error
	}

	Service struct {
		repo  Repository
		plans *plan.Service
		conf  *core.Config
	}
)

func NewService(repo Repository, plans *plan.Service, conf *core.Config) *Service {
	return &Service{repo: repo, plans: plans, conf: conf}
}

func (svc *Service) CheckUniqueness(nationalID string, exclMembers ...Member) error {
	if err := svc.repo.CheckNationalIDUniqueness(context.Background(), nationalID, exclMembers...); err != nil {
		if err == ErrNationalIDExists {
			return core.NewValidationError(err, core.FieldError{Field: "national_id", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nm NewMember) (Member, error) {
	if err := nm.Validate(svc); err != nil {
		return Member{}, err
	}
	now := time.Now().UTC()
	mbr := Member{
		NationalID:       nm.NationalID,
		Name:             nm.Name,
		Phone:            nm.Phone,
		Email:            nm.Email,
		Address:          nm.Address,
		EmergencyContact: nm.EmergencyContact,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return svc.repo.CreateMember(ctx, mbr)
}

// Query returns members matching filter, near-expiry active members first.
func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Member, error) {
	filter.Clean()
	members, err := svc.repo.QueryMembers(ctx, filter)
	if err != nil {
		return nil, err
	}
	SortNearExpiryFirst(members, time.Now(), svc.conf.Alert.ThresholdPercent)
	return members, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Member, error) {
	return svc.repo.GetMemberByID(ctx, id)
}

func (svc *Service) GetByNationalID(ctx context.Context, nationalID string) (Member, error) {
	return svc.repo.GetMemberByNationalID(ctx, core.CleanString(nationalID))
}

func (svc *Service) Update(ctx context.Context, id string, um UpdateMember) (Member, error) {
	origMbr, err := svc.repo.GetMemberByID(ctx, id)
	if err != nil {
		return Member{}, err
	}
	if err := um.Validate(origMbr, svc); err != nil {
		return Member{}, err
	}

	mbr := origMbr
	mbr.NationalID = um.NationalID
	mbr.Name = um.Name
	mbr.Phone = um.Phone
	mbr.Email = um.Email
	mbr.Address = um.Address
	mbr.EmergencyContact = um.EmergencyContact
	mbr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMember(ctx, mbr, um.IsActive)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteMember(ctx, id)
}

// AssignPlan binds the member to a plan and opens a fresh payment window.
// Plan name and price are snapshotted here; later catalog edits do not reach
// this member. A SingleDay assignment is priced at the amount paid and closes
// the same day it opens.
func (svc *Service) AssignPlan(ctx context.Context, memberID string, ap AssignPlan) (Member, error) {
	if err := ap.Validate(); err != nil {
		return Member{}, err
	}

	mbr, err := svc.repo.GetMemberByID(ctx, memberID)
	if err != nil {
		return Member{}, err
	}

	var pln plan.Plan
	if ap.PlanID == plan.SingleDay {
		pln = plan.DayPass(ap.AmountPaid)
	} else if pln, err = svc.plans.GetByID(ctx, ap.PlanID); err != nil {
		return Member{}, err
	}

	start := core.DateOf(ap.StartDate)
	end := pln.EndDate(start)
	if ap.PlanID == plan.SingleDay {
		end = start
	}

	if ap.AmountPaid > pln.Price {
		return Member{}, ErrExceedsBalance
	}
	if !svc.conf.Membership.AllowPastStart && core.DateOf(time.Now()).After(end) {
		return Member{}, ErrExpiredStart
	}

	mbr.PlanID = pln.ID
	mbr.PlanName = pln.Name
	mbr.PlanPrice = pln.Price
	mbr.StartDate = start
	mbr.EndDate = end
	mbr.AmountPaid = ap.AmountPaid
	mbr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMember(ctx, mbr, nil)
}

// RecordAbono applies a partial payment. The amount must be positive and may
// not exceed the remaining balance; the increment is atomic in storage so
// concurrent abonos cannot overshoot.
func (svc *Service) RecordAbono(ctx context.Context, memberID string, ab Abono) (Member, error) {
	if err := ab.Validate(); err != nil {
		return Member{}, err
	}
	return svc.repo.ApplyAbono(ctx, memberID, ab.Amount)
}

// EditMembership overwrites ledger fields wholesale (corrections only).
func (svc *Service) EditMembership(ctx context.Context, memberID string, em EditMembership) (Member, error) {
	if err := em.Validate(); err != nil {
		return Member{}, err
	}

	mbr, err := svc.repo.GetMemberByID(ctx, memberID)
	if err != nil {
		return Member{}, err
	}

	if em.PlanID != nil {
		mbr.PlanID = *em.PlanID
	}
	if em.PlanName != nil {
		mbr.PlanName = *em.PlanName
	}
	if em.PlanPrice != nil {
		mbr.PlanPrice = *em.PlanPrice
	}
	if em.StartDate != nil {
		mbr.StartDate = core.DateOf(*em.StartDate)
	}
	if em.EndDate != nil {
		mbr.EndDate = core.DateOf(*em.EndDate)
	}
	if em.AmountPaid != nil {
		mbr.AmountPaid = *em.AmountPaid
	}
	mbr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMember(ctx, mbr, nil)
}

// Snapshot derives the ledger view of a member at `now`; never cached.
func (svc *Service) Snapshot(ctx context.Context, memberID string, now time.Time) (Snapshot, error) {
	mbr, err := svc.repo.GetMemberByID(ctx, memberID)
	if err != nil {
		return Snapshot{}, err
	}
	return ComputeSnapshot(mbr, now), nil
}

// StateCounts aggregates all members per payment state at `now`.
func (svc *Service) StateCounts(ctx context.Context, now time.Time) (map[PaymentState]int, error) {
	members, err := svc.repo.QueryMembers(ctx, QueryFilter{})
	if err != nil {
		return nil, err
	}
	return CountsByState(members, now), nil
}

// Revenue sums the amounts paid by all members.
func (svc *Service) Revenue(ctx context.Context) (core.Money, error) {
	members, err := svc.repo.QueryMembers(ctx, QueryFilter{})
	if err != nil {
		return 0, err
	}
	return RevenueTotal(members), nil
}
