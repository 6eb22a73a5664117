package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/attendance"
	"github.com/jherparva/TauroGym-sub000/core/member"
	"github.com/jherparva/TauroGym-sub000/core/plan"
)

// Date builds a civil day in the local zone; hours past 24 roll over.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func CreatePlan(
	t *testing.T,
	repo plan.Repository,
	name string,
	price core.Money,
	durationValue int,
	durationUnit plan.DurationUnit,
) plan.Plan {
	t.Helper()
	tstamp := time.Now().UTC()
	pln := plan.Plan{
		Name:          name,
		Price:         price,
		DurationValue: durationValue,
		DurationUnit:  durationUnit,
		IsActive:      true,
		CreatedAt:     tstamp,
		UpdatedAt:     tstamp,
	}
	pln, err := repo.CreatePlan(context.Background(), pln)
	if err != nil {
		t.Fatalf("createPlan() failed: %v", err)
	}
	return pln
}

func CreateMember(
	t *testing.T,
	repo member.Repository,
	name, nationalID string,
	isActive bool,
) member.Member {
	t.Helper()
	tstamp := time.Now().UTC()
	mbr := member.Member{
		Name:       name,
		NationalID: nationalID,
		IsActive:   isActive,
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	}
	mbr, err := repo.CreateMember(context.Background(), mbr)
	if err != nil {
		t.Fatalf("createMember() failed: %v", err)
	}
	return mbr
}

// CreateMemberWithPlan seeds a member whose ledger already holds a plan
// window, bypassing the assignment policy checks.
func CreateMemberWithPlan(
	t *testing.T,
	repo member.Repository,
	name, nationalID string,
	pln plan.Plan,
	start time.Time,
	amountPaid core.Money,
) member.Member {
	t.Helper()
	tstamp := time.Now().UTC()
	start = core.DateOf(start)
	mbr := member.Member{
		Name:       name,
		NationalID: nationalID,
		IsActive:   true,
		PlanID:     pln.ID,
		PlanName:   pln.Name,
		PlanPrice:  pln.Price,
		StartDate:  start,
		EndDate:    pln.EndDate(start),
		AmountPaid: amountPaid,
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	}
	mbr, err := repo.CreateMember(context.Background(), mbr)
	if err != nil {
		t.Fatalf("createMemberWithPlan() failed: %v", err)
	}
	return mbr
}

func CreateRecord(
	t *testing.T,
	repo attendance.Repository,
	memberID string,
	checkIn time.Time,
) attendance.Record {
	t.Helper()
	tstamp := time.Now().UTC()
	rec := attendance.Record{
		MemberID:    memberID,
		Date:        core.DateOf(checkIn),
		CheckInTime: checkIn,
		Attended:    true,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	}
	rec, err := repo.CreateRecord(context.Background(), rec)
	if err != nil {
		t.Fatalf("createRecord() failed: %v", err)
	}
	return rec
}
