package member_test

import (
	"context"
	"testing"
	"time"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/member"
	"github.com/jherparva/TauroGym-sub000/core/plan"
	dummydb "github.com/jherparva/TauroGym-sub000/storage/database/dummy"
	testutil "github.com/jherparva/TauroGym-sub000/tests"
)

func setup(t *testing.T) (*member.Service, member.Repository, plan.Repository) {
	t.Helper()
	db := dummydb.NewDB()
	planRepo := dummydb.NewPlanRepository(db)
	mbrRepo := dummydb.NewMemberRepository(db)
	svc := member.NewService(mbrRepo, plan.NewService(planRepo), core.Conf)
	return svc, mbrRepo, planRepo
}

func TestService_Create(t *testing.T) {
	svc, mbrRepo, _ := setup(t)
	ctx := context.Background()

	testutil.CreateMember(t, mbrRepo, "Ana", "1234567890", true)

	tests := []struct {
		name     string
		nm       member.NewMember
		wantFlds []string
		wantErr  bool
	}{
		{name: "ok", nm: member.NewMember{NationalID: "1098765432", Name: "Luis", Phone: "3001234567"}},
		{name: "missing name", nm: member.NewMember{NationalID: "1098765433"}, wantErr: true, wantFlds: []string{"name"}},
		{name: "bad cedula", nm: member.NewMember{NationalID: "12ab", Name: "Luis"}, wantErr: true, wantFlds: []string{"national_id"}},
		{name: "bad email", nm: member.NewMember{NationalID: "1098765434", Name: "Luis", Email: "nope"}, wantErr: true, wantFlds: []string{"email"}},
		{name: "duplicate cedula", nm: member.NewMember{NationalID: "1234567890", Name: "Otra Ana"}, wantErr: true, wantFlds: []string{"national_id"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mbr, err := svc.Create(ctx, tt.nm)
			if tt.wantErr {
				vErr, ok := err.(*core.ValidationError)
				if !ok {
					t.Fatalf("Create() error = %v, want *core.ValidationError", err)
				}
				for _, wantFld := range tt.wantFlds {
					var found bool
					for _, fld := range vErr.Fields {
						if fld.Field == wantFld {
							found = true
							break
						}
					}
					if !found {
						t.Errorf("Create() missing field error %q in %+v", wantFld, vErr.Fields)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() failed: %v", err)
			}
			if mbr.ID == "" || !mbr.IsActive {
				t.Errorf("Create() = %+v; want ID set and active", mbr)
			}
			if mbr.HasPlan() {
				t.Errorf("Create() assigned a plan: %+v", mbr)
			}
		})
	}
}

func TestService_AssignPlanAndAbonos(t *testing.T) {
	svc, mbrRepo, planRepo := setup(t)
	ctx := context.Background()

	pln := testutil.CreatePlan(t, planRepo, "Mensualidad", 100000, 1, plan.UnitMonth)
	mbr := testutil.CreateMember(t, mbrRepo, "Ana", "1234567890", true)

	start := testutil.Date(2026, time.April, 1)
	mbr, err := svc.AssignPlan(ctx, mbr.ID, member.AssignPlan{PlanID: pln.ID, StartDate: start, AmountPaid: 40000})
	if err != nil {
		t.Fatalf("AssignPlan() failed: %v", err)
	}
	if mbr.PlanName != "Mensualidad" || mbr.PlanPrice != 100000 {
		t.Errorf("AssignPlan() did not snapshot the plan: %+v", mbr)
	}
	if !mbr.EndDate.Equal(start.AddDate(0, 1, 0)) {
		t.Errorf("AssignPlan() EndDate = %v, want %v", mbr.EndDate, start.AddDate(0, 1, 0))
	}

	// catalog edits must not reach the snapshot
	newPrice := core.Money(999999)
	if _, err = plan.NewService(planRepo).Update(ctx, pln.ID, plan.UpdatePlan{Price: &newPrice}); err != nil {
		t.Fatalf("plan Update() failed: %v", err)
	}
	if mbr, err = svc.GetByID(ctx, mbr.ID); err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if mbr.PlanPrice != 100000 {
		t.Errorf("catalog edit leaked into ledger: price = %d", mbr.PlanPrice)
	}

	snap := member.ComputeSnapshot(mbr, testutil.Date(2026, time.April, 16))
	if snap.State != member.StatePartiallyPaid || snap.BalanceDue != 60000 {
		t.Errorf("snapshot after initial payment = %+v", snap)
	}

	// abono exceeding the balance is rejected without touching the ledger
	if _, err = svc.RecordAbono(ctx, mbr.ID, member.Abono{Amount: 60001}); err != member.ErrExceedsBalance {
		t.Errorf("RecordAbono() error = %v, want ErrExceedsBalance", err)
	}
	if mbr, _ = svc.GetByID(ctx, mbr.ID); mbr.AmountPaid != 40000 {
		t.Errorf("rejected abono modified the ledger: paid = %d", mbr.AmountPaid)
	}

	// non-positive amounts are invalid
	if _, err = svc.RecordAbono(ctx, mbr.ID, member.Abono{Amount: 0}); err == nil {
		t.Error("RecordAbono(0) did not fail")
	}

	// settling the balance completes the membership
	mbr, err = svc.RecordAbono(ctx, mbr.ID, member.Abono{Amount: 60000})
	if err != nil {
		t.Fatalf("RecordAbono() failed: %v", err)
	}
	snap = member.ComputeSnapshot(mbr, testutil.Date(2026, time.April, 16))
	if snap.State != member.StateCompleted || snap.BalanceDue != 0 || snap.PercentPaid != 100 {
		t.Errorf("snapshot after settling = %+v", snap)
	}
}

func TestService_AssignPlan_edgeCases(t *testing.T) {
	svc, mbrRepo, planRepo := setup(t)
	ctx := context.Background()

	pln := testutil.CreatePlan(t, planRepo, "Mensualidad", 100000, 1, plan.UnitMonth)
	mbr := testutil.CreateMember(t, mbrRepo, "Ana", "1234567890", true)
	start := testutil.Date(2026, time.April, 1)

	// overpayment at assignment
	if _, err := svc.AssignPlan(ctx, mbr.ID, member.AssignPlan{PlanID: pln.ID, StartDate: start, AmountPaid: 100001}); err != member.ErrExceedsBalance {
		t.Errorf("AssignPlan() error = %v, want ErrExceedsBalance", err)
	}

	// unknown plan
	if _, err := svc.AssignPlan(ctx, mbr.ID, member.AssignPlan{PlanID: "nope", StartDate: start}); err != plan.ErrNotFound {
		t.Errorf("AssignPlan() error = %v, want plan.ErrNotFound", err)
	}

	// unknown member
	if _, err := svc.AssignPlan(ctx, "nope", member.AssignPlan{PlanID: pln.ID, StartDate: start}); err != member.ErrNotFound {
		t.Errorf("AssignPlan() error = %v, want member.ErrNotFound", err)
	}

	// single-day pass: priced at the amount paid, closes same day
	mbr, err := svc.AssignPlan(ctx, mbr.ID, member.AssignPlan{PlanID: plan.SingleDay, StartDate: start, AmountPaid: 5000})
	if err != nil {
		t.Fatalf("AssignPlan(single-day) failed: %v", err)
	}
	if mbr.PlanPrice != 5000 || !mbr.EndDate.Equal(mbr.StartDate) {
		t.Errorf("single-day assignment = %+v", mbr)
	}
	snap := member.ComputeSnapshot(mbr, start.Add(12*time.Hour))
	if snap.State != member.StateCompleted || snap.PercentElapsed != 100 {
		t.Errorf("single-day snapshot = %+v", snap)
	}

	// abono on a member with no plan
	mbr2 := testutil.CreateMember(t, mbrRepo, "Luis", "1098765432", true)
	if _, err := svc.RecordAbono(ctx, mbr2.ID, member.Abono{Amount: 1000}); err != member.ErrNoActivePlan {
		t.Errorf("RecordAbono() error = %v, want ErrNoActivePlan", err)
	}

	// reassignment resets the payment window
	pln2 := testutil.CreatePlan(t, planRepo, "Semana", 25000, 1, plan.UnitWeek)
	mbr, err = svc.AssignPlan(ctx, mbr.ID, member.AssignPlan{PlanID: pln2.ID, StartDate: start.AddDate(0, 1, 0)})
	if err != nil {
		t.Fatalf("AssignPlan() failed: %v", err)
	}
	if mbr.AmountPaid != 0 || mbr.PlanPrice != 25000 {
		t.Errorf("reassignment kept the old window: %+v", mbr)
	}
}

func TestService_EditMembership(t *testing.T) {
	svc, mbrRepo, planRepo := setup(t)
	ctx := context.Background()

	pln := testutil.CreatePlan(t, planRepo, "Mensualidad", 100000, 1, plan.UnitMonth)
	start := testutil.Date(2026, time.April, 1)
	mbr := testutil.CreateMemberWithPlan(t, mbrRepo, "Ana", "1234567890", pln, start, 40000)

	// corrections overwrite without re-derivation
	paid := core.Money(70000)
	end := testutil.Date(2026, time.June, 1)
	mbr, err := svc.EditMembership(ctx, mbr.ID, member.EditMembership{AmountPaid: &paid, EndDate: &end})
	if err != nil {
		t.Fatalf("EditMembership() failed: %v", err)
	}
	if mbr.AmountPaid != 70000 || !mbr.EndDate.Equal(end) {
		t.Errorf("EditMembership() = %+v", mbr)
	}
	if mbr.PlanPrice != 100000 || !mbr.StartDate.Equal(start) {
		t.Errorf("EditMembership() touched untargeted fields: %+v", mbr)
	}

	// negative amounts are invalid
	bad := core.Money(-1)
	if _, err := svc.EditMembership(ctx, mbr.ID, member.EditMembership{AmountPaid: &bad}); err == nil {
		t.Error("EditMembership(-1) did not fail")
	}
}

func TestService_Query_nearExpiryFirst(t *testing.T) {
	svc, mbrRepo, planRepo := setup(t)
	ctx := context.Background()

	// fixed 15-day window: elapsed percentages hold whatever today's date is
	pln := testutil.CreatePlan(t, planRepo, "Quincena", 40000, 1, plan.UnitFortnight)

	// windows relative to the real clock: Query sorts at time.Now()
	nearStart := core.DateOf(time.Now()).AddDate(0, 0, -14) // ~95% elapsed
	farStart := core.DateOf(time.Now()).AddDate(0, 0, -2)   // ~15% elapsed
	testutil.CreateMemberWithPlan(t, mbrRepo, "Far", "1000000001", pln, farStart, 0)
	near := testutil.CreateMemberWithPlan(t, mbrRepo, "Near", "1000000002", pln, nearStart, 0)

	members, err := svc.Query(ctx, member.QueryFilter{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("Query() returned %d members, want 2", len(members))
	}
	if members[0].ID != near.ID {
		t.Errorf("Query() order = [%s %s], want near-expiry first", members[0].Name, members[1].Name)
	}

	// search filter
	members, err = svc.Query(ctx, member.QueryFilter{Search: "near"})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(members) != 1 || members[0].ID != near.ID {
		t.Errorf("Query(search) = %+v", members)
	}
}

func TestService_aggregates(t *testing.T) {
	svc, mbrRepo, planRepo := setup(t)
	ctx := context.Background()

	pln := testutil.CreatePlan(t, planRepo, "Mensualidad", 100000, 1, plan.UnitMonth)
	start := testutil.Date(2026, time.April, 1)
	now := testutil.Date(2026, time.April, 16)

	testutil.CreateMemberWithPlan(t, mbrRepo, "Pendiente", "1000000001", pln, start, 0)
	testutil.CreateMemberWithPlan(t, mbrRepo, "Parcial", "1000000002", pln, start, 40000)
	testutil.CreateMemberWithPlan(t, mbrRepo, "Pagada", "1000000003", pln, start, 100000)
	testutil.CreateMember(t, mbrRepo, "Sin Plan", "1000000004", true)

	counts, err := svc.StateCounts(ctx, now)
	if err != nil {
		t.Fatalf("StateCounts() failed: %v", err)
	}
	want := map[member.PaymentState]int{
		member.StatePending:       1,
		member.StatePartiallyPaid: 1,
		member.StateCompleted:     1,
		member.StateNone:          1,
	}
	for state, n := range want {
		if counts[state] != n {
			t.Errorf("counts[%s] = %d, want %d", state, counts[state], n)
		}
	}

	revenue, err := svc.Revenue(ctx)
	if err != nil {
		t.Fatalf("Revenue() failed: %v", err)
	}
	if revenue != 140000 {
		t.Errorf("Revenue() = %d, want 140000", revenue)
	}
}

func TestService_Update(t *testing.T) {
	svc, mbrRepo, _ := setup(t)
	ctx := context.Background()

	mbr := testutil.CreateMember(t, mbrRepo, "Ana", "1234567890", true)
	testutil.CreateMember(t, mbrRepo, "Luis", "1098765432", true)

	// partial update keeps the untouched identity fields
	got, err := svc.Update(ctx, mbr.ID, member.UpdateMember{Phone: "3009876543"})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if got.Name != "Ana" || got.NationalID != "1234567890" || got.Phone != "3009876543" {
		t.Errorf("Update() = %+v", got)
	}

	// cannot steal another member's national ID
	if _, err = svc.Update(ctx, mbr.ID, member.UpdateMember{NationalID: "1098765432"}); err == nil {
		t.Error("Update() with duplicate national ID did not fail")
	}

	// deactivation
	isActive := false
	if got, err = svc.Update(ctx, mbr.ID, member.UpdateMember{IsActive: &isActive}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if got.IsActive {
		t.Error("Update() did not deactivate the member")
	}
}
