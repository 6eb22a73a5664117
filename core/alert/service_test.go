package alert_test

import (
	"context"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/alert"
	"github.com/jherparva/TauroGym-sub000/core/member"
	"github.com/jherparva/TauroGym-sub000/core/plan"
	logsvc "github.com/jherparva/TauroGym-sub000/services/logger"
	remindersvc "github.com/jherparva/TauroGym-sub000/services/reminder"
	dummydb "github.com/jherparva/TauroGym-sub000/storage/database/dummy"
	testutil "github.com/jherparva/TauroGym-sub000/tests"
)

type fixture struct {
	svc      *alert.Service
	mbrRepo  member.Repository
	planRepo plan.Repository
	logRepo  alert.LogRepository
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := dummydb.NewDB()
	planRepo := dummydb.NewPlanRepository(db)
	mbrRepo := dummydb.NewMemberRepository(db)
	logRepo := dummydb.NewNotificationLogRepository(db)
	mbrSvc := member.NewService(mbrRepo, plan.NewService(planRepo), core.Conf)
	logger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	svc := alert.NewService(mbrSvc, logRepo, remindersvc.NewConsoleServiceMock(), logger, core.Conf)
	return fixture{svc: svc, mbrRepo: mbrRepo, planRepo: planRepo, logRepo: logRepo}
}

// seedMember registers a member with a 30-day window starting `start` and a
// contact email.
func seedMember(t *testing.T, fix fixture, name, nid string, pln plan.Plan, start time.Time) member.Member {
	t.Helper()
	mbr := testutil.CreateMemberWithPlan(t, fix.mbrRepo, name, nid, pln, start, 0)
	email := name + "@test.co"
	if _, err := fix.mbrRepo.UpdateMember(context.Background(), withEmail(mbr, strings.ToLower(email)), nil); err != nil {
		t.Fatalf("UpdateMember() failed: %v", err)
	}
	mbr.Email = strings.ToLower(email)
	return mbr
}

func withEmail(mbr member.Member, email string) member.Member {
	mbr.Email = email
	return mbr
}

func TestService_Evaluate(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()

	pln := testutil.CreatePlan(t, fix.planRepo, "Mensualidad", 100000, 1, plan.UnitMonth)

	start := testutil.Date(2026, time.April, 1) // April: 30-day window
	now := testutil.Date(2026, time.April, 29)  // 93% elapsed

	near := seedMember(t, fix, "near", "1000000001", pln, start)
	seedMember(t, fix, "fresh", "1000000002", pln, testutil.Date(2026, time.April, 25))
	seedMember(t, fix, "expired", "1000000003", pln, testutil.Date(2026, time.February, 1))

	inactive := testutil.CreateMemberWithPlan(t, fix.mbrRepo, "inactive", "1000000004", pln, start, 0)
	off := false
	if _, err := fix.mbrRepo.UpdateMember(ctx, inactive, &off); err != nil {
		t.Fatalf("UpdateMember() failed: %v", err)
	}

	evals, err := fix.svc.Evaluate(ctx, now)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if len(evals) != 1 {
		t.Fatalf("Evaluate() returned %d members, want 1", len(evals))
	}
	ev := evals[0]
	if ev.Member.ID != near.ID {
		t.Errorf("Evaluate() picked %s, want %s", ev.Member.Name, near.Name)
	}
	if ev.Snapshot.DaysRemaining != 2 {
		t.Errorf("Evaluate() days remaining = %d, want 2", ev.Snapshot.DaysRemaining)
	}

	// template placeholders are filled in
	if !strings.Contains(ev.Message.Content, "near") || !strings.Contains(ev.Message.Content, "2") {
		t.Errorf("Evaluate() rendered content = %q", ev.Message.Content)
	}
	if strings.Contains(ev.Message.Content, "{") {
		t.Errorf("Evaluate() left a placeholder in %q", ev.Message.Content)
	}
}

func TestService_SendReminders(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()

	pln := testutil.CreatePlan(t, fix.planRepo, "Mensualidad", 100000, 1, plan.UnitMonth)
	start := testutil.Date(2026, time.April, 1)
	now := testutil.Date(2026, time.April, 29)

	near1 := seedMember(t, fix, "near1", "1000000001", pln, start)
	near2 := seedMember(t, fix, "near2", "1000000002", pln, start)
	// eligible but unreachable: no phone, no email
	testutil.CreateMemberWithPlan(t, fix.mbrRepo, "mute", "1000000003", pln, start, 0)

	sent, err := fix.svc.SendReminders(ctx, now)
	if err != nil {
		t.Fatalf("SendReminders() failed: %v", err)
	}
	if sent != 2 {
		t.Errorf("SendReminders() = %d, want 2", sent)
	}

	for _, mbr := range []member.Member{near1, near2} {
		notified, err := fix.logRepo.HasLogForDay(ctx, mbr.ID, now)
		if err != nil {
			t.Fatalf("HasLogForDay() failed: %v", err)
		}
		if !notified {
			t.Errorf("no notification log for %s", mbr.Name)
		}
	}

	// a second run the same day is a no-op
	if sent, err = fix.svc.SendReminders(ctx, now); err != nil {
		t.Fatalf("SendReminders() failed: %v", err)
	}
	if sent != 0 {
		t.Errorf("second SendReminders() = %d, want 0", sent)
	}

	// the next day opens fresh slots
	if sent, err = fix.svc.SendReminders(ctx, now.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("SendReminders() failed: %v", err)
	}
	if sent != 2 {
		t.Errorf("next-day SendReminders() = %d, want 2", sent)
	}
}

func TestService_SendReminders_logChannel(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()

	pln := testutil.CreatePlan(t, fix.planRepo, "Mensualidad", 100000, 1, plan.UnitMonth)
	mbr := seedMember(t, fix, "near", "1000000001", pln, testutil.Date(2026, time.April, 1))
	now := testutil.Date(2026, time.April, 29)

	if _, err := fix.svc.SendReminders(ctx, now); err != nil {
		t.Fatalf("SendReminders() failed: %v", err)
	}

	// a concurrent batch that already logged wins; ours skips quietly
	day := core.DateOf(now)
	if _, err := fix.logRepo.CreateLog(ctx, alert.Log{MemberID: mbr.ID, Date: day, Channel: "console", SentAt: time.Now().UTC()}); err != alert.ErrAlreadyNotified {
		t.Errorf("CreateLog() error = %v, want ErrAlreadyNotified", err)
	}
}
