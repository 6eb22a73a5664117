package alert

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"golang.org/x/time/rate"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/member"
)

var (
	// errors
	ErrAlreadyNotified = errors.New("member already notified today")
)

// Log records one delivered reminder; at most one exists per (member, day),
// which keeps repeated batch runs from re-sending.
type Log struct {
	ID       string    `json:"id"`
	MemberID string    `json:"member_id"`
	Date     time.Time `json:"date"` // civil day
	Channel  string    `json:"channel"`
	SentAt   time.Time `json:"sent_at"` // UTC
}

// Evaluation pairs an eligible member with its rendered reminder.
type Evaluation struct {
	Member   member.Member
	Snapshot member.Snapshot
	Message  *core.ReminderMessage
}

type (
	LogRepository interface {
		// CreateLog inserts atomically with respect to the one-log-per
		// (member, day) constraint; a duplicate gets ErrAlreadyNotified.
		CreateLog(ctx context.Context, lg Log) (Log, error)
		HasLogForDay(ctx context.Context, memberID string, date time.Time) (bool, error)
	}

	Service struct {
		members     *member.Service
		logs        LogRepository
		reminderSvc core.ReminderService
		logger      core.Logger
		conf        *core.Config
		limiter     *rate.Limiter
	}
)

func NewService(members *member.Service, logs LogRepository, reminderSvc core.ReminderService, logger core.Logger, conf *core.Config) *Service {
	sendsPerMinute := conf.Alert.SendsPerMinute
	if sendsPerMinute <= 0 {
		sendsPerMinute = 30
	}
	return &Service{
		members:     members,
		logs:        logs,
		reminderSvc: reminderSvc,
		logger:      logger,
		conf:        conf,
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(sendsPerMinute)), 1),
	}
}

// Eligible applies the half-open alert window: an active member with
// thresholdPercent <= percentElapsed < 100. An expired membership is handled
// separately and never alerts.
func Eligible(m member.Member, snap member.Snapshot, thresholdPercent int) bool {
	return member.InAlertWindow(m, snap, thresholdPercent)
}

// Evaluate snapshots every active member at `now` and returns those inside
// the alert window, each with a rendered reminder. Results are never cached:
// percentElapsed moves with the clock.
func (svc *Service) Evaluate(ctx context.Context, now time.Time) ([]Evaluation, error) {
	isActive := true
	members, err := svc.members.Query(ctx, member.QueryFilter{IsActive: &isActive})
	if err != nil {
		return nil, err
	}

	evals := make([]Evaluation, 0, len(members))
	for _, mbr := range members {
		snap := member.ComputeSnapshot(mbr, now)
		if !Eligible(mbr, snap, svc.conf.Alert.ThresholdPercent) {
			continue
		}
		msg := &core.ReminderMessage{
			MemberID:      mbr.ID,
			Name:          mbr.Name,
			Phone:         mbr.Phone,
			Email:         mail.Address{Name: mbr.Name, Address: mbr.Email},
			Subject:       svc.conf.Alert.Subject,
			DaysRemaining: snap.DaysRemaining,
			Template:      svc.conf.Alert.ReminderTemplate,
		}
		if mbr.Email == "" {
			msg.Email = mail.Address{}
		}
		msg.Render()
		evals = append(evals, Evaluation{Member: mbr, Snapshot: snap, Message: msg})
	}
	return evals, nil
}

// SendReminders evaluates and delivers, skipping members already notified
// today; repeated runs on the same day are no-ops. Returns the sent count.
func (svc *Service) SendReminders(ctx context.Context, now time.Time) (int, error) {
	evals, err := svc.Evaluate(ctx, now)
	if err != nil {
		return 0, err
	}

	day := core.DateOf(now)
	var sent int
	for _, ev := range evals {
		notified, err := svc.logs.HasLogForDay(ctx, ev.Member.ID, day)
		if err != nil {
			return sent, err
		}
		if notified || !ev.Message.HasRecipient() {
			continue
		}

		if err := svc.limiter.Wait(ctx); err != nil {
			return sent, err
		}
		svc.reminderSvc.SendReminders(ev.Message)

		if _, err := svc.logs.CreateLog(ctx, Log{
			MemberID: ev.Member.ID,
			Date:     day,
			Channel:  svc.reminderSvc.Channel(),
			SentAt:   time.Now().UTC(),
		}); err != nil {
			if err == ErrAlreadyNotified { // concurrent batch got there first
				continue
			}
			return sent, err
		}
		sent++
		svc.logger.Info("renewal reminder sent",
			"member", ev.Member.ID, "days_remaining", ev.Snapshot.DaysRemaining)
	}
	return sent, nil
}
