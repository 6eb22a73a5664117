package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/alert"
)

type logRow struct {
	ID       string    `db:"id"`
	MemberID string    `db:"member_id"`
	Date     time.Time `db:"date"`
	Channel  string    `db:"channel"`
	SentAt   time.Time `db:"sent_at"`
}

type notificationLogRepository struct {
	exec core.DBExecutor
}

var _ alert.LogRepository = (*notificationLogRepository)(nil) // interface compliance check

func NewNotificationLogRepository(exec core.DBExecutor) *notificationLogRepository {
	return &notificationLogRepository{exec: exec}
}

func (repo notificationLogRepository) CreateLog(ctx context.Context, lg alert.Log) (alert.Log, error) {
	lg.ID = uuid.New().String()
	row := logRow{
		ID:       lg.ID,
		MemberID: lg.MemberID,
		Date:     lg.Date,
		Channel:  lg.Channel,
		SentAt:   lg.SentAt.UTC(),
	}
	_, err := repo.exec.ExecContext(ctx,
		`INSERT INTO notification_log (id, member_id, date, channel, sent_at) VALUES ($1, $2, $3, $4, $5)`,
		row.ID, row.MemberID, row.Date, row.Channel, row.SentAt,
	)
	if err != nil {
		if isUniqueViolation(err, "notification_log_member_id_date_key") {
			return alert.Log{}, alert.ErrAlreadyNotified
		}
		return alert.Log{}, errors.Wrap(err, "inserting notification log")
	}
	return lg, nil
}

func (repo notificationLogRepository) HasLogForDay(ctx context.Context, memberID string, date time.Time) (bool, error) {
	var exists bool
	err := repo.exec.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM notification_log WHERE member_id = $1 AND date = $2)`, memberID, date)
	if err != nil {
		return false, errors.Wrap(err, "checking notification log")
	}
	return exists, nil
}
