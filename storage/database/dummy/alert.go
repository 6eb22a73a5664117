package dummydb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/alert"
)

type notificationLogRepository struct {
	db *logTable
}

var _ alert.LogRepository = (*notificationLogRepository)(nil) // interface compliance check

func NewNotificationLogRepository(db *DB) alert.LogRepository {
	return &notificationLogRepository{db: db.log}
}

func (repo *notificationLogRepository) CreateLog(ctx context.Context, lg alert.Log) (alert.Log, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, l := range repo.db.table {
		if l.MemberID == lg.MemberID && core.SameDay(l.Date, lg.Date) {
			return alert.Log{}, alert.ErrAlreadyNotified
		}
	}
	lg.ID = uuid.New().String()
	repo.db.table[lg.ID] = &lg
	return lg, nil
}

func (repo *notificationLogRepository) HasLogForDay(ctx context.Context, memberID string, date time.Time) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, l := range repo.db.table {
		if l.MemberID == memberID && core.SameDay(l.Date, date) {
			return true, nil
		}
	}
	return false, nil
}
