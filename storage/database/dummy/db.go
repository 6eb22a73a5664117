// Package dummydb provides in-memory repositories for tests and local runs.
package dummydb

import (
	"sync"

	"github.com/jherparva/TauroGym-sub000/core/alert"
	"github.com/jherparva/TauroGym-sub000/core/attendance"
	"github.com/jherparva/TauroGym-sub000/core/member"
	"github.com/jherparva/TauroGym-sub000/core/plan"
)

type (
	planTable struct {
		sync.RWMutex
		table map[string]*plan.Plan
	}
	memberTable struct {
		sync.RWMutex
		table map[string]*member.Member
	}
	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Record
	}
	logTable struct {
		sync.RWMutex
		table map[string]*alert.Log
	}

	DB struct {
		plan       *planTable
		member     *memberTable
		attendance *attendanceTable
		log        *logTable
	}
)

func NewDB() *DB {
	return &DB{
		plan:       &planTable{table: make(map[string]*plan.Plan)},
		member:     &memberTable{table: make(map[string]*member.Member)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Record)},
		log:        &logTable{table: make(map[string]*alert.Log)},
	}
}
