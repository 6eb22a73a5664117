package main

import (
	"log"
	"os"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/alert"
	"github.com/jherparva/TauroGym-sub000/core/attendance"
	"github.com/jherparva/TauroGym-sub000/core/member"
	"github.com/jherparva/TauroGym-sub000/core/plan"
	logsvc "github.com/jherparva/TauroGym-sub000/services/logger"
	remindersvc "github.com/jherparva/TauroGym-sub000/services/reminder"
	"github.com/jherparva/TauroGym-sub000/storage/database"
	sqlxrepos "github.com/jherparva/TauroGym-sub000/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.LoadConf()
	errAndDie(err)

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	appLogger := newAppLogger(logger, conf)
	planSvc := plan.NewService(sqlxrepos.NewPlanRepository(db))
	memberSvc := member.NewService(sqlxrepos.NewMemberRepository(db), planSvc, conf)
	attendanceSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db))
	alertSvc := alert.NewService(
		memberSvc,
		sqlxrepos.NewNotificationLogRepository(db),
		newReminderService(conf, appLogger),
		appLogger,
		conf,
	)

	// start CLI
	cli := commandLine{
		db:            db,
		planSvc:       planSvc,
		memberSvc:     memberSvc,
		attendanceSvc: attendanceSvc,
		alertSvc:      alertSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

// newAppLogger reports to rollbar when a token is configured.
func newAppLogger(std *log.Logger, conf *core.Config) core.Logger {
	if conf.RollbarToken != "" {
		return logsvc.NewRollbarLogger(std, conf)
	}
	return logsvc.NewStdLogger(std)
}

// newReminderService picks the delivery channel: console locally, sendgrid
// email in deployed environments holding a key.
func newReminderService(conf *core.Config, logger core.Logger) core.ReminderService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return remindersvc.NewConsoleService()
	}
	return remindersvc.NewSendgridService(logger)
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
