package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jherparva/TauroGym-sub000/core/alert"
	"github.com/jherparva/TauroGym-sub000/core/attendance"
	"github.com/jherparva/TauroGym-sub000/core/member"
	"github.com/jherparva/TauroGym-sub000/core/plan"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db            *sqlx.DB
	planSvc       *plan.Service
	memberSvc     *member.Service
	attendanceSvc *attendance.Service
	alertSvc      *alert.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS]  - run DB migrations (up, down, status, ...)")
	fmt.Println("  seedplans               - create the default plan catalog")
	fmt.Println("  checkin -cedula ID      - register today's gym entry for a member")
	fmt.Println("  remind                  - send renewal reminders to members near expiry")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	checkinCmd := flag.NewFlagSet("checkin", flag.ExitOnError)
	checkinCedula := checkinCmd.String("cedula", "", "The member's national ID.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seedplans":
		return cli.seedPlans()
	case "checkin":
		if err := checkinCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *checkinCedula == "" {
			checkinCmd.Usage()
			return errHelp
		}
		return cli.checkIn(*checkinCedula)
	case "remind":
		return cli.remind()
	default:
		cli.printUsage()
		return errHelp
	}
}
