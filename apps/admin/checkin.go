package main

import (
	"context"
	"fmt"
	"time"
)

// checkIn registers today's entry for the member holding the given national ID.
func (cli *commandLine) checkIn(nationalID string) error {
	ctx := context.Background()

	mbr, err := cli.memberSvc.GetByNationalID(ctx, nationalID)
	if err != nil {
		return err
	}
	rec, err := cli.attendanceSvc.CheckIn(ctx, mbr.ID, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("%s checked in at %s\n", mbr.Name, rec.CheckInTime.Format(time.Kitchen))
	return nil
}
