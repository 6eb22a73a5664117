package main

import (
	"context"
	"fmt"
	"time"
)

// remind sends renewal reminders to members whose membership window is
// nearly elapsed and who have not been notified today.
func (cli *commandLine) remind() error {
	sent, err := cli.alertSvc.SendReminders(context.Background(), time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("%d reminder(s) sent\n", sent)
	return nil
}
