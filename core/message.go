package core

import (
	"net/mail"
	"strconv"
	"strings"
)

// placeholders supported by the reminder template
const (
	PlaceholderName          = "{name}"
	PlaceholderDaysRemaining = "{daysRemaining}"
)

type (
	// ReminderMessage is a renewal notice addressed to a single member.
	// The actual transport (WhatsApp, SMS, email) lives behind ReminderService.
	ReminderMessage struct {
		MemberID      string
		Name          string
		Phone         string
		Email         mail.Address
		Subject       string
		DaysRemaining int

		Template string // with placeholders
		Content  string // rendered
	}

	// ReminderService is any service that can deliver rendered reminders.
	ReminderService interface {
		// Channel names the delivery medium for the notification log.
		Channel() string
		// SendReminders sends messages concurrently
		SendReminders(messages ...*ReminderMessage)
	}
)

// Render fills the template placeholders into Content.
func (m *ReminderMessage) Render() {
	m.Content = strings.NewReplacer(
		PlaceholderName, m.Name,
		PlaceholderDaysRemaining, strconv.Itoa(m.DaysRemaining),
	).Replace(m.Template)
}

func (m *ReminderMessage) HasRecipient() bool {
	return m.Phone != "" || m.Email.Address != ""
}

func (m *ReminderMessage) HasContent() bool { return m.Content != "" }
