package remindersvc

import (
	"fmt"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/jherparva/TauroGym-sub000/core"
)

var (
	SentReminders = make([]core.ReminderMessage, 0)
	mu            sync.Mutex
)

type consoleService struct {
	defaultFromEmail mail.Address
	subjPrefix       string
	disableOutput    bool
}

var _ core.ReminderService = (*consoleService)(nil)

func NewConsoleService() core.ReminderService {
	return &consoleService{
		defaultFromEmail: core.Conf.DefaultFromEmail(),
		subjPrefix:       "[" + core.Conf.AppName + "] ",
	}
}

func (svc consoleService) Channel() string { return "console" }

func (svc consoleService) SendReminders(messages ...*core.ReminderMessage) {
	for _, msg := range messages {
		go svc.sendMessage(msg)
	}
}

func (svc consoleService) sendMessage(msg *core.ReminderMessage) {
	msg.Render()
	if msg.HasRecipient() && msg.HasContent() {
		svc.send(*msg)
		mu.Lock()
		SentReminders = append(SentReminders, *msg)
		mu.Unlock()
	}
}

func (svc consoleService) send(msg core.ReminderMessage) {
	body := new(strings.Builder)

	_, _ = fmt.Fprintf(body, "From: %s\r\n", svc.defaultFromEmail.String())
	_, _ = fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprintf(body, "Subject: %s\r\n", svc.subjPrefix+msg.Subject)
	_, _ = fmt.Fprintf(body, "To: %s\r\n", msg.Email.String())
	if msg.Phone != "" {
		_, _ = fmt.Fprintf(body, "Phone: %s\r\n", msg.Phone)
	}
	_, _ = fmt.Fprint(body, "\r\n")
	_, _ = fmt.Fprintf(body, "%s\r\n", msg.Content)

	if !svc.disableOutput {
		log.Println(body.String())
	}
}

type consoleServiceMock struct {
	consoleService
}

func NewConsoleServiceMock() core.ReminderService {
	return &consoleServiceMock{
		consoleService: consoleService{
			defaultFromEmail: core.Conf.DefaultFromEmail(),
			subjPrefix:       "[" + core.Conf.AppName + "] ",
			disableOutput:    true,
		},
	}
}

func (svc *consoleServiceMock) SendReminders(messages ...*core.ReminderMessage) {
	for _, msg := range messages {
		// run synchronously
		svc.sendMessage(msg)
	}
}

func ClearSentReminders() {
	mu.Lock()
	SentReminders = SentReminders[:0]
	mu.Unlock()
}
