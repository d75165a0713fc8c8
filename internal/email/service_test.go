package emailService

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	mu   sync.Mutex
	sent []*email.Email
	err  error
}

func (r *recordingTransport) Send(msg *email.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func TestEmailService_SendsTemplatedEmailWithAttachment(t *testing.T) {
	log, _ := test.NewNullLogger()
	transport := &recordingTransport{}

	svc, err := NewEmailService("noreply@example.com", transport, log)
	require.NoError(t, err)

	data := MonthlyDigestData{
		UserName: "Alice",
		Month:    "September 2026",
		Rows:     []DigestRow{{CategoryName: "Food", Total: "120.50"}},
		Total:    "120.50",
	}
	err = svc.QueueEmail("alice@example.com", data, Attachment{
		Filename:    "expenses.png",
		ContentType: "image/png",
		Content:     []byte{0x89, 'P', 'N', 'G'},
	})
	require.NoError(t, err)

	svc.Close()

	require.Len(t, transport.sent, 1)
	msg := transport.sent[0]
	assert.Equal(t, "noreply@example.com", msg.From)
	assert.Equal(t, []string{"alice@example.com"}, msg.To)
	assert.Equal(t, "Your monthly spending summary (September 2026)", msg.Subject)
	assert.Contains(t, string(msg.HTML), "Hi Alice")
	assert.Contains(t, string(msg.HTML), "Food")
	assert.Contains(t, string(msg.HTML), "120.50")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "expenses.png", msg.Attachments[0].Filename)
}

func TestEmailService_TransportErrorDoesNotStopWorker(t *testing.T) {
	log, hook := test.NewNullLogger()
	transport := &recordingTransport{err: errors.New("connection refused")}

	svc, err := NewEmailService("noreply@example.com", transport, log)
	require.NoError(t, err)

	require.NoError(t, svc.QueueEmail("a@example.com", WelcomeData{UserName: "A"}))
	require.NoError(t, svc.QueueEmail("b@example.com", WelcomeData{UserName: "B"}))
	svc.Close()

	errorsLogged := 0
	for _, e := range hook.AllEntries() {
		if strings.Contains(e.Message, "Error sending email") {
			errorsLogged++
		}
	}
	assert.Equal(t, 2, errorsLogged)
}

func TestEmailService_QueueAfterClose(t *testing.T) {
	log, _ := test.NewNullLogger()
	svc, err := NewEmailService("noreply@example.com", &recordingTransport{}, log)
	require.NoError(t, err)

	svc.Close()
	svc.Close()

	err = svc.QueueEmail("a@example.com", WelcomeData{UserName: "A"})
	assert.ErrorIs(t, err, ErrServiceClosed)
}

func TestNoopSender(t *testing.T) {
	assert.NoError(t, NoopSender{}.QueueEmail("a@example.com", WelcomeData{UserName: "A"}))
}
