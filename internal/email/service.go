package emailService

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"sync"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

const (
	subjectWelcome        = "Welcome to Expense Tracker"
	templateWelcome       = "welcome.html"
	subjectMonthlyDigest  = "Your monthly spending summary"
	templateMonthlyDigest = "monthly_digest.html"

	queueCapacity = 100
)

//go:embed templates/*.html
var templatesFS embed.FS

var ErrServiceClosed = errors.New("email service is closed")

type EmailData interface {
	TemplateFileName() string
	Subject() string
}

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type EmailSender interface {
	QueueEmail(to string, data EmailData, attachments ...Attachment) error
}

type WelcomeData struct {
	UserName string
}

func (w WelcomeData) TemplateFileName() string {
	return templateWelcome
}

func (w WelcomeData) Subject() string {
	return subjectWelcome
}

type DigestRow struct {
	CategoryName string
	Total        string
}

type MonthlyDigestData struct {
	UserName string
	Month    string
	Rows     []DigestRow
	Total    string
}

func (m MonthlyDigestData) TemplateFileName() string {
	return templateMonthlyDigest
}

func (m MonthlyDigestData) Subject() string {
	return fmt.Sprintf("%s (%s)", subjectMonthlyDigest, m.Month)
}

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Transport delivers a fully built message.
type Transport interface {
	Send(msg *email.Email) error
}

type smtpTransport struct {
	addr string
	auth smtp.Auth
}

func NewSMTPTransport(cfg Config) Transport {
	return &smtpTransport{
		addr: cfg.Host + ":" + cfg.Port,
		auth: smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
	}
}

func (t *smtpTransport) Send(msg *email.Email) error {
	return msg.Send(t.addr, t.auth)
}

type EmailService struct {
	from      string
	transport Transport
	templates *template.Template
	logger    *logrus.Entry

	mu        sync.RWMutex
	closed    bool
	taskQueue chan EmailTask
	done      chan struct{}
}

type EmailTask struct {
	to          string
	data        EmailData
	attachments []Attachment
}

func NewEmailService(from string, transport Transport, logger *logrus.Logger) (*EmailService, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}

	s := &EmailService{
		from:      from,
		transport: transport,
		templates: tmpl,
		logger:    logger.WithField("component", "email"),
		taskQueue: make(chan EmailTask, queueCapacity),
		done:      make(chan struct{}),
	}

	go s.worker()
	return s, nil
}

func (s *EmailService) worker() {
	defer close(s.done)
	for task := range s.taskQueue {
		if err := s.send(task); err != nil {
			s.logger.WithError(err).WithField("to", task.to).Error("Error sending email")
			continue
		}
		s.logger.WithField("to", task.to).Debug("Email sent")
	}
}

// QueueEmail hands the message to the background worker. It blocks only when
// the queue is full.
func (s *EmailService) QueueEmail(to string, data EmailData, attachments ...Attachment) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrServiceClosed
	}
	s.taskQueue <- EmailTask{to: to, data: data, attachments: attachments}
	return nil
}

// Close stops accepting new messages and waits until the queue is drained.
func (s *EmailService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.taskQueue)
	s.mu.Unlock()

	<-s.done
}

func (s *EmailService) send(task EmailTask) error {
	msg, err := s.buildMessage(task)
	if err != nil {
		return err
	}
	if err := s.transport.Send(msg); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

func (s *EmailService) buildMessage(task EmailTask) (*email.Email, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, task.data.TemplateFileName(), task.data); err != nil {
		return nil, fmt.Errorf("error executing template: %w", err)
	}

	msg := email.NewEmail()
	msg.From = s.from
	msg.To = []string{task.to}
	msg.Subject = task.data.Subject()
	msg.HTML = body.Bytes()

	for _, a := range task.attachments {
		if _, err := msg.Attach(bytes.NewReader(a.Content), a.Filename, a.ContentType); err != nil {
			return nil, fmt.Errorf("error attaching %s: %w", a.Filename, err)
		}
	}
	return msg, nil
}

// NoopSender drops messages. It is used when SMTP is not configured.
type NoopSender struct {
	Logger *logrus.Logger
}

func (n NoopSender) QueueEmail(to string, data EmailData, _ ...Attachment) error {
	if n.Logger != nil {
		n.Logger.WithFields(logrus.Fields{"to": to, "subject": data.Subject()}).Debug("SMTP not configured, email dropped")
	}
	return nil
}
