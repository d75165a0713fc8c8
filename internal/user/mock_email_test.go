package user

import (
	emailService "github.com/sebuszqo/ExpenseTracker/internal/email"
)

type MockEmailSender struct {
	To   []string
	Data []emailService.EmailData
}

func (m *MockEmailSender) QueueEmail(to string, data emailService.EmailData, _ ...emailService.Attachment) error {
	m.To = append(m.To, to)
	m.Data = append(m.Data, data)
	return nil
}
