package digest

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	emailService "github.com/sebuszqo/ExpenseTracker/internal/email"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/logger"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 4
	chartFilename      = "expenses.png"
)

type UserLister interface {
	ListUsers(ctx context.Context) ([]user.User, error)
}

type ExpenseReporter interface {
	GetExpensesByCategoryForMonth(ctx context.Context, userID string, month time.Time) ([]application.CategoryExpenseDTO, error)
}

// Service emails every user a summary of the previous calendar month's expenses.
type Service struct {
	users       UserLister
	expenses    ExpenseReporter
	sender      emailService.EmailSender
	now         func() time.Time
	concurrency int
	logger      *logrus.Entry
}

func NewService(users UserLister, expenses ExpenseReporter, sender emailService.EmailSender, now func() time.Time, logger *logrus.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		users:       users,
		expenses:    expenses,
		sender:      sender,
		now:         now,
		concurrency: defaultConcurrency,
		logger:      logger.WithField("component", "digest"),
	}
}

// PreviousMonth returns the first day of the month before the one containing t.
func PreviousMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, -1, 0)
}

// Run sends the digest for the previous month and reports how many emails
// were queued. A failure for one user is logged and skipped.
func (s *Service) Run(ctx context.Context) (int, error) {
	month := PreviousMonth(s.now())

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not list users: %w", err)
	}

	var sent atomic.Int64
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, u := range users {
		if groupCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			queued, err := s.sendOne(groupCtx, u, month)
			if err != nil {
				s.logger.WithError(err).WithField(logger.FieldUserID, u.ID).Error("Could not send monthly digest")
				return nil
			}
			if queued {
				sent.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(sent.Load()), err
	}
	if err := ctx.Err(); err != nil {
		return int(sent.Load()), err
	}

	s.logger.WithFields(logrus.Fields{
		"month": month.Format("2006-01"),
		"users": len(users),
		"sent":  sent.Load(),
	}).Info("Monthly digest finished")
	return int(sent.Load()), nil
}

func (s *Service) sendOne(ctx context.Context, u user.User, month time.Time) (bool, error) {
	expenses, err := s.expenses.GetExpensesByCategoryForMonth(ctx, u.ID, month)
	if err != nil {
		return false, err
	}
	if len(expenses) == 0 {
		return false, nil
	}

	data := emailService.MonthlyDigestData{
		UserName: u.Name,
		Month:    month.Format("January 2006"),
		Rows:     make([]emailService.DigestRow, 0, len(expenses)),
	}
	total := decimal.Zero
	for _, e := range expenses {
		data.Rows = append(data.Rows, emailService.DigestRow{CategoryName: e.CategoryName, Total: e.TotalAmount.StringFixed(2)})
		total = total.Add(e.TotalAmount)
	}
	data.Total = total.StringFixed(2)

	var attachments []emailService.Attachment
	png, err := application.RenderExpensesPie(month, expenses)
	if err != nil {
		s.logger.WithError(err).WithField(logger.FieldUserID, u.ID).Warn("Digest chart not rendered, sending without it")
	} else {
		attachments = append(attachments, emailService.Attachment{
			Filename:    chartFilename,
			ContentType: "image/png",
			Content:     png,
		})
	}

	if err := s.sender.QueueEmail(u.Email, data, attachments...); err != nil {
		return false, err
	}
	return true, nil
}

// Schedule starts a cron runner that calls Run on the given cron schedule. The caller stops it.
func (s *Service) Schedule(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.Run(context.Background()); err != nil {
			s.logger.WithError(err).Error("Monthly digest failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
