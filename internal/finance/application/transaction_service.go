package application

import (
	"context"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/sebuszqo/ExpenseTracker/internal/logger"
	"github.com/sirupsen/logrus"
)

type TransactionService struct {
	repo         domain.TransactionRepository
	categoryRepo domain.CategoryRepository
	userRepo     domain.UserRepository
	transactor   Transactor
	logger       *logrus.Entry
}

func NewTransactionService(repo domain.TransactionRepository, categoryRepo domain.CategoryRepository, userRepo domain.UserRepository, transactor Transactor, logger *logrus.Logger) *TransactionService {
	return &TransactionService{
		repo:         repo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		transactor:   transactor,
		logger:       logger.WithField("component", "transaction"),
	}
}

func (s *TransactionService) CreateTransaction(ctx context.Context, userID string, input domain.TransactionInput) (*TransactionDTO, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var created domain.Transaction
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.userRepo.ExistsByID(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return financeErrors.ErrUserNotFound
		}

		category, err := s.resolveCategory(ctx, userID, input.CategoryID)
		if err != nil {
			return err
		}

		created = domain.Transaction{UserID: userID, CategoryName: category.Name}
		created.Apply(input)
		return s.repo.Create(ctx, &created)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithFields(logrus.Fields{logger.FieldUserID: userID, "transaction_id": created.ID}).Info("Transaction created")
	dto := toTransactionDTO(created)
	return &dto, nil
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, userID string, transactionID int64, input domain.TransactionInput) (*TransactionDTO, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Transaction
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.findOwned(ctx, userID, transactionID)
		if err != nil {
			return err
		}

		category, err := s.resolveCategory(ctx, userID, input.CategoryID)
		if err != nil {
			return err
		}

		existing.Apply(input)
		existing.CategoryName = category.Name
		if err := s.repo.Update(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithFields(logrus.Fields{logger.FieldUserID: userID, "transaction_id": transactionID}).Info("Transaction updated")
	dto := toTransactionDTO(*updated)
	return &dto, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, userID string, transactionID int64) error {
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.findOwned(ctx, userID, transactionID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, transactionID)
	})
	if err != nil {
		return err
	}

	s.logger.WithContext(ctx).WithFields(logrus.Fields{logger.FieldUserID: userID, "transaction_id": transactionID}).Info("Transaction deleted")
	return nil
}

// GetUserTransactions returns one page of the user's transactions, newest first.
func (s *TransactionService) GetUserTransactions(ctx context.Context, userID string, page domain.PageRequest) (domain.Page[TransactionDTO], error) {
	return s.list(ctx, userID, nil, page)
}

// GetUserTransactionsInRange is GetUserTransactions limited to dates within
// the inclusive range.
func (s *TransactionService) GetUserTransactionsInRange(ctx context.Context, userID string, dateRange domain.DateRange, page domain.PageRequest) (domain.Page[TransactionDTO], error) {
	if dateRange.Start.After(dateRange.End) {
		return domain.Page[TransactionDTO]{}, financeErrors.NewFieldValidationError("startDate", "must not be after endDate")
	}
	return s.list(ctx, userID, &dateRange, page)
}

func (s *TransactionService) list(ctx context.Context, userID string, dateRange *domain.DateRange, page domain.PageRequest) (domain.Page[TransactionDTO], error) {
	if err := page.Validate(); err != nil {
		return domain.Page[TransactionDTO]{}, err
	}

	var (
		total        int64
		transactions []domain.Transaction
	)
	err := s.transactor.WithinSnapshot(ctx, func(ctx context.Context) error {
		var err error
		if total, err = s.repo.CountByUser(ctx, userID, dateRange); err != nil {
			return err
		}
		transactions, err = s.repo.FindByUser(ctx, userID, dateRange, page)
		return err
	})
	if err != nil {
		return domain.Page[TransactionDTO]{}, err
	}

	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, t := range transactions {
		dtos = append(dtos, toTransactionDTO(t))
	}
	return domain.NewPage(dtos, page, total), nil
}

func (s *TransactionService) findOwned(ctx context.Context, userID string, transactionID int64) (*domain.Transaction, error) {
	existing, err := s.repo.FindByIDForUpdate(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		s.logger.WithContext(ctx).WithFields(logrus.Fields{logger.FieldUserID: userID, "transaction_id": transactionID}).Warn("Attempt to access a foreign transaction")
		return nil, financeErrors.ErrForbiddenTransaction
	}
	return existing, nil
}

func (s *TransactionService) resolveCategory(ctx context.Context, userID string, categoryID int64) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		s.logger.WithContext(ctx).WithFields(logrus.Fields{logger.FieldUserID: userID, "category_id": categoryID}).Warn("Attempt to use a foreign category")
		return nil, financeErrors.ErrForbiddenCategory
	}
	return category, nil
}
