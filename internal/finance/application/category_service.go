package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/sebuszqo/ExpenseTracker/internal/logger"
	"github.com/sirupsen/logrus"
)

type CategoryService struct {
	repo            domain.CategoryRepository
	transactionRepo domain.TransactionRepository
	transactor      Transactor
	logger          *logrus.Entry
}

func NewCategoryService(repo domain.CategoryRepository, transactionRepo domain.TransactionRepository, transactor Transactor, logger *logrus.Logger) *CategoryService {
	return &CategoryService{
		repo:            repo,
		transactionRepo: transactionRepo,
		transactor:      transactor,
		logger:          logger.WithField("component", "category"),
	}
}

func (s *CategoryService) CreateCategory(ctx context.Context, userID, name string) (*CategoryDTO, error) {
	name, err := domain.NormalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUserAndName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("could not check category name: %w", err)
	}
	if exists {
		return nil, financeErrors.ErrDuplicateCategory
	}

	category := &domain.Category{Name: name, UserID: userID}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithFields(logrus.Fields{logger.FieldUserID: userID, "category_id": category.ID}).Info("Category created")
	dto := toCategoryDTO(*category)
	return &dto, nil
}

func (s *CategoryService) GetUserCategories(ctx context.Context, userID string) ([]CategoryDTO, error) {
	categories, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, toCategoryDTO(c))
	}
	return dtos, nil
}

// DeleteCategory removes a category that no transaction references. A category
// owned by someone else is reported as not found.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID string, categoryID int64) error {
	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		category, err := s.repo.FindByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if category.UserID != userID {
			s.logger.WithContext(ctx).WithFields(logrus.Fields{logger.FieldUserID: userID, "category_id": categoryID}).Warn("Attempt to delete a foreign category")
			return financeErrors.ErrCategoryNotFound
		}

		used, err := s.transactionRepo.CountByCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		if used > 0 {
			return financeErrors.ErrCategoryInUse
		}

		if err := s.repo.Delete(ctx, categoryID); err != nil {
			if errors.Is(err, financeErrors.ErrCategoryInUse) {
				return err
			}
			return fmt.Errorf("could not delete category: %w", err)
		}

		s.logger.WithContext(ctx).WithFields(logrus.Fields{logger.FieldUserID: userID, "category_id": categoryID}).Info("Category deleted")
		return nil
	})
}
