package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	emailService "github.com/sebuszqo/ExpenseTracker/internal/email"
	"github.com/sebuszqo/ExpenseTracker/internal/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxNameLength     = 100
	maxEmailLength    = 255
	minPasswordLength = 6
	maxPasswordBytes  = 72
	bcryptCost        = 12
)

var (
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrInvalidName        = fmt.Errorf("name is required and must be at most %d characters", maxNameLength)
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInternalError      = errors.New("internal Server Error")
)

// User is the stored account. It is never written to a response as is.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Service interface {
	Register(ctx context.Context, name, email, password string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

type service struct {
	repo         Repository
	emailService emailService.EmailSender
	logger       *logrus.Logger
}

func NewUserService(repo Repository, emailService emailService.EmailSender, logger *logrus.Logger) Service {
	return &service{
		repo:         repo,
		emailService: emailService,
		logger:       logger,
	}
}

// NormalizeEmail is applied to every email before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

func PasswordMatches(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

func validateEmailAddress(email string) error {
	if len(email) == 0 || len(email) > maxEmailLength {
		return ErrInvalidEmail
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func (s *service) Register(ctx context.Context, name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" || len(name) > maxNameLength {
		return nil, ErrInvalidName
	}
	if err := validateEmailAddress(email); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	// bcrypt refuses longer input
	if len(password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Could not check email availability")
		return nil, ErrInternalError
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Error during hashing the password")
		return nil, ErrInternalError
	}

	user := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	// the unique constraint still decides when two registrations race
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		s.logger.WithContext(ctx).WithError(err).Error("Error during creating the user")
		return nil, ErrInternalError
	}

	if err := s.emailService.QueueEmail(user.Email, emailService.WelcomeData{UserName: user.Name}); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField(logger.FieldUserID, user.ID).Warn("Could not queue welcome email")
	}

	s.logger.WithContext(ctx).WithField(logger.FieldUserID, user.ID).Info("User registered")
	return user, nil
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

func (s *service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListAll(ctx)
}
