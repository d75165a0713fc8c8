package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/sebuszqo/ExpenseTracker/internal/logger"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInternalError      = errors.New("internal Server Error")
)

type Service interface {
	Login(ctx context.Context, email, password string) (*user.User, string, error)
	ResolveToken(ctx context.Context, token string) (string, error)
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	userService user.Service
	jwtManager  JWTManagerInterface
	logger      *logrus.Logger
}

func NewAuthService(userService user.Service, jwtManager JWTManagerInterface, logger *logrus.Logger) Service {
	return &service{
		userService: userService,
		jwtManager:  jwtManager,
		logger:      logger,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	existingUser, err := s.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		s.logger.WithContext(ctx).WithError(err).Error("Could not load user for login")
		return nil, "", ErrInternalError
	}

	if !user.PasswordMatches(existingUser.PasswordHash, password) {
		s.logger.WithContext(ctx).WithField(logger.FieldUserID, existingUser.ID).Warn("Login failed: wrong password")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessJWT(existingUser.Email)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Could not sign access token")
		return nil, "", ErrInternalError
	}

	s.logger.WithContext(ctx).WithField(logger.FieldUserID, existingUser.ID).Info("User logged in")
	return existingUser, token, nil
}

// ResolveToken maps a bearer token to the id of the user it was issued to.
func (s *service) ResolveToken(ctx context.Context, token string) (string, error) {
	email, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	existingUser, err := s.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", ErrInvalidToken
		}
		s.logger.WithContext(ctx).WithError(err).Error("Could not resolve token subject")
		return "", ErrInternalError
	}
	return existingUser.ID, nil
}
