package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/sirupsen/logrus"
)

type RespondJSONFunc func(w http.ResponseWriter, status int, payload interface{})

type RespondErrorFunc func(w http.ResponseWriter, status int, message string, errors ...[]string)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}

	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}

	respondJSON(w, status, payload)
}

// RespondJSON and RespondError are the default response writers handed to the handlers.
var (
	RespondJSON  RespondJSONFunc  = respondJSON
	RespondError RespondErrorFunc = respondError
)

type responder struct {
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
	logger       *logrus.Entry
}

func newResponder(logger *logrus.Logger, component string, respondJSON RespondJSONFunc, respondError RespondErrorFunc) responder {
	if logger == nil || respondJSON == nil || respondError == nil {
		panic("Logger and response functions must not be nil")
	}
	return responder{
		respondJSON:  respondJSON,
		respondError: respondError,
		logger:       logger.WithField("component", component),
	}
}

func (h responder) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, ok
}

// serviceError maps an application error to its HTTP status. Anything unknown
// is logged and reported as fallback with a 500.
func (h responder) serviceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var validationErrors *financeErrors.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		h.respondError(w, http.StatusBadRequest, "Validation errors occurred", validationErrors.Messages())
	case financeErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, financeErrors.ErrDuplicateCategory),
		errors.Is(err, financeErrors.ErrCategoryInUse):
		h.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, financeErrors.ErrTransactionNotFound),
		errors.Is(err, financeErrors.ErrForbiddenTransaction):
		h.respondError(w, http.StatusNotFound, financeErrors.ErrTransactionNotFound.Error())
	case errors.Is(err, financeErrors.ErrCategoryNotFound),
		errors.Is(err, financeErrors.ErrForbiddenCategory):
		h.respondError(w, http.StatusBadRequest, financeErrors.ErrCategoryNotFound.Error())
	case errors.Is(err, financeErrors.ErrUserNotFound):
		h.respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.WithContext(r.Context()).WithError(err).WithField("path", r.URL.Path).Error(fallback)
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
