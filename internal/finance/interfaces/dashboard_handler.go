package interfaces

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/sirupsen/logrus"
)

type DashboardServiceInterface interface {
	GetBalance(ctx context.Context, userID string) (*application.BalanceDTO, error)
	GetExpensesByCategory(ctx context.Context, userID string) ([]application.CategoryExpenseDTO, error)
	GetExpensesByCategoryForMonth(ctx context.Context, userID string, month time.Time) ([]application.CategoryExpenseDTO, error)
	RenderExpensesChart(ctx context.Context, userID string, month time.Time) ([]byte, error)
	CurrentMonth() time.Time
}

type DashboardHandler struct {
	responder
	service DashboardServiceInterface
}

func NewDashboardHandler(
	service DashboardServiceInterface,
	logger *logrus.Logger,
	respondJSON RespondJSONFunc,
	respondError RespondErrorFunc,
) *DashboardHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &DashboardHandler{
		responder: newResponder(logger, "dashboard_handler", respondJSON, respondError),
		service:   service,
	}
}

func (h *DashboardHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve balance")
		return
	}
	h.respondJSON(w, http.StatusOK, balance)
}

func (h *DashboardHandler) GetExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var (
		expenses []application.CategoryExpenseDTO
		err      error
	)
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, parseErr := domain.ParseMonth(monthStr)
		if parseErr != nil {
			h.respondError(w, http.StatusBadRequest, parseErr.Error())
			return
		}
		expenses, err = h.service.GetExpensesByCategoryForMonth(r.Context(), userID, month)
	} else {
		expenses, err = h.service.GetExpensesByCategory(r.Context(), userID)
	}
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve expenses")
		return
	}
	h.respondJSON(w, http.StatusOK, expenses)
}

func (h *DashboardHandler) GetExpensesChart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	month := h.service.CurrentMonth()
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		parsed, err := domain.ParseMonth(monthStr)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		month = parsed
	}

	png, err := h.service.RenderExpensesChart(r.Context(), userID, month)
	if err != nil {
		if errors.Is(err, financeErrors.ErrNoChartData) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.serviceError(w, r, err, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
