package interfaces

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type TransactionServiceInterface interface {
	CreateTransaction(ctx context.Context, userID string, input domain.TransactionInput) (*application.TransactionDTO, error)
	UpdateTransaction(ctx context.Context, userID string, transactionID int64, input domain.TransactionInput) (*application.TransactionDTO, error)
	DeleteTransaction(ctx context.Context, userID string, transactionID int64) error
	GetUserTransactions(ctx context.Context, userID string, page domain.PageRequest) (domain.Page[application.TransactionDTO], error)
	GetUserTransactionsInRange(ctx context.Context, userID string, dateRange domain.DateRange, page domain.PageRequest) (domain.Page[application.TransactionDTO], error)
}

type TransactionHandler struct {
	responder
	service TransactionServiceInterface
}

func NewTransactionHandler(
	service TransactionServiceInterface,
	logger *logrus.Logger,
	respondJSON RespondJSONFunc,
	respondError RespondErrorFunc,
) *TransactionHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &TransactionHandler{
		responder: newResponder(logger, "transaction_handler", respondJSON, respondError),
		service:   service,
	}
}

type transactionRequest struct {
	Amount      decimal.Decimal        `json:"amount"`
	Description string                 `json:"description"`
	Date        domain.Date            `json:"date"`
	Type        domain.TransactionType `json:"type"`
	CategoryID  int64                  `json:"categoryId"`
}

func (req transactionRequest) toInput() domain.TransactionInput {
	return domain.TransactionInput{
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
	}
}

func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page, err := queryInt(query.Get("page"), 0)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid page value")
		return
	}
	size, err := queryInt(query.Get("size"), domain.DefaultPageSize)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid size value")
		return
	}
	pageRequest := domain.PageRequest{Page: page, Size: size}

	startDateStr := query.Get("startDate")
	endDateStr := query.Get("endDate")
	if startDateStr == "" && endDateStr == "" {
		result, err := h.service.GetUserTransactions(r.Context(), userID, pageRequest)
		if err != nil {
			h.serviceError(w, r, err, "Failed to retrieve transactions")
			return
		}
		h.respondJSON(w, http.StatusOK, result)
		return
	}

	if startDateStr == "" || endDateStr == "" {
		h.respondError(w, http.StatusBadRequest, "startDate and endDate must be provided together")
		return
	}
	startDate, err := domain.ParseDate(startDateStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid start date format")
		return
	}
	endDate, err := domain.ParseDate(endDateStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid end date format")
		return
	}

	result, err := h.service.GetUserTransactionsInRange(r.Context(), userID, domain.DateRange{Start: startDate, End: endDate}, pageRequest)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve transactions")
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := h.service.CreateTransaction(r.Context(), userID, req.toInput())
	if err != nil {
		h.serviceError(w, r, err, "Failed to create transaction")
		return
	}
	h.respondJSON(w, http.StatusCreated, transaction)
}

func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	transactionID, ok := h.transactionID(w, r)
	if !ok {
		return
	}

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := h.service.UpdateTransaction(r.Context(), userID, transactionID, req.toInput())
	if err != nil {
		h.serviceError(w, r, err, "Failed to update transaction")
		return
	}
	h.respondJSON(w, http.StatusOK, transaction)
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	transactionID, ok := h.transactionID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTransaction(r.Context(), userID, transactionID); err != nil {
		h.serviceError(w, r, err, "Failed to delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TransactionHandler) transactionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction id")
		return 0, false
	}
	return id, true
}

func queryInt(value string, defaultVal int) (int, error) {
	if value == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(value)
}
