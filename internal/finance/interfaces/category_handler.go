package interfaces

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/sirupsen/logrus"
)

type CategoryServiceInterface interface {
	CreateCategory(ctx context.Context, userID, name string) (*application.CategoryDTO, error)
	GetUserCategories(ctx context.Context, userID string) ([]application.CategoryDTO, error)
	DeleteCategory(ctx context.Context, userID string, categoryID int64) error
}

type CategoryHandler struct {
	responder
	service CategoryServiceInterface
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	logger *logrus.Logger,
	respondJSON RespondJSONFunc,
	respondError RespondErrorFunc,
) *CategoryHandler {
	if service == nil {
		panic("Service must not be nil")
	}
	return &CategoryHandler{
		responder: newResponder(logger, "category_handler", respondJSON, respondError),
		service:   service,
	}
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	categories, err := h.service.GetUserCategories(r.Context(), userID)
	if err != nil {
		h.serviceError(w, r, err, "Failed to retrieve categories")
		return
	}
	h.respondJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req createCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.service.CreateCategory(r.Context(), userID, req.Name)
	if err != nil {
		h.serviceError(w, r, err, "Failed to create category")
		return
	}
	h.respondJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	categoryID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || categoryID <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	if err := h.service.DeleteCategory(r.Context(), userID, categoryID); err != nil {
		if errors.Is(err, financeErrors.ErrCategoryNotFound) {
			h.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.serviceError(w, r, err, "Failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
