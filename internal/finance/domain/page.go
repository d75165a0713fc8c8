package domain

import (
	"math"

	"github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a zero-indexed page of the given size.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) Validate() error {
	var ve errors.ValidationErrors
	if p.Page < 0 {
		ve.Add(errors.NewFieldValidationError("page", "must not be negative"))
	}
	if p.Size < 1 || p.Size > MaxPageSize {
		ve.Add(errors.NewFieldValidationError("size", "must be between 1 and 100"))
	} else if p.Page > math.MaxInt/p.Size {
		ve.Add(errors.NewFieldValidationError("page", "is too large"))
	}
	return ve.ErrOrNil()
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
