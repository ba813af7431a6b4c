package dto

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"todoapp/shared/constant"
	"todoapp/shared/failure"
)

const (
	SortDirAsc  = "asc"
	SortDirDesc = "desc"
)

type QueryParams struct {
	Page     int    `json:"page"      validate:"min=1"`
	PageSize int    `json:"page_size" validate:"min=1,max=100"`
	SortBy   string `json:"sort_by"   validate:"omitempty"`
	Order    string `json:"order"     validate:"omitempty,oneof=asc desc"`
}

// FromRequest populates QueryParams from the HTTP request.
// Example:
//
//	q := &dto.QueryParams{}
//	err := q.FromRequest(req, true)
//
// With `defaultRequest` set, Page, PageSize, SortBy and Order fall back to their defaults when
// absent. A present but non-numeric page or page_size is rejected; range checks are left to
// the validator so that every bound violation is reported the same way.
func (q *QueryParams) FromRequest(r *http.Request, defaultRequest bool) error {
	queryParams := r.URL.Query()

	if page := queryParams.Get(constant.RequestParamPage); page != "" {
		pageInt, err := strconv.Atoi(page)
		if err != nil {
			return failure.InvalidPageParam
		}

		q.Page = pageInt
	} else if defaultRequest {
		q.Page = constant.DefaultValuePage
	}

	if pageSize := queryParams.Get(constant.RequestParamPageSize); pageSize != "" {
		pageSizeInt, err := strconv.Atoi(pageSize)
		if err != nil {
			return failure.InvalidPageSizeParam
		}

		q.PageSize = pageSizeInt
	} else if defaultRequest {
		q.PageSize = constant.DefaultValuePageSize
	}

	if sortBy := queryParams.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = strings.ToLower(sortBy)
	} else if defaultRequest {
		q.SortBy = constant.DefaultValueSortBy
	}

	if order := queryParams.Get(constant.RequestParamOrder); order != "" {
		q.Order = strings.ToLower(order)
	} else if defaultRequest {
		q.Order = constant.DefaultValueOrder
	}

	return nil
}

// Offset returns the number of rows skipped before the current page. It saturates at
// math.MaxInt instead of overflowing for very large pages.
func (q *QueryParams) Offset() int {
	if q.Page < 1 || q.PageSize < 1 {
		return 0
	}

	if q.Page-1 > math.MaxInt/q.PageSize {
		return math.MaxInt
	}

	return (q.Page - 1) * q.PageSize
}

// Pagination describes a page of results in list responses.
type Pagination struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPagination computes page counters for total rows split into pages of pageSize.
// total_pages is 0 when there are no rows.
func NewPagination(total, page, pageSize int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return Pagination{
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
