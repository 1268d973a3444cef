package api

import (
	"fmt"

	"github.com/FACorreiaa/book-catalog-api/internal/types"
)

// PageResponse is one page of an ordered collection plus navigation metadata.
// PrevPage and NextPage are nil at the respective edges.
type PageResponse[T any] struct {
	Data        []T  `json:"data"`
	CurrentPage int  `json:"current_page"`
	PrevPage    *int `json:"prev_page"`
	NextPage    *int `json:"next_page"`
}

// Paginate slices items into the requested 1-based page window.
//
// The collection with zero items still has one (empty) page, so page=1 is
// always answerable and page=2 against an empty collection is rejected.
// Consecutive pages are contiguous and non-overlapping; concatenating them
// reproduces items in order.
func Paginate[T any](items []T, page, pageSize int) (*PageResponse[T], error) {
	if page <= 0 || pageSize <= 0 {
		return nil, fmt.Errorf("both 'page' and 'pageSize' must be greater than zero: %w", types.ErrBadRequest)
	}

	totalCount := len(items)
	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page > totalPages {
		return nil, fmt.Errorf("requested page %d exceeds total pages %d: %w", page, totalPages, types.ErrBadRequest)
	}

	startIndex := (page - 1) * pageSize
	takeCount := totalCount - startIndex
	if takeCount > pageSize {
		takeCount = pageSize
	}
	if takeCount < 0 {
		takeCount = 0
	}

	pageItems := make([]T, 0, takeCount)
	if startIndex < totalCount {
		pageItems = append(pageItems, items[startIndex:startIndex+takeCount]...)
	}

	resp := &PageResponse[T]{
		Data:        pageItems,
		CurrentPage: page,
	}
	if page > 1 {
		prev := page - 1
		resp.PrevPage = &prev
	}
	if page < totalPages {
		next := page + 1
		resp.NextPage = &next
	}
	return resp, nil
}
