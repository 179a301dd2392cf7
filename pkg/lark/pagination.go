package lark

import (
	"context"
)

// PageResult is the common shape of list responses.
type PageResult[T any] struct {
	Items     []T    `json:"items"`
	PageToken string `json:"page_token"`
	HasMore   bool   `json:"has_more"`
	Total     int    `json:"total,omitempty"`
}

// PageFetcher loads the page starting at pageToken. The first page has an
// empty token.
type PageFetcher[T any] func(ctx context.Context, pageToken string) (*PageResult[T], error)

// Iterator walks every item of a paginated endpoint, fetching pages lazily.
// It is not safe for concurrent use.
type Iterator[T any] struct {
	fetch     PageFetcher[T]
	items     []T
	index     int
	pageToken string
	done      bool
}

func NewIterator[T any](fetch PageFetcher[T]) *Iterator[T] {
	return &Iterator[T]{fetch: fetch}
}

// NewIteratorFrom returns an iterator whose first fetch uses pageToken. A
// failed fetch leaves the token untouched, so calling Next again retries the
// same page.
func NewIteratorFrom[T any](pageToken string, fetch PageFetcher[T]) *Iterator[T] {
	return &Iterator[T]{fetch: fetch, pageToken: pageToken}
}

// Next returns the next item. ok is false once all pages are consumed.
func (it *Iterator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	for it.index >= len(it.items) {
		if it.done {
			return zero, false, nil
		}

		page, err := it.fetch(ctx, it.pageToken)
		if err != nil {
			return zero, false, err
		}
		it.items = page.Items
		it.index = 0
		it.pageToken = page.PageToken
		// has_more without a token would refetch the first page forever.
		it.done = !page.HasMore || page.PageToken == ""
	}

	item := it.items[it.index]
	it.index++

	return item, true, nil
}

// PageToken is the token of the next page to fetch, useful to resume later.
func (it *Iterator[T]) PageToken() string {
	if it.done {
		return ""
	}

	return it.pageToken
}

// Collect gathers up to limit items. A non-positive limit collects everything.
func (it *Iterator[T]) Collect(ctx context.Context, limit int) ([]T, error) {
	var out []T
	for limit <= 0 || len(out) < limit {
		item, ok, err := it.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			break
		}
		out = append(out, item)
	}

	return out, nil
}
