// Package pagination implements limit/offset paging over gorm queries.
package pagination

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/dimatakoy/org-demo/internal/apperror"
)

const DefaultLimit = 100

type Params struct {
	Limit  int
	Offset int
}

// Page is the {items, count} envelope; Count is the size of the whole
// filtered set, independent of Limit and Offset.
type Page[T any] struct {
	Items []T   `json:"items"`
	Count int64 `json:"count"`
}

// Empty returns a page without items for a set of count rows.
func Empty[T any](count int64) Page[T] {
	return Page[T]{Items: []T{}, Count: count}
}

// Map converts the items of a page keeping its count.
func Map[T, U any](page Page[T], convert func(T) U) Page[U] {
	items := make([]U, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, convert(item))
	}
	return Page[U]{Items: items, Count: page.Count}
}

type Policy struct {
	DefaultLimit int
	// MaxLimit clamps larger requested limits; 0 means no cap.
	MaxLimit int
}

func DefaultPolicy() Policy {
	return Policy{DefaultLimit: DefaultLimit}
}

// Parse reads "limit" and "offset" from query values. Missing values take the
// policy defaults; negative or non-integer values are validation errors.
func (p Policy) Parse(values url.Values) (Params, error) {
	fields := map[string]string{}

	limit, err := parseNonNegative(values, "limit", p.DefaultLimit)
	if err != nil {
		fields["limit"] = err.Error()
	}
	offset, err := parseNonNegative(values, "offset", 0)
	if err != nil {
		fields["offset"] = err.Error()
	}
	if len(fields) > 0 {
		return Params{}, apperror.Validation(fields)
	}

	if p.MaxLimit > 0 && limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	return Params{Limit: limit, Offset: offset}, nil
}

func parseNonNegative(values url.Values, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must be greater than or equal to 0", key)
	}
	return value, nil
}

// Paginate counts the rows matched by base, then loads one page of them.
// project adds ordering, joins and column selection to the row query only,
// so the count stays a plain count over the filtered set.
func Paginate[T any](ctx context.Context, base *gorm.DB, params Params, project func(*gorm.DB) *gorm.DB) (Page[T], error) {
	var count int64
	if err := base.Session(&gorm.Session{}).WithContext(ctx).Count(&count).Error; err != nil {
		return Page[T]{}, fmt.Errorf("count rows: %w", err)
	}

	if params.Limit == 0 || int64(params.Offset) >= count {
		return Empty[T](count), nil
	}

	query := base.Session(&gorm.Session{}).WithContext(ctx)
	if project != nil {
		query = project(query)
	}

	items := make([]T, 0, min(params.Limit, int(count)))
	if err := query.Limit(params.Limit).Offset(params.Offset).Find(&items).Error; err != nil {
		return Page[T]{}, fmt.Errorf("load page: %w", err)
	}
	return Page[T]{Items: items, Count: count}, nil
}
