package lark

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"

	"openlark/pkg/serrors"
)

// Validator collects field errors of a request before it is sent.
type Validator struct {
	errs *multierror.Error
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) add(format string, args ...any) *Validator {
	v.errs = multierror.Append(v.errs, fmt.Errorf(format, args...))

	return v
}

// Required fails when value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.add("%s is required", field)
	}

	return v
}

// Check fails with msg when ok is false.
func (v *Validator) Check(ok bool, field, msg string) *Validator {
	if !ok {
		return v.add("%s %s", field, msg)
	}

	return v
}

// MaxItems fails when n exceeds limit.
func (v *Validator) MaxItems(field string, n, limit int) *Validator {
	if n > limit {
		return v.add("%s has %d items, at most %d allowed", field, n, limit)
	}

	return v
}

// OneOf fails when a non-empty value is not in allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if value != "" && !slices.Contains(allowed, value) {
		return v.add("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
	}

	return v
}

// Err returns a VALIDATION error listing every failed check, or nil.
func (v *Validator) Err() error {
	if v.errs == nil {
		return nil
	}
	v.errs.ErrorFormat = func(errs []error) string {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}

		return strings.Join(msgs, "; ")
	}

	return serrors.Wrap(serrors.ErrValidation, v.errs.ErrorOrNil(), "invalid request")
}

// ClampPageSize returns def for non-positive sizes and limit for sizes above it.
func ClampPageSize(size, def, limit int) int {
	switch {
	case size <= 0:
		return def
	case size > limit:
		return limit
	default:
		return size
	}
}
