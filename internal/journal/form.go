package journal

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ilgi/internal/models"
	"ilgi/internal/validator"

	"github.com/shopspring/decimal"
)

const (
	msgRequired = "This field is required."
	msgNull     = "This field may not be null."
	msgBlank    = "This field may not be blank."
)

// Reference is a payload field naming another record by external id. The
// handler resolves it to an internal id within the caller's records.
type Reference struct {
	Field      string
	Column     string
	Table      string
	ExternalID string
}

// Changes is the column set produced by binding a payload.
type Changes struct {
	Values     map[string]any
	References []Reference
	Errors     validator.FieldErrors
}

// Input is implemented by every create/update payload.
type Input interface {
	Bind(partial bool) Changes
}

type presence int

const (
	required presence = iota
	// nullable fields may be omitted or set to null.
	nullable
	// defaulted fields may be omitted but not set to null.
	defaulted
)

type form struct {
	partial bool
	changes Changes
}

func newForm(partial bool) *form {
	return &form{
		partial: partial,
		changes: Changes{
			Values: map[string]any{},
			Errors: validator.FieldErrors{},
		},
	}
}

func (f *form) result() Changes {
	return f.changes
}

func (f *form) fail(field, message string) {
	f.changes.Errors.Add(field, message)
}

// take applies presence rules and reports whether a usable value was supplied.
func take[T any](f *form, field string, o Optional[T], p presence, invalid string) (T, bool) {
	var zero T
	if !o.Set {
		if p == required && !f.partial {
			f.fail(field, msgRequired)
		}
		return zero, false
	}
	if o.Err != nil {
		f.fail(field, invalid)
		return zero, false
	}
	if o.Null {
		if p == nullable {
			f.changes.Values[field] = nil
		} else {
			f.fail(field, msgNull)
		}
		return zero, false
	}
	return o.Value, true
}

func (f *form) text(field string, o Optional[string], p presence, maxLen int) {
	value, ok := take(f, field, o, p, "Not a valid string.")
	if !ok {
		return
	}
	if p == required && strings.TrimSpace(value) == "" {
		f.fail(field, msgBlank)
		return
	}
	if maxLen > 0 && utf8.RuneCountInString(value) > maxLen {
		f.fail(field, fmt.Sprintf("Ensure this field has no more than %d characters.", maxLen))
		return
	}
	f.changes.Values[field] = value
}

func (f *form) boolean(field string, o Optional[bool]) {
	if value, ok := take(f, field, o, defaulted, "Must be a valid boolean."); ok {
		f.changes.Values[field] = value
	}
}

func (f *form) timeOfDay(field string, o Optional[models.TimeOfDay], p presence) {
	if value, ok := take(f, field, o, p, "Time has wrong format. Use one of these formats instead: hh:mm[:ss]."); ok {
		f.changes.Values[field] = value
	}
}

func (f *form) date(field string, o Optional[models.Date], p presence) {
	if value, ok := take(f, field, o, p, "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."); ok {
		f.changes.Values[field] = value
	}
}

func (f *form) timestamp(field string, o Optional[time.Time], p presence) {
	if value, ok := take(f, field, o, p, "Datetime has wrong format. Use RFC 3339."); ok {
		f.changes.Values[field] = value
	}
}

func (f *form) integer(field string, o Optional[int], p presence, min, max int) {
	value, ok := take(f, field, o, p, "A valid integer is required.")
	if !ok {
		return
	}
	if value < min {
		f.fail(field, fmt.Sprintf("Ensure this value is greater than or equal to %d.", min))
		return
	}
	if value > max {
		f.fail(field, fmt.Sprintf("Ensure this value is less than or equal to %d.", max))
		return
	}
	f.changes.Values[field] = value
}

func (f *form) decimal(field string, o Optional[decimal.Decimal], p presence, check func(decimal.Decimal) string) {
	value, ok := take(f, field, o, p, "A valid number is required.")
	if !ok {
		return
	}
	if message := check(value); message != "" {
		f.fail(field, message)
		return
	}
	f.changes.Values[field] = value
}

// reference collects a parent or related record. References are only bound
// on create; parents are immutable afterwards.
func (f *form) reference(field, column, table string, o Optional[string], p presence) {
	if f.partial {
		return
	}
	value, ok := take(f, field, o, p, "Incorrect type. Expected an id string.")
	if !ok {
		if o.Set && o.Null && p == nullable {
			delete(f.changes.Values, field)
			f.changes.Values[column] = nil
		}
		return
	}
	f.changes.References = append(f.changes.References, Reference{
		Field:      field,
		Column:     column,
		Table:      table,
		ExternalID: value,
	})
}
