package service

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator instance
var validate = validator.New()

// ValidationErrors maps a field name to the ordered list of messages for
// that field. All fields are checked; errors accumulate rather than
// stopping at the first failure.
type ValidationErrors map[string][]string

func (e ValidationErrors) Error() string {
	return "validation failed"
}

func (e ValidationErrors) add(field, message string) {
	e[field] = append(e[field], message)
}

// validatedFields is the typed, coerced output of ValidateProductFields.
// Past this boundary the rest of the pipeline never touches raw input.
type validatedFields struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int64
	Category    string
}

var errNotCoercible = errors.New("value is not coercible")

// ValidateProductFields checks an untyped field mapping (parsed JSON,
// decoded with UseNumber) against the product contract. It is pure: no
// I/O, deterministic given its input. Read-only fields (id, created_at,
// updated_at) present in the mapping are ignored.
func ValidateProductFields(fields map[string]any) (*validatedFields, ValidationErrors) {
	errs := ValidationErrors{}
	out := &validatedFields{}

	if raw, ok := present(fields, "name"); !ok {
		errs.add("name", messageFor("required", ""))
	} else if name, ok := raw.(string); !ok {
		errs.add("name", "Not a valid string.")
	} else {
		out.Name = strings.TrimSpace(name)
		for _, msg := range constraintMessages(out.Name, "required,max=200") {
			errs.add("name", msg)
		}
	}

	if raw, ok := present(fields, "description"); ok {
		if description, ok := raw.(string); ok {
			out.Description = description
		} else {
			errs.add("description", "Not a valid string.")
		}
	}

	if raw, ok := present(fields, "price"); !ok {
		errs.add("price", messageFor("required", ""))
	} else if price, err := coerceDecimal(raw); err != nil {
		errs.add("price", "A valid number is required.")
	} else if price.IsNegative() {
		errs.add("price", "Price must be a positive value.")
	} else {
		// Normalize to the store's two-decimal fixed-point representation.
		out.Price = price.Round(2)
	}

	if raw, ok := present(fields, "quantity"); !ok {
		errs.add("quantity", messageFor("required", ""))
	} else if quantity, err := coerceInteger(raw); err != nil {
		errs.add("quantity", "A valid integer is required.")
	} else {
		out.Quantity = quantity
		for _, msg := range constraintMessages(out.Quantity, "gte=0") {
			errs.add("quantity", msg)
		}
	}

	if raw, ok := present(fields, "category"); ok {
		if category, ok := raw.(string); !ok {
			errs.add("category", "Not a valid string.")
		} else {
			out.Category = category
			for _, msg := range constraintMessages(out.Category, "max=100") {
				errs.add("category", msg)
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// present reports whether a field was supplied with a non-null value.
func present(fields map[string]any, name string) (any, bool) {
	raw, ok := fields[name]
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

// coerceDecimal accepts JSON numbers and numeric strings, preserving the
// decimal digits exactly as written.
func coerceDecimal(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return decimal.Zero, errNotCoercible
		}
		return decimal.NewFromString(trimmed)
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Zero, errNotCoercible
	}
}

// coerceInteger accepts JSON integers and integer strings; fractional
// numbers are rejected rather than truncated.
func coerceInteger(raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, errNotCoercible
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, errNotCoercible
		}
		return n, nil
	case float64:
		n := int64(v)
		if float64(n) != v {
			return 0, errNotCoercible
		}
		return n, nil
	default:
		return 0, errNotCoercible
	}
}

// constraintMessages runs validator tags against a single value and maps
// each failing tag to its message.
func constraintMessages(value any, tag string) []string {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{"Invalid value."}
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, messageFor(fe.Tag(), fe.Param()))
	}
	return messages
}

func messageFor(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "max":
		return "Ensure this field has no more than " + param + " characters."
	case "gte":
		return "Ensure this value is greater than or equal to " + param + "."
	default:
		return "Invalid value."
	}
}
