// Package validator checks rate resolution and order line input and reports
// failures as domain.ValidationError.
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"gstrate/internal/domain"
)

const maxCategoryLen = 100

var (
	hsnPattern     = regexp.MustCompile(`^[0-9]{4,8}$`)
	numericPattern = regexp.MustCompile(`^[0-9]+$`)
)

// Validator wraps the go-playground validator with an "hsn" tag registered.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("hsn", func(fl validator.FieldLevel) bool {
		return IsHSN(fl.Field().String())
	})
	return &Validator{v: v}
}

// IsHSN reports whether s is a 4 to 8 digit HSN code.
func IsHSN(s string) bool {
	return hsnPattern.MatchString(s)
}

// LooksLikeHSN reports whether s is all digits, i.e. meant as an HSN code
// whether or not its length is valid. Category names are never numeric.
func LooksLikeHSN(s string) bool {
	return numericPattern.MatchString(s)
}

// HSN validates a single HSN code.
func (val *Validator) HSN(code string) error {
	if err := val.v.Var(code, "required,hsn"); err != nil {
		return domain.NewValidationError("hsn", code, "must be 4 to 8 digits")
	}
	return nil
}

// Category validates a product category name.
func (val *Validator) Category(category string) error {
	trimmed := strings.TrimSpace(category)
	if err := val.v.Var(trimmed, fmt.Sprintf("required,max=%d", maxCategoryLen)); err != nil {
		return domain.NewValidationError("category", category, fmt.Sprintf("must be 1 to %d characters", maxCategoryLen))
	}
	return nil
}

type orderLineInput struct {
	UnitPrice float64 `validate:"gte=0"`
	Quantity  int     `validate:"min=1"`
	HSN       string  `validate:"required_without=Category,omitempty,hsn"`
	Category  string  `validate:"required_without=HSN,omitempty,max=100"`
}

// OrderLine validates line idx of an order.
func (val *Validator) OrderLine(idx int, line *domain.OrderLine) error {
	in := orderLineInput{
		UnitPrice: line.UnitPrice,
		Quantity:  line.Quantity,
		HSN:       strings.TrimSpace(line.HSN),
		Category:  strings.TrimSpace(line.Category),
	}
	err := val.v.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError(fmt.Sprintf("lines[%d]", idx), "", err.Error())
	}
	fe := verrs[0]
	field := fmt.Sprintf("lines[%d].%s", idx, lineFieldName(fe.Field()))
	return domain.NewValidationError(field, valueString(fe.Value()), lineReason(fe))
}

func lineFieldName(field string) string {
	switch field {
	case "UnitPrice":
		return "unit_price"
	case "Quantity":
		return "quantity"
	case "HSN":
		return "hsn"
	default:
		return "category"
	}
}

func lineReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must not be negative"
	case "min":
		return "must be at least 1"
	case "hsn":
		return "must be 4 to 8 digits"
	case "required_without":
		return "either hsn or category is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

func valueString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
