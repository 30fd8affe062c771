// Package request decodes and validates request bodies, query strings and path ids.
package request

import (
	"encoding/json"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
)

var cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{4}$`)

var (
	validate = newValidator()
	decoder  = newSchemaDecoder()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	// Money fields are validated as numbers.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()

		return f
	}, decimal.Decimal{})

	if err := v.RegisterValidation("card_expiry", func(fl validator.FieldLevel) bool {
		return cardExpiryPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	if err := v.RegisterValidation("cents", validateCents); err != nil {
		panic(err)
	}

	return v
}

// validateCents rejects amounts with more than two decimal places.
// The custom type func hands rules a float64, so the original decimal is
// read back from the parent struct when possible.
func validateCents(fl validator.FieldLevel) bool {
	if parent := fl.Parent(); parent.Kind() == reflect.Struct {
		if f := parent.FieldByName(fl.StructFieldName()); f.IsValid() {
			if d, ok := f.Interface().(decimal.Decimal); ok {
				return d.Equal(d.Truncate(2))
			}
		}
	}

	if fl.Field().Kind() != reflect.Float64 {
		return false
	}
	_, frac, _ := strings.Cut(strconv.FormatFloat(fl.Field().Float(), 'f', -1, 64), ".")

	return len(frac) <= 2
}

func newSchemaDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.RegisterConverter(time.Time{}, func(s string) reflect.Value {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return reflect.Value{}
		}

		return reflect.ValueOf(t)
	})
	d.RegisterConverter(uuid.UUID{}, func(s string) reflect.Value {
		id, err := uuid.Parse(s)
		if err != nil {
			return reflect.Value{}
		}

		return reflect.ValueOf(id)
	})

	return d
}

// Validate runs struct validation on v.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return errs.Wrap(errs.ErrValidation, err, "invalid request")
	}

	return nil
}

// DecodeJSON decodes the request body into dst and validates it.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Wrap(errs.ErrValidation, err, "failed to decode request body")
	}

	return Validate(dst)
}

// DecodeQuery decodes the query string into dst and validates it.
func DecodeQuery(r *http.Request, dst any) error {
	if err := decoder.Decode(dst, r.URL.Query()); err != nil {
		return errs.Wrap(errs.ErrValidation, err, "failed to decode query")
	}

	return Validate(dst)
}

// PathID parses the {id} URL parameter.
func PathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.Validation("invalid id %q", raw)
	}

	return id, nil
}
