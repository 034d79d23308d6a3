package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sakif/sightings/internal/apperror"
	"github.com/sakif/sightings/internal/model"
)

// maxBodyBytes caps request bodies. The largest legal body (a sighting
// PATCH with every field at its maximum) is a few KB.
const maxBodyBytes = 1 << 20

// newValidator returns a validator that reports fields by their JSON names
// and knows the "appemail" tag.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// The stock "email" tag follows RFC 5322 and accepts addresses the
	// stored users were never checked against. Use the model's rule.
	_ = v.RegisterValidation("appemail", func(fl validator.FieldLevel) bool {
		return model.ValidEmail(fl.Field().String())
	})

	return v
}

// decoder reads and validates JSON request bodies.
type decoder struct {
	validate *validator.Validate
}

func newDecoder() *decoder {
	return &decoder{validate: newValidator()}
}

// decode reads one JSON object into dst, rejecting unknown fields and
// trailing data, then runs the struct's validate tags. Every failure is an
// apperror.ErrValidation.
func (d *decoder) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperror.ValidationFailed("", "Request body must contain a single JSON object")
	}

	if err := d.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return fmt.Errorf("handler: validating request: %w", err)
	}
	return nil
}

func decodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return apperror.ValidationFailed("", "Request body is required")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.ValidationFailed("", "Invalid JSON body")
	case errors.As(err, &typeErr) && typeErr.Field == "":
		return apperror.ValidationFailed("", "Request body must be a JSON object")
	case errors.As(err, &typeErr):
		return apperror.ValidationFailed(typeErr.Field, fmt.Sprintf("%s has the wrong type", typeErr.Field))
	case errors.As(err, &maxErr):
		return apperror.ValidationFailed("", "Request body is too large")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return apperror.ValidationFailed(field, fmt.Sprintf("Unknown field %q", field))
	default:
		return apperror.ValidationFailed("", "Invalid JSON body")
	}
}

// fieldError turns the first failed validate tag into a client message.
func fieldError(fe validator.FieldError) error {
	// Namespace is "sightingPatchRequest.location.name"; drop the type.
	field := fe.Field()
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		field = rest
	}

	var msg string
	switch fe.Tag() {
	case "required":
		msg = field + " is required"
	case "appemail":
		msg = "Invalid email address"
	case "max":
		msg = fmt.Sprintf("%s must be %s characters or fewer", field, fe.Param())
	case "len":
		msg = fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "alpha":
		msg = field + " must contain only letters"
	case "gt":
		msg = fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
	return apperror.ValidationFailed(field, msg)
}

// idParam reads an integer URL parameter. A non-integer id cannot name any
// row, so it is reported as not found.
func idParam(r *http.Request, name, resource string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.NotFound(resource, raw)
	}
	return id, nil
}
