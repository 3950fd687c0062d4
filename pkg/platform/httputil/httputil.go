package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "etatcivil/pkg/domain-errors"
)

const maxBodyBytes = 1 << 20

// Envelope is the uniform response body of every endpoint.
type Envelope struct {
	Success        bool                `json:"success"`
	Message        string              `json:"message"`
	Data           any                 `json:"data,omitempty"`
	Pagination     any                 `json:"pagination,omitempty"`
	FiltersApplied any                 `json:"filters_applied,omitempty"`
	Error          string              `json:"error,omitempty"`
	Code           string              `json:"code,omitempty"`
	Errors         map[string][]string `json:"errors,omitempty"`
	Details        map[string]any      `json:"details,omitempty"`
}

// EnvelopeOption decorates a success envelope.
type EnvelopeOption func(*Envelope)

// WithPagination attaches pagination metadata.
func WithPagination(p any) EnvelopeOption {
	return func(e *Envelope) { e.Pagination = p }
}

// WithFilters echoes the filters that shaped the response.
func WithFilters(f any) EnvelopeOption {
	return func(e *Envelope) { e.FiltersApplied = f }
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any, opts ...EnvelopeOption) {
	env := Envelope{Success: true, Message: message, Data: data}
	for _, opt := range opts {
		opt(&env)
	}
	WriteJSON(w, status, env)
}

// WriteError writes the envelope for err without internal detail.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorDetail(w, err, false)
}

// WriteErrorDetail writes the envelope for err. When debug is set, internal
// errors carry the underlying message in "error".
func WriteErrorDetail(w http.ResponseWriter, err error, debug bool) {
	de, ok := dErrors.As(err)
	if !ok {
		de = dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}
	status := StatusFor(de.Code)
	env := Envelope{Success: false, Message: de.Message, Code: string(de.Code), Details: de.Details}

	switch de.Code {
	case dErrors.CodeInternal:
		env.Message = "Erreur interne du serveur"
		if debug {
			env.Error = err.Error()
		}
	case dErrors.CodeValidation:
		if len(de.Fields) > 0 {
			env.Errors = de.Fields
		}
	default:
		env.Error = de.Message
	}
	WriteJSON(w, status, env)
}

// StatusFor maps a domain error code to an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Validatable requests check and normalise themselves after decoding.
type Validatable interface {
	Validate() error
}

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct runs the `validate` struct tags of v and returns a
// CodeValidation error keyed by JSON field names.
func ValidateStruct(v any) error {
	err := structValidator.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request")
	}
	fields := dErrors.FieldErrors{}
	for _, fe := range verrs {
		fields.Add(fe.Field(), fieldMessage(fe))
	}
	return fields.Err()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Le champ " + fe.Field() + " est obligatoire"
	case "min", "gte":
		return "Le champ " + fe.Field() + " doit être au moins " + fe.Param()
	case "max", "lte":
		return "Le champ " + fe.Field() + " ne doit pas dépasser " + fe.Param()
	case "oneof":
		return "Le champ " + fe.Field() + " doit être l'une des valeurs: " + fe.Param()
	default:
		return "Le champ " + fe.Field() + " est invalide"
	}
}

// DecodeAndPrepare decodes the JSON body into T, runs struct tag validation and,
// when T implements Validatable, its Validate method. On failure it writes the
// error envelope and returns false.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req := new(T)
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Corps de requête JSON invalide"))
		return nil, false
	}
	if err := ValidateStruct(req); err != nil {
		WriteError(w, err)
		return nil, false
	}
	if v, ok := any(req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			WriteError(w, err)
			return nil, false
		}
	}
	return req, true
}
