package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/tasks-api/internal/models"
	"github.com/adanyl0v/tasks-api/internal/services"
)

var errValidationFailed = errors.New("validation failed")

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type apiError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Details []fieldError `json:"details,omitempty"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	body := gin.H{"error": err.Message}
	if len(err.Details) > 0 {
		body["details"] = err.Details
	}
	c.AbortWithStatusJSON(err.Code, body)
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newValidationError(err *services.ValidationError) apiError {
	apiErr := newAPIError(http.StatusUnprocessableEntity, errValidationFailed.Error())
	apiErr.Details = make([]fieldError, len(err.Fields))
	for i, f := range err.Fields {
		apiErr.Details[i] = fieldError{Field: f.Field, Message: f.Message}
	}
	return apiErr
}

// abortWithError maps service errors onto HTTP responses.
func (h *handlerImpl) abortWithError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		abort(c, newValidationError(validationErr))
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
	default:
		_ = c.Error(err)
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}

// newDecodeError turns a request body decoding failure into field-level
// validation detail.
func newDecodeError(err error) *services.ValidationError {
	var (
		enumErr   *models.EnumError
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		tsErr     *models.TimestampError
	)
	switch {
	case errors.As(err, &enumErr):
		return services.NewValidationError(enumErr.Field,
			"must be one of "+strings.Join(enumErr.Allowed, ", "))
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return services.NewValidationError(field, "must be of type "+jsonTypeName(typeErr))
	case errors.As(err, &tsErr):
		return services.NewValidationError("due_date", "must be an ISO 8601 date or date-time")
	case errors.As(err, &syntaxErr):
		return services.NewValidationError("body", "malformed JSON")
	case errors.Is(err, io.ErrUnexpectedEOF):
		return services.NewValidationError("body", "malformed JSON")
	case errors.Is(err, io.EOF):
		return services.NewValidationError("body", "must be a JSON object")
	default:
		return services.NewValidationError("body", err.Error())
	}
}

func jsonTypeName(err *json.UnmarshalTypeError) string {
	if err.Type == nil {
		return "unknown"
	}
	switch err.Type.Kind() {
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	}
	return err.Type.String()
}
