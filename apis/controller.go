package apis

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/libro-dev/library-api/errors"
)

// ErrorResponse is the terminal error envelope. Validation failures carry one
// entry per violated field in ErrorMessages; other failures carry a single
// entry holding the error's message.
type ErrorResponse struct {
	Success       bool                    `json:"success"`
	Message       string                  `json:"message"`
	ErrorMessages []errors.FieldViolation `json:"errorMessages"`
	Error         *errors.BaseError       `json:"error"`
}

// WriteErrorJSON is the only place a failure becomes an HTTP response. Every
// handler forwards errors here unchanged.
func WriteErrorJSON(ctx *gin.Context, err error) {

	var validationErrors validator.ValidationErrors
	if goerrors.As(err, &validationErrors) {

		violations := make([]errors.FieldViolation, 0, len(validationErrors))
		for _, fieldError := range validationErrors {

			violations = append(violations, errors.FieldViolation{
				Path:    fieldError.Field(),
				Message: violationMessage(fieldError),
			})
		}

		writeAssertedErrorJSON(ctx, errors.ValidationFailedError.New().WithViolations(violations...))
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if goerrors.As(err, &unmarshalTypeError) {

		violation := errors.FieldViolation{
			Path:    unmarshalTypeError.Field,
			Message: fmt.Sprintf("%s has an invalid value", unmarshalTypeError.Field),
		}

		writeAssertedErrorJSON(ctx, errors.ValidationFailedError.New().WithViolations(violation))
		return
	}

	asserted, ok := errors.TryAssertError(err)
	if !ok {

		message := err.Error()
		errorMessages := []errors.FieldViolation{}
		if message == "" {
			message = errors.UnknownError.New().Message
		} else {
			errorMessages = append(errorMessages, errors.FieldViolation{Path: "", Message: message})
		}

		unknown := errors.UnknownError.New()
		unknown.Message = message

		ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Success:       false,
			Message:       message,
			ErrorMessages: errorMessages,
			Error:         &unknown,
		})
		return
	}

	writeAssertedErrorJSON(ctx, asserted)
}

func writeAssertedErrorJSON(ctx *gin.Context, assertedError errors.BaseError) {

	var statusCode int
	switch assertedError.Code {

	case errors.BookNotFoundErrorCode:
		statusCode = http.StatusNotFound

	case errors.UnknownErrorCode:
		statusCode = http.StatusInternalServerError

	default:
		statusCode = http.StatusBadRequest
	}

	errorMessages := assertedError.Violations
	if errorMessages == nil {
		errorMessages = []errors.FieldViolation{{Path: "", Message: assertedError.Message}}
	}

	ctx.JSON(statusCode, ErrorResponse{
		Success:       false,
		Message:       assertedError.Message,
		ErrorMessages: errorMessages,
		Error:         &assertedError,
	})
}

func violationMessage(fieldError validator.FieldError) string {

	switch fieldError.Tag() {

	case "required":
		return fmt.Sprintf("%s is required", fieldError.Field())

	case "oneof":
		if fieldError.Field() == "genre" {
			return fmt.Sprintf("%v is not a valid genre", fieldError.Value())
		}
		return fmt.Sprintf("%s must be one of [%s]", fieldError.Field(), fieldError.Param())

	case "gte":
		if fieldError.Field() == "copies" {
			return "Copies must be a positive number"
		}
		return fmt.Sprintf("%s must be at least %s", fieldError.Field(), fieldError.Param())

	case "min":
		if fieldError.Field() == "quantity" {
			return "Quantity must be a positive integer"
		}
		return fmt.Sprintf("%s must be at least %s", fieldError.Field(), fieldError.Param())

	default:
		return fmt.Sprintf("%s is invalid", fieldError.Field())
	}
}
