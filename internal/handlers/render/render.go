// Package render writes JSON responses of the frontend API
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/tourfront/internal/apiclient"
	"github.com/nkiryanov/tourfront/internal/apperrors"
	"github.com/nkiryanov/tourfront/internal/validate"
)

const (
	ValidationErrorType      = "validation_failed"
	DecodingErrorType        = "decoding_failed"
	ServiceErrorType         = "service_error"
	NotFoundType             = "not_found"
	SessionExpiredType       = "session_expired"
	UnauthorizedType         = "unauthorized"
	BackendRejectedType      = "backend_rejected"
	BackendUnavailableType   = "backend_unavailable"
	SubmissionInProgressType = "submission_in_progress"
)

const maxBodySize = 64 << 10

type Struct any

type ErrorResponse struct {
	Error    string            `json:"error"`
	Message  string            `json:"message,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Back     string            `json:"back,omitempty"`
}

func JSON(w http.ResponseWriter, data any) {
	jsonWithStatus(w, data, http.StatusOK)
}

func JSONStatus(w http.ResponseWriter, data any, code int) {
	jsonWithStatus(w, data, code)
}

// Render ServiceError
func ServiceError(w http.ResponseWriter, error string, code int) {
	response := ErrorResponse{
		Error:   ServiceErrorType,
		Message: error,
	}

	jsonWithStatus(w, response, code)
}

// NotFound renders the not found state with a link back to the listing
func NotFound(w http.ResponseWriter, message string, back string) {
	jsonWithStatus(w, ErrorResponse{Error: NotFoundType, Message: message, Back: back}, http.StatusNotFound)
}

// SessionExpired tells the browser to go to the login entry point
func SessionExpired(w http.ResponseWriter, redirect string) {
	w.Header().Set("Location", redirect)
	jsonWithStatus(w, ErrorResponse{
		Error:    SessionExpiredType,
		Message:  "Your session has expired. Please log in again.",
		Redirect: redirect,
	}, http.StatusUnauthorized)
}

// Unauthorized is rendered for pages that need a logged in visitor
func Unauthorized(w http.ResponseWriter, redirect string) {
	w.Header().Set("Location", redirect)
	jsonWithStatus(w, ErrorResponse{
		Error:    UnauthorizedType,
		Message:  "Please log in to continue.",
		Redirect: redirect,
	}, http.StatusUnauthorized)
}

// BackendError renders a failed backend call. notFound is used for 404 answers
func BackendError(w http.ResponseWriter, err error, notFound string, back string) {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	switch {
	case apiErr.SessionExpired:
		SessionExpired(w, apiErr.Redirect)
	case apiErr.IsNetwork():
		jsonWithStatus(w, ErrorResponse{Error: BackendUnavailableType, Message: "Service is temporarily unavailable. Please try again later."}, http.StatusBadGateway)
	case apiErr.Status == http.StatusNotFound:
		NotFound(w, notFound, back)
	case apiErr.Status >= 400 && apiErr.Status < 500:
		response := ErrorResponse{Error: BackendRejectedType, Message: apiErr.Message}
		for _, name := range apiErr.FieldNames() {
			if response.Fields == nil {
				response.Fields = make(map[string]string)
			}
			response.Fields[name], _ = apiErr.FieldMessage(name)
		}
		jsonWithStatus(w, response, apiErr.Status)
	default:
		jsonWithStatus(w, ErrorResponse{Error: BackendUnavailableType, Message: "Service is temporarily unavailable. Please try again later."}, http.StatusBadGateway)
	}
}

// Render json DecodeError
func DecodeError(w http.ResponseWriter, err error) {
	response := ErrorResponse{
		Error:   DecodingErrorType,
		Message: "",
	}

	// Try to provide more specific error message based on error type
	var typeErr *json.UnmarshalTypeError
	var sizeErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr):
		response.Message = fmt.Sprintf("Invalid data type for field '%s'", typeErr.Field)
	case errors.As(err, &sizeErr):
		response.Message = "Request body is too large"
	default:
		response.Message = fmt.Sprintf("Failed to parse JSON: %s", err.Error())
	}

	jsonWithStatus(w, response, http.StatusBadRequest)
}

// Render ValidationErrors
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	response := ErrorResponse{
		Error:   ValidationErrorType,
		Message: "Request validation failed",
		Fields:  make(map[string]string, len(errs)),
	}

	// Create user-friendly error messages based on validation tag
	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "This field is required"
		case "min":
			message = fmt.Sprintf("Value is too short (minimum %s)", fieldError.Param())
		case "max":
			message = fmt.Sprintf("Value is too long (maximum %s)", fieldError.Param())
		case "email":
			message = "Enter a valid email address"
		case "phone":
			message = "Enter a valid phone number"
		case "eqfield":
			message = "Values do not match"
		case "datetime":
			message = "Use YYYY-MM-DD date format"
		case "numeric":
			message = "Enter a number"
		default:
			message = "Invalid value"
		}

		response.Fields[fieldError.Field()] = message
	}

	jsonWithStatus(w, response, http.StatusBadRequest)
}

// FormError renders errors of local form checks
func FormError(w http.ResponseWriter, err error) {
	var errs validator.ValidationErrors
	switch {
	case errors.As(err, &errs):
		ValidationErrors(w, errs)
	case errors.Is(err, apperrors.ErrTermsNotAccepted):
		jsonWithStatus(w, ErrorResponse{
			Error:   ValidationErrorType,
			Message: "Request validation failed",
			Fields:  map[string]string{"agree_terms": "You must accept the terms and conditions"},
		}, http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrUnknownStep):
		NotFound(w, "Unknown step", "")
	case errors.Is(err, apperrors.ErrSubmissionInProgress):
		jsonWithStatus(w, ErrorResponse{Error: SubmissionInProgressType, Message: "Already submitting, please wait"}, http.StatusConflict)
	default:
		BackendError(w, err, "Not found", "")
	}
}

// Bind decodes JSON request body into type T, writing decoding error response on failure
func Bind[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&value)
	if err != nil {
		DecodeError(w, err)
	}
	return value, err
}

// BindAndValidate decodes JSON request body into type T and validates it using struct tags.
// Returns the decoded value and writes appropriate error responses for decoding or validation failures.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	value, err := Bind[T](w, r)
	if err != nil {
		return value, err
	}

	err = validate.Struct(value)
	if err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			ValidationErrors(w, errs)
		} else {
			ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return value, err
	}

	return value, nil
}

// renderJSONWithStatus sends data as json and enforces status code
func jsonWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
