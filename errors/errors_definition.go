// Package errors provides custom error types and definitions for the application.
//
//nolint:lll
package errors

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400, 401, 403 or 404, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the
// current last 4XXX or 5XXX. If you notice there's a gap, DON'T fill it in: that
// code was used in the past for some error and shouldn't be reused.
var (
	// Authentication errors (401)
	ErrUnauthorized      = Error{Code: 40001, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("authentication required"), LogLevel: "info"}
	ErrInvalidCredential = Error{Code: 40002, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("token is invalid or expired"), LogLevel: "info"}
	ErrUnknownSubject    = Error{Code: 40003, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("account no longer exists"), LogLevel: "info"}

	// Authorization errors (403)
	ErrForbidden = Error{Code: 40004, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("role not allowed for this operation"), LogLevel: "info"}

	// Validation errors (400)
	ErrMalformedBody     = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid JSON request body")}
	ErrValidation        = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid request fields")}
	ErrEmailMalformed    = Error{Code: 40007, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid email format")}
	ErrPasswordTooShort  = Error{Code: 40008, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("password must be at least 8 characters")}
	ErrPhoneMalformed    = Error{Code: 40009, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid phone number")}
	ErrInvalidRole       = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid account role")}
	ErrInvalidDate       = Error{Code: 40011, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("date must be a present or future date")}
	ErrMalformedURLParam = Error{Code: 40012, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid URL parameter")}
	ErrInvalidRecurrence = Error{Code: 40013, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid pickup recurrence")}

	// Lifecycle errors (400)
	ErrInvalidTransition = Error{Code: 40014, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("status transition not permitted")}

	// Not found errors (404)
	ErrRequestNotFound = Error{Code: 40015, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("waste request not found")}
	ErrExpenseNotFound = Error{Code: 40016, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("expense not found")}
	ErrPickupNotFound  = Error{Code: 40017, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("scheduled pickup not found")}
	ErrProfileNotFound = Error{Code: 40018, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("collector profile not found")}
	ErrUserNotFound    = Error{Code: 40019, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("account not found")}

	// Conflict errors (409)
	ErrDuplicateEmail = Error{Code: 40901, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("account with this email already exists")}

	// Server errors (500) - These should be used sparingly and only for true internal errors
	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: failed to process response"), LogLevel: "error"}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: operation failed"), LogLevel: "error"}
	ErrInternalStorageError       = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: storage operation failed"), LogLevel: "error"}
)
