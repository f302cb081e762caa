package apperrors

import (
	"net/http"
)

// Factories for wrapping repository-level errors.

// ErrNotFound converts a lookup miss (e.g. gorm.ErrRecordNotFound) into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict reports a state conflict, e.g. a lost status-guard race.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// Predeclared errors for the frequent static cases.

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// --- Chat ---

var ErrConversationNotFound = New(
	CodeNotFound,
	"chat",
	"Conversation not found",
	http.StatusNotFound,
)

// ErrConversationAccessDenied is returned when the caller is not a participant.
var ErrConversationAccessDenied = New(
	CodeForbidden,
	"chat",
	"Access to conversation denied",
	http.StatusForbidden,
)

var ErrEmptyMessage = New(
	CodeValidationFailed,
	"chat",
	"Message content must not be empty",
	http.StatusBadRequest,
)

var ErrSelfConversation = New(
	CodeInvalidOperation,
	"chat",
	"Cannot start a conversation with yourself",
	http.StatusBadRequest,
)

// --- Projects & applications ---

var ErrProjectNotFound = New(
	CodeNotFound,
	"project",
	"Project not found",
	http.StatusNotFound,
)

// ErrProjectNotOpen guards operations that require an open project.
var ErrProjectNotOpen = New(
	CodeConflict,
	"project",
	"Project is not accepting applications",
	http.StatusConflict,
)

var ErrApplicationNotFound = New(
	CodeNotFound,
	"application",
	"Application not found",
	http.StatusNotFound,
)

var ErrApplicationExists = New(
	CodeAlreadyExists,
	"application",
	"You have already applied to this project",
	http.StatusConflict,
)

// ErrApplicationDecided is returned when the application is already terminal.
var ErrApplicationDecided = New(
	CodeConflict,
	"application",
	"Application has already been decided",
	http.StatusConflict,
)

var ErrInvalidDecision = New(
	CodeValidationFailed,
	"application",
	"Decision must be either accepted or rejected",
	http.StatusBadRequest,
)

var ErrOwnProjectApplication = New(
	CodeInvalidOperation,
	"application",
	"Cannot apply to your own project",
	http.StatusBadRequest,
)

// --- Notifications ---

var ErrNotificationNotFound = New(
	CodeNotFound,
	"notification",
	"Notification not found",
	http.StatusNotFound,
)

var ErrNotificationAccessDenied = New(
	CodeForbidden,
	"notification",
	"Access to notification denied",
	http.StatusForbidden,
)
