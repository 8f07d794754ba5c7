package httpserver

import (
	"errors"
	"log"
	"net/http"

	"game-market/internal/domain"
	"game-market/internal/purchaseform"
	purchasesvc "game-market/internal/service/purchase"
	usersvc "game-market/internal/service/user"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	StatusCode int           `json:"statusCode"`
	Message    string        `json:"message"`
	Errors     []errorDetail `json:"errors"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{
		StatusCode: status,
		Message:    message,
		Errors:     []errorDetail{{Code: code, Message: message}},
	})
}

func abortWithError(c *gin.Context, status int, code, message string) {
	writeError(c, status, code, message)
	c.Abort()
}

// writeServiceError maps service errors onto HTTP statuses. Unknown errors
// are logged by the caller and reported as 500 without details.
func writeServiceError(c *gin.Context, err error) {
	status, code, message := classify(err)
	writeError(c, status, code, message)
}

func classify(err error) (int, string, string) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, "InvalidInput", validation.Msg
	case errors.Is(err, usersvc.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "account with the given credentials not found"
	case errors.Is(err, usersvc.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid_token", "invalid or expired token"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "ResourceNotFound", "resource not found"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "DuplicateField", "resource already exists"
	case errors.Is(err, domain.ErrNotDraft):
		return http.StatusConflict, "InvalidOperation", domain.ErrNotDraft.Error()
	case errors.Is(err, purchasesvc.ErrNothingToPurchase):
		return http.StatusUnprocessableEntity, "NothingToPurchase", purchasesvc.ErrNothingToPurchase.Error()
	case errors.Is(err, purchasesvc.ErrInviteNotAcknowledged):
		return http.StatusUnprocessableEntity, "InviteNotAcknowledged", purchasesvc.ErrInviteNotAcknowledged.Error()
	case errors.Is(err, purchasesvc.ErrInviteAgeNotAcknowledged):
		return http.StatusUnprocessableEntity, "InviteAgeNotAcknowledged", purchasesvc.ErrInviteAgeNotAcknowledged.Error()
	case errors.Is(err, purchasesvc.ErrUnknownRecipient),
		errors.Is(err, purchasesvc.ErrFieldNotEditable),
		errors.Is(err, purchasesvc.ErrUnsupportedAction),
		errors.Is(err, purchaseform.ErrFriendsNotLoaded):
		return http.StatusBadRequest, "InvalidOperation", err.Error()
	default:
		return http.StatusInternalServerError, "General", "internal error"
	}
}

// respondError writes err and logs it when it maps to a server error.
func respondError(c *gin.Context, logger *log.Logger, op string, err error) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Printf("%s request_id=%s: %v", op, c.GetString(requestIDHeader), err)
	}
	writeError(c, status, code, message)
}
