package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"dutynotify/middleware"
	"dutynotify/services/account"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountDeleter is the teardown operation exposed as a callable.
type AccountDeleter interface {
	DeleteAccount(ctx context.Context, caller *account.Caller) (*account.Result, error)
}

// TokenForgetter drops cached verification state for a token.
type TokenForgetter interface {
	Forget(ctx context.Context, idToken string)
}

// callableRequest is the callable protocol request envelope.
type callableRequest struct {
	Data any `json:"data"`
}

type callableError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AccountHandler serves the deleteUserAccount callable.
type AccountHandler struct {
	Teardown AccountDeleter
	Tokens   TokenForgetter
	Logger   *zap.Logger
}

func NewAccountHandler(teardown AccountDeleter, tokens TokenForgetter, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{Teardown: teardown, Tokens: tokens, Logger: logger}
}

var callableStatus = map[account.ErrorKind]int{
	account.KindUnauthenticated: http.StatusUnauthorized,
	account.KindInternal:        http.StatusInternalServerError,
}

func writeCallableError(c *gin.Context, kind account.ErrorKind, message string) {
	status, ok := callableStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, gin.H{"error": callableError{
		Status:  strings.ToUpper(string(kind)),
		Message: message,
	}})
}

// DeleteUserAccountHandler handles POST /api/deleteUserAccount.
func (h *AccountHandler) DeleteUserAccountHandler(c *gin.Context) {
	var req callableRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": callableError{
				Status:  "INVALID_ARGUMENT",
				Message: "Request body must be a JSON callable envelope.",
			}})
			return
		}
	}

	var caller *account.Caller
	if uid := c.GetString(middleware.CallerUIDKey); uid != "" {
		caller = &account.Caller{UID: uid}
	}

	result, err := h.Teardown.DeleteAccount(c.Request.Context(), caller)
	if err != nil {
		var callErr *account.CallableError
		if errors.As(err, &callErr) {
			writeCallableError(c, callErr.Kind, callErr.Message)
			return
		}
		h.Logger.Error("unexpected teardown error", zap.Error(err))
		writeCallableError(c, account.KindInternal, "An error occurred while deleting the account.")
		return
	}

	if h.Tokens != nil {
		h.Tokens.Forget(c.Request.Context(), c.GetString(middleware.CallerTokenKey))
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}
