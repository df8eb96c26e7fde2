package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
)

// Response is the envelope of every JSON reply. Code is 0 on success and the HTTP status otherwise.
type Response struct {
	Code  int         `json:"code"`
	Msg   string      `json:"msg"`
	Field string      `json:"field,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: msg, Data: data})
}

func Created(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Msg: msg, Data: data})
}

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Code: status, Msg: msg})
}

// Fail converts err into one message and status. data is echoed back to the client when set.
func Fail(c *gin.Context, err error, data interface{}) {
	status := StatusFromError(err)
	resp := Response{Code: status, Msg: messageFromError(err, status), Data: data}

	var validation *pkgerrors.ValidationError
	if errors.As(err, &validation) {
		resp.Field = validation.Field
	}

	_ = c.Error(err)
	c.JSON(status, resp)
}

// StatusFromError maps service errors onto HTTP statuses.
func StatusFromError(err error) int {
	var validation *pkgerrors.ValidationError
	switch {
	case errors.Is(err, pkgerrors.ErrArtifactTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, pkgerrors.ErrUnauthenticated),
		errors.Is(err, pkgerrors.ErrInvalidToken),
		errors.Is(err, pkgerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, pkgerrors.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, pkgerrors.ErrModelNotFound),
		errors.Is(err, pkgerrors.ErrArtifactNotFound),
		errors.Is(err, pkgerrors.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, pkgerrors.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, pkgerrors.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, pkgerrors.ErrEvaluatorUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, pkgerrors.ErrEvaluationFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// messageFromError hides internal details behind a generic message.
func messageFromError(err error, status int) string {
	switch status {
	case http.StatusInternalServerError:
		// Keep the operation name, drop the collaborator detail.
		if op, _, found := strings.Cut(err.Error(), ": "); found {
			return op
		}
		return "internal server error"
	case http.StatusServiceUnavailable:
		return pkgerrors.ErrEvaluatorUnavailable.Error()
	}

	var validation *pkgerrors.ValidationError
	if errors.As(err, &validation) {
		return validation.Err.Error()
	}
	return stripWrapping(err).Error()
}

// stripWrapping drops "context: " prefixes added by fmt.Errorf while keeping any detail
// appended after the wrapped error.
func stripWrapping(err error) error {
	for {
		inner := errors.Unwrap(err)
		if inner == nil || !strings.HasSuffix(err.Error(), ": "+inner.Error()) {
			return err
		}
		err = inner
	}
}
