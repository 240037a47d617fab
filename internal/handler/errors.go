package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type errMapping struct {
	err    error
	status int
	code   response.ErrCode
}

var serviceErrors = []errMapping{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
	{service.ErrSessionInvalidated, http.StatusUnauthorized, response.ErrSessionInvalidated},
	{service.ErrExamNotFound, http.StatusNotFound, response.ErrExamNotFound},
	{service.ErrExamInactive, http.StatusForbidden, response.ErrExamInactive},
	{service.ErrDuplicateExamCode, http.StatusConflict, response.ErrDuplicateExamCode},
	{service.ErrInvalidExamCode, http.StatusBadRequest, response.ErrValidation},
	{service.ErrQuestionNotFound, http.StatusNotFound, response.ErrQuestionNotFound},
	{service.ErrInvalidOptions, http.StatusBadRequest, response.ErrInvalidOptions},
	{service.ErrStudentNotFound, http.StatusNotFound, response.ErrStudentNotFound},
	{service.ErrInvalidStudentInput, http.StatusBadRequest, response.ErrValidation},
	{service.ErrAlreadyAttempted, http.StatusForbidden, response.ErrAlreadyAttempted},
	{service.ErrAlreadySubmitted, http.StatusForbidden, response.ErrAlreadySubmitted},
	{service.ErrNotLoggedIn, http.StatusForbidden, response.ErrExamNotStarted},
	{service.ErrResultNotFound, http.StatusNotFound, response.ErrResultNotFound},
	{service.ErrUnsupportedFileType, http.StatusBadRequest, response.ErrUnsupportedFile},
	{service.ErrFileTooLarge, http.StatusBadRequest, response.ErrFileTooLarge},
}

// failWithError writes the envelope for a service error. Unknown errors are
// attached to the gin context for the request logger and reported as 500.
func failWithError(c *gin.Context, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			response.Fail(c, m.status, m.code)
			return
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		response.Fail(c, http.StatusGatewayTimeout, response.ErrRequestTimeout)
		return
	}
	_ = c.Error(err)
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// uuidParam parses a path parameter, writing a 400 when it is not a UUID.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
