package handler

import (
	"net/http"

	"floraops/pkg/apperr"
	"floraops/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps an application error kind onto an HTTP status and the
// standard response envelope. Internal errors surface a generic message;
// the original detail is for operator logs only.
func respondError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case apperr.KindValidation:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case apperr.KindInsufficient:
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	default:
		c.Error(err) // surfaces in gin's error log for operators
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Internal server error"))
	}
}
