package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-order/models"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondStoreError maps the store error taxonomy to HTTP codes.
func RespondStoreError(c *gin.Context, err error) {
	switch {
	case models.IsValidation(err):
		RespondError(c, http.StatusBadRequest, err)
	case models.IsNotFound(err):
		RespondError(c, http.StatusNotFound, err)
	default:
		RespondError(c, http.StatusInternalServerError, err)
	}
}
