package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkbook/services/scheduling"
	"inkbook/utils"
)

// writeEngineError maps scheduling engine errors onto HTTP statuses. All of
// them are recoverable at this boundary; only the data-integrity fault is
// surfaced as a server error.
func writeEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrInvalidRange):
		utils.JSONError(c, http.StatusBadRequest, "invalid time range", err.Error())
	case errors.Is(err, scheduling.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, scheduling.ErrBookClosed):
		utils.JSONError(c, http.StatusConflict, "book is closed on this date", err.Error())
	case errors.Is(err, scheduling.ErrSlotTaken):
		utils.JSONError(c, http.StatusConflict, "slot is no longer available", err.Error())
	case errors.Is(err, scheduling.ErrNotPending):
		utils.JSONError(c, http.StatusConflict, "reservation is not pending", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
