package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"barberq/backend/internal/service/scheduling"
	"barberq/backend/internal/store"
)

const (
	msgUnauthorized = "Unauthorized."
	msgNotFound     = "Service not found."
	msgConflict     = "This slot is already booked. Please pick a different slot."
	msgInternal     = "Something went wrong. Please try again."
	msgBadBody      = "Invalid request body."
)

// writeError maps a service error onto a response. Only unexpected failures are logged at error level.
func writeError(c *gin.Context, log *slog.Logger, op string, err error, attrs ...any) {
	attrs = append(attrs, slog.String("op", op), slog.Any("err", err))

	var vErr *scheduling.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.Warn("invalid request", attrs...)
		c.JSON(http.StatusBadRequest, gin.H{"message": vErr.Error()})
	case errors.Is(err, store.ErrNotFound):
		log.Info("not found", attrs...)
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
	case errors.Is(err, store.ErrConflict):
		log.Info("slot conflict", attrs...)
		c.JSON(http.StatusConflict, gin.H{"message": msgConflict})
	default:
		log.Error("request failed", attrs...)
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
	}
}
