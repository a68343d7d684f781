package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nkropachev/eshop/internal/logging"
	"github.com/nkropachev/eshop/internal/mykafka"
	"github.com/nkropachev/eshop/internal/service"
	"github.com/nkropachev/eshop/internal/transport"
)

func parseID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(v), nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// csvIDs parses "1,2,3" query filters into identifiers, ignoring junk.
func csvIDs(v string) []uint {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]uint, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if n, err := strconv.ParseUint(p, 10, 32); err == nil && n > 0 {
			out = append(out, uint(n))
		}
	}
	return out
}

// httpError maps service sentinels onto the one consistent status scheme:
// validation 400, not found 404, conflict 409, everything else 500.
func httpError(err error, fallback string) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrNoOrders):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fallback)
	}
}

func confirmation(message string) transport.ConfirmationResponse {
	return transport.ConfirmationResponse{Success: true, Message: message}
}

// publish sends a domain event best-effort: failures are logged and never
// surfaced to the client.
func publish(c echo.Context, producer mykafka.Publisher, topic, key string, event map[string]any) {
	if producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("event publish failed", "topic", topic, "error", err)
	}
}
