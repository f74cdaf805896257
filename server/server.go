package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/theplant/staymarket/catalog"
	"github.com/theplant/staymarket/pagination"
)

// Catalog is the listing side of catalog.Repository.
type Catalog interface {
	ListProperties(ctx context.Context, values url.Values, opts catalog.ListOptions) (*pagination.Page[*catalog.Property], error)
	ListBookings(ctx context.Context, values url.Values, opts catalog.ListOptions) (*pagination.Page[*catalog.Booking], error)
	ListVendors(ctx context.Context, values url.Values, opts catalog.ListOptions) (*pagination.Page[*catalog.Vendor], error)
}

type Options struct {
	List catalog.ListOptions
	// RateLimit is in requests per second per client; 0 disables it.
	RateLimit float64
	RateBurst int
	// Health reports whether the service can serve requests, typically by
	// pinging the database. Nil means always healthy.
	Health func(ctx context.Context) error
	Logger *slog.Logger
}

type handler struct {
	catalog Catalog
	opts    Options
}

// New builds the HTTP API over c.
func New(c Catalog, opts Options) *echo.Echo {
	if c == nil {
		panic("catalog must be set")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = serializer{}
	e.HTTPErrorHandler = errorHandler(opts.Logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(opts.Logger))

	h := &handler{catalog: c, opts: opts}
	e.GET("/healthz", h.health)

	api := e.Group("/api/v1")
	if opts.RateLimit > 0 {
		api.Use(rateLimiter(opts.RateLimit, opts.RateBurst))
	}
	api.GET("/properties", h.listProperties)
	api.GET("/bookings", h.listBookings)
	api.GET("/vendors", h.listVendors)

	return e
}

func (h *handler) listProperties(c echo.Context) error {
	page, err := h.catalog.ListProperties(c.Request().Context(), c.QueryParams(), h.opts.List)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *handler) listBookings(c echo.Context) error {
	page, err := h.catalog.ListBookings(c.Request().Context(), c.QueryParams(), h.opts.List)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *handler) listVendors(c echo.Context) error {
	page, err := h.catalog.ListVendors(c.Request().Context(), c.QueryParams(), h.opts.List)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *handler) health(c echo.Context) error {
	if h.opts.Health != nil {
		if err := h.opts.Health(c.Request().Context()); err != nil {
			h.opts.Logger.WarnContext(c.Request().Context(), "health check failed", "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "unavailable")
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Run serves e on addr until ctx is done, then shuts it down gracefully
// within shutdownTimeout.
func Run(ctx context.Context, e *echo.Echo, addr string, shutdownTimeout time.Duration) error {
	errc := make(chan error, 1)
	go func() {
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "start server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown server")
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "start server")
	}
	return nil
}
