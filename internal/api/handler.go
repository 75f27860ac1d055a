package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/cryptopulse/internal/domain/dto"
	"github.com/guttosm/cryptopulse/internal/domain/models"
	"github.com/guttosm/cryptopulse/internal/middleware"
	"github.com/guttosm/cryptopulse/internal/service"
)

// Limits configures the ?limit query parameter.
type Limits struct {
	HistoryDefault  int // used when /api/history and /api/stats omit ?limit
	HistoryMax      int // largest accepted ?limit
	OverviewDefault int // used when /api/overview omits ?limit
}

// Handler provides HTTP handlers for the price query endpoints.
//
// Responsibilities:
//   - Validate path and query parameters
//   - Call the PriceService with the request context
//   - Translate domain results into response DTOs
//   - Map domain errors to HTTP status codes (InvalidArgument 400, anything else 500)
type Handler struct {
	svc    service.PriceService
	limits Limits
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.PriceService): query service backing every endpoint.
//   - limits (Limits): defaults and bounds for ?limit; zero values fall back to 100/1000/20.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.PriceService, limits Limits) *Handler {
	if limits.HistoryMax < 1 {
		limits.HistoryMax = 1000
	}
	if limits.HistoryDefault < 1 {
		limits.HistoryDefault = min(100, limits.HistoryMax)
	}
	if limits.OverviewDefault < 1 {
		limits.OverviewDefault = min(20, limits.HistoryMax)
	}
	return &Handler{svc: svc, limits: limits}
}

// ListCryptos handles GET /api/cryptos.
//
// ListCryptos godoc
// @Summary      List symbols
// @Description  Returns every symbol with at least one stored observation, sorted ascending
// @Tags         prices
// @Produce      json
// @Success      200  {array}   string             "Symbols"
// @Failure      500  {object}  dto.ErrorResponse  "Price store unavailable"
// @Router       /api/cryptos [get]
func (h *Handler) ListCryptos(c *gin.Context) {
	symbols, err := h.svc.ListSymbols(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to list symbols", err)
		return
	}
	c.JSON(http.StatusOK, symbols)
}

// GetLatestPrice handles GET /api/price/{symbol}.
//
// A symbol without observations answers 200 with an empty object.
//
// GetLatestPrice godoc
// @Summary      Latest price
// @Description  Returns the most recent observation for the symbol (case-insensitive), or {} when there is none
// @Tags         prices
// @Produce      json
// @Param        symbol  path      string             true  "Ticker symbol"  example(BTC)
// @Success      200     {object}  dto.PriceResponse  "Latest observation"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500     {object}  dto.ErrorResponse  "Price store unavailable"
// @Router       /api/price/{symbol} [get]
func (h *Handler) GetLatestPrice(c *gin.Context) {
	obs, err := h.svc.LatestPrice(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		h.fail(c, "failed to fetch latest price", err)
		return
	}
	if obs == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, dto.FromObservation(*obs))
}

// GetHistory handles GET /api/history/{symbol}.
//
// GetHistory godoc
// @Summary      Price history
// @Description  Returns up to limit observations for the symbol in ascending time order
// @Tags         prices
// @Produce      json
// @Param        symbol  path      string             true   "Ticker symbol"         example(BTC)
// @Param        limit   query     int                false  "Maximum points (1..HISTORY_MAX_LIMIT)"  default(100)
// @Success      200     {array}   dto.PriceResponse  "Observations, oldest first"
// @Failure      400     {object}  dto.ErrorResponse  "Invalid limit"
// @Failure      500     {object}  dto.ErrorResponse  "Price store unavailable"
// @Router       /api/history/{symbol} [get]
func (h *Handler) GetHistory(c *gin.Context) {
	limit, ok := h.parseLimit(c, h.limits.HistoryDefault)
	if !ok {
		return
	}
	hist, err := h.svc.History(c.Request.Context(), c.Param("symbol"), limit)
	if err != nil {
		h.fail(c, "failed to fetch history", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromObservations(hist))
}

// GetStats handles GET /api/stats/{symbol}.
//
// GetStats godoc
// @Summary      History statistics
// @Description  Returns min, max, avg and trend over the same window /api/history would return. Values are null for an empty window.
// @Tags         prices
// @Produce      json
// @Param        symbol  path      string             true   "Ticker symbol"  example(BTC)
// @Param        limit   query     int                false  "Window size"    default(100)
// @Success      200     {object}  dto.StatsResponse  "Statistics"
// @Failure      400     {object}  dto.ErrorResponse  "Invalid limit"
// @Failure      500     {object}  dto.ErrorResponse  "Price store unavailable"
// @Router       /api/stats/{symbol} [get]
func (h *Handler) GetStats(c *gin.Context) {
	limit, ok := h.parseLimit(c, h.limits.HistoryDefault)
	if !ok {
		return
	}
	symbol := service.NormalizeSymbol(c.Param("symbol"))
	_, stats, err := h.svc.HistoryStats(c.Request.Context(), symbol, limit)
	if err != nil {
		h.fail(c, "failed to compute stats", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromStats(symbol, stats))
}

// GetOverview handles GET /api/overview.
//
// GetOverview godoc
// @Summary      Dashboard overview
// @Description  Returns one card per symbol with the latest observation, a sparkline and its trend
// @Tags         prices
// @Produce      json
// @Param        limit  query     int                   false  "Sparkline points"  default(20)
// @Success      200    {array}   dto.OverviewResponse  "Cards sorted by symbol"
// @Failure      400    {object}  dto.ErrorResponse     "Invalid limit"
// @Failure      500    {object}  dto.ErrorResponse     "Price store unavailable"
// @Router       /api/overview [get]
func (h *Handler) GetOverview(c *gin.Context) {
	limit, ok := h.parseLimit(c, h.limits.OverviewDefault)
	if !ok {
		return
	}
	cards, err := h.svc.Overview(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, "failed to build overview", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOverview(cards))
}

// parseLimit reads ?limit. Out-of-range or non-numeric values are rejected
// with 400 and never reach the store.
func (h *Handler) parseLimit(c *gin.Context, def int) (int, bool) {
	raw, present := c.GetQuery("limit")
	if !present {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > h.limits.HistoryMax {
		middleware.AbortWithError(c, http.StatusBadRequest,
			"limit must be an integer between 1 and "+strconv.Itoa(h.limits.HistoryMax), err)
		return 0, false
	}
	return n, true
}

func (h *Handler) fail(c *gin.Context, message string, err error) {
	if errors.Is(err, models.ErrInvalidArgument) {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	middleware.AbortWithError(c, http.StatusInternalServerError, message, err)
}
