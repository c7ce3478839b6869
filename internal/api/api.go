// Package api serves match planning over HTTP.
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/derekprior/lineup/internal/config"
	"github.com/derekprior/lineup/internal/roster"
	"github.com/derekprior/lineup/internal/schedule"
	"github.com/derekprior/lineup/internal/variant"
)

// DefaultVariants is used when a variants request has no n parameter.
const DefaultVariants = 3

// PlanRequest is the body of both planning endpoints. A missing config
// means the default match; fields left out of a given config keep their
// defaults.
type PlanRequest struct {
	Config  *config.Config  `json:"config"`
	Players []roster.Player `json:"players"`
}

type Handler struct {
	logger *logrus.Logger
}

func NewHandler(logger *logrus.Logger) *Handler {
	return &Handler{logger: logger}
}

// NewRouter wires the routes and middleware.
func NewRouter(logger *logrus.Logger) *gin.Engine {
	h := NewHandler(logger)

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))

	r.GET("/healthz", h.Health)
	v1 := r.Group("/api/v1")
	{
		v1.POST("/schedules", h.CreateSchedule)
		v1.POST("/variants", h.CreateVariants)
	}
	return r
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateSchedule builds one schedule. An optional strategy query parameter
// overrides the config's strategy.
func (h *Handler) CreateSchedule(c *gin.Context) {
	cfg, players, ok := h.bind(c)
	if !ok {
		return
	}

	opts := []schedule.Option{schedule.WithLogger(logrus.NewEntry(h.logger))}
	if name := c.Query("strategy"); name != "" {
		opts = append(opts, schedule.WithStrategy(name))
	}

	sched, err := schedule.Build(players, cfg, opts...)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sched)
}

// CreateVariants builds n variants and returns them best first.
func (h *Handler) CreateVariants(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("n", strconv.Itoa(DefaultVariants)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid n parameter", "kind": "bad_request"})
		return
	}
	if n < 1 || n > variant.MaxVariants {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("n must be between 1 and %d", variant.MaxVariants),
			"kind":  "bad_request",
		})
		return
	}

	cfg, players, ok := h.bind(c)
	if !ok {
		return
	}

	variants, err := variant.GenerateVariants(c.Request.Context(), players, cfg, n,
		schedule.WithLogger(logrus.NewEntry(h.logger)))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, variants)
}

func (h *Handler) bind(c *gin.Context) (*config.Config, []roster.Player, bool) {
	def := config.Default()
	req := PlanRequest{Config: &def}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error(), "kind": "bad_request"})
		return nil, nil, false
	}
	if req.Config == nil {
		req.Config = &def
	}
	return req.Config, config.NormalizeRoster(req.Players), true
}

func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	kind := schedule.Kind(err)
	c.JSON(statusFor(kind), gin.H{"error": err.Error(), "kind": kind})
}

func statusFor(kind string) int {
	switch kind {
	case "validation", "no_goalkeeper", "insufficient_roster":
		return http.StatusUnprocessableEntity
	case "unfillable_position", "invalid_substitution", "inconsistent":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
