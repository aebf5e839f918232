// HTTP transport for the survival lab service.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"survivallab/internal/lab"
)

// SimulateRequest mirrors the lab's round request with transport-level
// defaults and range validation. Pointer fields distinguish "absent" from an
// explicit zero.
type SimulateRequest struct {
	Rounds         *int     `json:"rounds" binding:"omitempty,gte=1,lte=72"`
	AgentNames     []string `json:"agent_names" binding:"omitempty,dive,min=1"`
	Beds           *int     `json:"beds" binding:"omitempty,gte=1"`
	Nurses         *int     `json:"nurses" binding:"omitempty,gte=1"`
	Doctors        *int     `json:"doctors" binding:"omitempty,gte=1"`
	TokensUsed     *int     `json:"tokens_used" binding:"omitempty,gte=0"`
	APICalls       *int     `json:"api_calls" binding:"omitempty,gte=0"`
	SimulationRuns *int     `json:"simulation_runs" binding:"omitempty,gte=1"`
	Seed           *int64   `json:"seed"`
}

// Defaults matching the original request schema.
var defaultAgentNames = []string{"Triage Optimizer", "Flow Marshal"}

func (r SimulateRequest) toLabRequest() lab.Request {
	req := lab.Request{
		Rounds:         1,
		AgentNames:     defaultAgentNames,
		Beds:           20,
		Nurses:         12,
		Doctors:        6,
		TokensUsed:     1500,
		APICalls:       15,
		SimulationRuns: 1,
		Seed:           r.Seed,
	}
	if r.Rounds != nil {
		req.Rounds = *r.Rounds
	}
	if len(r.AgentNames) > 0 {
		req.AgentNames = r.AgentNames
	}
	if r.Beds != nil {
		req.Beds = *r.Beds
	}
	if r.Nurses != nil {
		req.Nurses = *r.Nurses
	}
	if r.Doctors != nil {
		req.Doctors = *r.Doctors
	}
	if r.TokensUsed != nil {
		req.TokensUsed = *r.TokensUsed
	}
	if r.APICalls != nil {
		req.APICalls = *r.APICalls
	}
	if r.SimulationRuns != nil {
		req.SimulationRuns = *r.SimulationRuns
	}
	return req
}

// Handler carries the wired collaborators for the API routes.
type Handler struct {
	Service   *lab.Service
	Validator *validator.Validate
	Logger    zerolog.Logger
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Simulate runs a full session and returns rounds, results, and leaderboard.
func (h *Handler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body failed validation", err.Error())
		return
	}
	if err := h.Validator.Var(req.AgentNames, "max=32,unique"); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "agent_names must be unique, at most 32", err.Error())
		return
	}

	result := h.Service.RunSession(c.Request.Context(), req.toLabRequest(), nil)
	c.JSON(http.StatusOK, result)
}

// ShowConfig exposes the loaded economics document.
func (h *Handler) ShowConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Config())
}

func writeError(c *gin.Context, status int, code, message string, details any) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{"code": code, "message": message, "details": details},
	})
}

// Router builds the gin engine with middleware and routes.
func Router(cfg Config, svc *lab.Service, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(logger))

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		MaxAge:       12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &Handler{
		Service:   svc,
		Validator: validator.New(),
		Logger:    logger,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/simulate", h.Simulate)
		api.GET("/config", h.ShowConfig)
	}

	return r
}
