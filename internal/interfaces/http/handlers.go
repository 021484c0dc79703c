package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skyclaim/flight-claims/internal/application/port"
	"github.com/skyclaim/flight-claims/internal/application/service"
	"github.com/skyclaim/flight-claims/internal/domain/claim"
	"github.com/skyclaim/flight-claims/internal/domain/geo"
	"github.com/skyclaim/flight-claims/internal/domain/lifecycle"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	claimService  service.ClaimService
	exportService service.ExportService
	logger        Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(claimService service.ClaimService, exportService service.ExportService, logger Logger) *Handlers {
	return &Handlers{
		claimService:  claimService,
		exportService: exportService,
		logger:        logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// SubmitClaimRequest represents the body of POST /api/claims
type SubmitClaimRequest struct {
	Reference          string     `json:"reference"`
	Actor              string     `json:"actor" binding:"required"`
	ScheduledDeparture time.Time  `json:"scheduled_departure" binding:"required"`
	ScheduledArrival   time.Time  `json:"scheduled_arrival" binding:"required"`
	ActualDeparture    *time.Time `json:"actual_departure"`
	ActualArrival      *time.Time `json:"actual_arrival"`
	DepartureAirport   string     `json:"departure_airport" binding:"required"`
	ArrivalAirport     string     `json:"arrival_airport" binding:"required"`
	Category           string     `json:"category" binding:"required"`
	CircumstanceTag    string     `json:"circumstance_tag"`
}

// TransitionRequest represents the body of POST /api/claims/:id/transition
type TransitionRequest struct {
	TargetState    string   `json:"target_state" binding:"required"`
	Actor          string   `json:"actor" binding:"required"`
	Reason         string   `json:"reason"`
	AmountOverride *float64 `json:"amount_override"`
}

// ListClaimsRequest represents query parameters for listing claims
type ListClaimsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// ClaimResponse represents a claim in API responses
type ClaimResponse struct {
	ID             string                          `json:"id"`
	Reference      string                          `json:"reference,omitempty"`
	Status         string                          `json:"status"`
	Facts          claim.DisruptionFacts           `json:"facts"`
	Decision       *claim.CompensationDecision     `json:"decision,omitempty"`
	OverrideAmount *float64                        `json:"override_amount,omitempty"`
	OverrideReason string                          `json:"override_reason,omitempty"`
	DisplayAmount  float64                         `json:"display_amount"`
	History        []*claim.StatusTransitionRecord `json:"history"`
	CreatedAt      string                          `json:"created_at"`
	UpdatedAt      string                          `json:"updated_at"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// SubmitClaim handles POST /api/claims
func (h *Handlers) SubmitClaim(c *gin.Context) {
	var req SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid claim submission", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body: " + err.Error(),
		})
		return
	}

	result, _, err := h.claimService.Submit(c.Request.Context(), service.SubmitClaimRequest{
		Reference: req.Reference,
		Actor:     req.Actor,
		Facts: claim.DisruptionFacts{
			ScheduledDeparture: req.ScheduledDeparture,
			ScheduledArrival:   req.ScheduledArrival,
			ActualDeparture:    req.ActualDeparture,
			ActualArrival:      req.ActualArrival,
			DepartureAirport:   req.DepartureAirport,
			ArrivalAirport:     req.ArrivalAirport,
			Category:           claim.DisruptionCategory(req.Category),
			CircumstanceTag:    req.CircumstanceTag,
		},
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    toClaimResponse(result),
	})
}

// GetClaim handles GET /api/claims/:id
func (h *Handlers) GetClaim(c *gin.Context) {
	result, err := h.claimService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toClaimResponse(result),
	})
}

// ListClaims handles GET /api/claims
func (h *Handlers) ListClaims(c *gin.Context) {
	var req ListClaimsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}

	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	claims, err := h.claimService.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	responses := make([]ClaimResponse, 0, len(claims))
	for _, cl := range claims {
		responses = append(responses, toClaimResponse(cl))
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    responses,
	})
}

// TransitionClaim handles POST /api/claims/:id/transition
func (h *Handlers) TransitionClaim(c *gin.Context) {
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid transition request", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body: " + err.Error(),
		})
		return
	}

	result, _, err := h.claimService.Advance(c.Request.Context(), service.AdvanceClaimRequest{
		ClaimID:        c.Param("id"),
		Target:         lifecycle.Status(req.TargetState),
		Actor:          req.Actor,
		Reason:         req.Reason,
		AmountOverride: req.AmountOverride,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toClaimResponse(result),
	})
}

// ExportClaims handles GET /api/claims/export
func (h *Handlers) ExportClaims(c *gin.Context) {
	workbook, err := h.exportService.ClaimsRegister(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="claims_register.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		workbook)
}

// writeError maps domain errors to HTTP status codes.
func (h *Handlers) writeError(c *gin.Context, err error) {
	var (
		invalidTransition *lifecycle.InvalidTransitionError
		missingReason     *lifecycle.MissingReasonError
		unknownAirport    *geo.UnknownAirportError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, port.ErrClaimNotFound):
		status = http.StatusNotFound
	case errors.As(err, &invalidTransition):
		status = http.StatusConflict
	case errors.Is(err, port.ErrConcurrentModification):
		status = http.StatusConflict
	case errors.As(err, &missingReason):
		status = http.StatusBadRequest
	case errors.Is(err, claim.ErrInvalidFacts):
		status = http.StatusBadRequest
	case errors.As(err, &unknownAirport):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err)
	}

	c.JSON(status, Response{
		Success: false,
		Error:   err.Error(),
	})
}

func toClaimResponse(c *claim.Claim) ClaimResponse {
	return ClaimResponse{
		ID:             c.ID,
		Reference:      c.Reference,
		Status:         c.Status.String(),
		Facts:          c.Facts,
		Decision:       c.Decision,
		OverrideAmount: c.OverrideAmount,
		OverrideReason: c.OverrideReason,
		DisplayAmount:  c.DisplayAmount(),
		History:        c.History,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
	}
}
