package handler

import (
	"math/rand"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"gadgetry/internal/auth"
	"gadgetry/internal/model"
	"gadgetry/internal/service"
)

// GadgetHandler handles gadget lifecycle endpoints.
type GadgetHandler struct {
	gadgetService service.GadgetService
}

// NewGadgetHandler creates a new gadget handler.
func NewGadgetHandler(gadgetService service.GadgetService) *GadgetHandler {
	return &GadgetHandler{gadgetService: gadgetService}
}

// CreateGadgetRequest represents a gadget creation request.
type CreateGadgetRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

// UpdateGadgetRequest represents a partial gadget update. Absent fields are
// left unchanged.
type UpdateGadgetRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2"`
	Status *string `json:"status" validate:"omitempty"`
}

// SelfDestructRequest carries the confirmation code. An empty code requests
// a fresh challenge instead of confirming one.
type SelfDestructRequest struct {
	ConfirmationCode string `json:"confirmationCode"`
}

// GadgetResponse is a gadget annotated with the per-response mission success
// probability. The probability is cosmetic telemetry: sampled at
// serialization time, never persisted, different on every call.
type GadgetResponse struct {
	model.Gadget
	MissionSuccessProbability int `json:"missionSuccessProbability"`
}

// SelfDestructChallengeResponse is returned when a self-destruct sequence is
// initiated. Returning the code in the response stands in for out-of-band
// delivery.
type SelfDestructChallengeResponse struct {
	Message          string `json:"message"`
	ConfirmationCode string `json:"confirmationCode"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
}

// SelfDestructResponse is returned when a self-destruct sequence completes.
type SelfDestructResponse struct {
	Message string       `json:"message"`
	Gadget  model.Gadget `json:"gadget"`
}

// missionSuccessProbability samples a percentage uniformly in [60,100].
func missionSuccessProbability() int {
	return rand.Intn(41) + 60
}

// List godoc
// @Summary List gadgets
// @Tags gadgets
// @Produce json
// @Param status query string false "Filter by status" Enums(Available, Deployed, Destroyed, Decommissioned)
// @Success 200 {array} GadgetResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /gadgets [get]
func (h *GadgetHandler) List(c echo.Context) error {
	var status *model.GadgetStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := model.GadgetStatus(raw)
		status = &s
	}

	gadgets, err := h.gadgetService.List(c.Request().Context(), status)
	if err != nil {
		return err
	}

	out := make([]GadgetResponse, 0, len(gadgets))
	for _, g := range gadgets {
		out = append(out, GadgetResponse{
			Gadget:                    g,
			MissionSuccessProbability: missionSuccessProbability(),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Create godoc
// @Summary Create a gadget
// @Tags gadgets
// @Accept json
// @Produce json
// @Param request body CreateGadgetRequest true "Gadget data"
// @Success 201 {object} model.Gadget
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /gadgets [post]
func (h *GadgetHandler) Create(c echo.Context) error {
	var req CreateGadgetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "please provide a gadget name")
	}

	gadget, err := h.gadgetService.Create(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, gadget)
}

// Update godoc
// @Summary Update a gadget
// @Tags gadgets
// @Accept json
// @Produce json
// @Param id path string true "Gadget ID"
// @Param request body UpdateGadgetRequest true "Fields to update"
// @Success 200 {object} model.Gadget
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /gadgets/{id} [patch]
func (h *GadgetHandler) Update(c echo.Context) error {
	id, err := gadgetID(c)
	if err != nil {
		return err
	}

	var req UpdateGadgetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid gadget fields")
	}

	var status *model.GadgetStatus
	if req.Status != nil {
		s := model.GadgetStatus(*req.Status)
		status = &s
	}

	gadget, err := h.gadgetService.Update(c.Request().Context(), id, req.Name, status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, gadget)
}

// Decommission godoc
// @Summary Decommission a gadget
// @Description Soft-retires the gadget: status becomes Decommissioned and the
// @Description decommission timestamp is set. The record is never deleted.
// @Tags gadgets
// @Produce json
// @Param id path string true "Gadget ID"
// @Success 200 {object} model.Gadget
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /gadgets/{id} [delete]
func (h *GadgetHandler) Decommission(c echo.Context) error {
	id, err := gadgetID(c)
	if err != nil {
		return err
	}

	gadget, err := h.gadgetService.Decommission(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, gadget)
}

// SelfDestruct godoc
// @Summary Trigger a gadget self-destruct sequence
// @Description Without a confirmationCode, issues a single-use code valid for
// @Description five minutes. With one, confirms the sequence and marks the
// @Description gadget Destroyed.
// @Tags gadgets
// @Accept json
// @Produce json
// @Param id path string true "Gadget ID"
// @Param request body SelfDestructRequest true "Confirmation code"
// @Success 200 {object} SelfDestructResponse
// @Success 202 {object} SelfDestructChallengeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /gadgets/{id}/self-destruct [post]
func (h *GadgetHandler) SelfDestruct(c echo.Context) error {
	id, err := gadgetID(c)
	if err != nil {
		return err
	}

	var req SelfDestructRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()

	if req.ConfirmationCode == "" {
		code, err := h.gadgetService.RequestSelfDestruct(ctx, id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusAccepted, SelfDestructChallengeResponse{
			Message:          "Confirmation required to complete self-destruct sequence",
			ConfirmationCode: code,
			ExpiresInSeconds: int(auth.ChallengeTTL.Seconds()),
		})
	}

	gadget, err := h.gadgetService.ConfirmSelfDestruct(ctx, id, req.ConfirmationCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SelfDestructResponse{
		Message: "Gadget self-destruct sequence completed",
		Gadget:  *gadget,
	})
}

func gadgetID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid gadget id")
	}
	return id, nil
}
