package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/longlong7211/intern-manager-sub000/internal/dto"
	"github.com/longlong7211/intern-manager-sub000/internal/service"
	appErrors "github.com/longlong7211/intern-manager-sub000/pkg/errors"
	"github.com/longlong7211/intern-manager-sub000/pkg/response"
)

// TerminationHandler wires HTTP endpoints to the termination service.
type TerminationHandler struct {
	service *service.TerminationService
}

// NewTerminationHandler creates a new handler.
func NewTerminationHandler(svc *service.TerminationService) *TerminationHandler {
	return &TerminationHandler{service: svc}
}

// Request godoc
// @Summary Request early termination of an internship
// @Tags Terminations
// @Accept json
// @Produce json
// @Param id path string true "Internship ID"
// @Param payload body dto.RequestTerminationRequest true "Termination reason"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /internships/{id}/termination [post]
func (h *TerminationHandler) Request(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.RequestTerminationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid termination payload"))
		return
	}

	request, err := h.service.Request(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// Process godoc
// @Summary Approve or reject a termination request
// @Description Approval completes the internship; rejection restores it to ACTIVE
// @Tags Terminations
// @Accept json
// @Produce json
// @Param id path string true "Termination request ID"
// @Param payload body dto.ProcessTerminationRequest true "Verdict payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /terminations/{id}/process [post]
func (h *TerminationHandler) Process(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ProcessTerminationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid verdict payload"))
		return
	}

	request, err := h.service.Process(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// ListPending godoc
// @Summary List pending termination requests
// @Description Unit-scoped for level-two reviewers, global for supervisors and admins
// @Tags Terminations
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /terminations/pending [get]
func (h *TerminationHandler) ListPending(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	requests, err := h.service.ListPending(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}
