package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/longlong7211/intern-manager-sub000/internal/dto"
	"github.com/longlong7211/intern-manager-sub000/internal/service"
	appErrors "github.com/longlong7211/intern-manager-sub000/pkg/errors"
	"github.com/longlong7211/intern-manager-sub000/pkg/response"
)

// InternshipHandler wires HTTP endpoints to the hour ledger service.
type InternshipHandler struct {
	hours *service.HourService
}

// NewInternshipHandler creates a new handler.
func NewInternshipHandler(hours *service.HourService) *InternshipHandler {
	return &InternshipHandler{hours: hours}
}

// AddHours godoc
// @Summary Append an hour adjustment
// @Description Append one signed entry to the internship's hour ledger and recompute the total
// @Tags Internships
// @Accept json
// @Produce json
// @Param id path string true "Internship ID"
// @Param payload body dto.AddHourAdjustmentRequest true "Adjustment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /internships/{id}/hours [post]
func (h *InternshipHandler) AddHours(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.AddHourAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid adjustment payload"))
		return
	}

	entry, total, err := h.hours.AddAdjustment(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, entry, nil, map[string]interface{}{"total_hours": total})
}

// GetHours godoc
// @Summary Fetch the hour ledger
// @Description Returns every ledger entry with the total summed from the entries
// @Tags Internships
// @Produce json
// @Param id path string true "Internship ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /internships/{id}/hours [get]
func (h *InternshipHandler) GetHours(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	summary, err := h.hours.GetHours(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// ExportStatement godoc
// @Summary Download the hour statement
// @Description Renders the hour ledger as a PDF or CSV document
// @Tags Internships
// @Produce application/pdf
// @Produce text/csv
// @Param id path string true "Internship ID"
// @Param format query string false "Statement format (pdf or csv)" default(pdf)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /internships/{id}/hours/statement [get]
func (h *InternshipHandler) ExportStatement(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := c.DefaultQuery("format", service.StatementFormatPDF)
	payload, contentType, err := h.hours.ExportStatement(c.Request.Context(), claims, c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("hour-statement-%s.%s", c.Param("id"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
