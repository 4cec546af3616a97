package api

import (
	"errors"
	"net/http"
	"strings"

	"fitclub/membership-app/internal/domain"
	"fitclub/membership-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler serves the admin panel endpoints: approval queue,
// status lists and the lapse sweep.
type AdminHandler struct {
	membershipService service.MembershipService
	chartService      service.ChartService
}

func NewAdminHandler(membershipService service.MembershipService, chartService service.ChartService) *AdminHandler {
	return &AdminHandler{
		membershipService: membershipService,
		chartService:      chartService,
	}
}

// ListMemberships godoc
// @Summary List memberships with their lifecycle status
// @Description Returns aggregated status views, optionally filtered by a comma-separated status list (pending,active,grace_period,...).
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Comma-separated statuses"
// @Success 200 {array} lifecycle.Status "Status views"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /admin/memberships [get]
func (h *AdminHandler) ListMemberships(c *gin.Context) {
	var statuses []domain.MembershipStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, domain.MembershipStatus(strings.TrimSpace(s)))
		}
	}

	views, err := h.membershipService.StatusesByFilter(c.Request.Context(), statuses)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list memberships.")
		return
	}
	c.JSON(http.StatusOK, views)
}

func membershipIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("membershipId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid membership ID format.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ApproveMembership godoc
// @Summary Approve a pending membership
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param membershipId path string true "Membership's ObjectID Hex"
// @Success 200 {object} domain.Membership "Activated membership"
// @Failure 400 {object} gin.H "Invalid ID format"
// @Failure 404 {object} gin.H "Membership not found"
// @Failure 409 {object} gin.H "Membership not pending"
// @Router /admin/memberships/{membershipId}/approve [post]
func (h *AdminHandler) ApproveMembership(c *gin.Context) {
	membershipID, ok := membershipIDParam(c)
	if !ok {
		return
	}

	membership, err := h.membershipService.Approve(c.Request.Context(), membershipID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMembershipNotFound):
			abortWithError(c, http.StatusNotFound, "Membership not found.")
		case errors.Is(err, service.ErrNotPending):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to approve membership.")
		}
		return
	}
	c.JSON(http.StatusOK, membership)
}

// RejectMembership godoc
// @Summary Reject a pending membership
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param membershipId path string true "Membership's ObjectID Hex"
// @Success 204 "Rejected"
// @Failure 404 {object} gin.H "Membership not found"
// @Failure 409 {object} gin.H "Membership not pending"
// @Router /admin/memberships/{membershipId}/reject [post]
func (h *AdminHandler) RejectMembership(c *gin.Context) {
	membershipID, ok := membershipIDParam(c)
	if !ok {
		return
	}

	err := h.membershipService.Reject(c.Request.Context(), membershipID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMembershipNotFound):
			abortWithError(c, http.StatusNotFound, "Membership not found.")
		case errors.Is(err, service.ErrNotPending):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to reject membership.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

type RenewRequest struct {
	Months int `json:"months" binding:"required,min=1"`
}

// RenewMembership godoc
// @Summary Renew a membership in place
// @Description Resets the membership row to active with fresh start/end dates.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param membershipId path string true "Membership's ObjectID Hex"
// @Param renewal body RenewRequest true "Renewal duration"
// @Success 200 {object} domain.Membership "Renewed membership"
// @Failure 409 {object} gin.H "Membership not renewable"
// @Router /admin/memberships/{membershipId}/renew [post]
func (h *AdminHandler) RenewMembership(c *gin.Context) {
	membershipID, ok := membershipIDParam(c)
	if !ok {
		return
	}
	var req RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	membership, err := h.membershipService.Renew(c.Request.Context(), membershipID, req.Months)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMembershipNotFound):
			abortWithError(c, http.StatusNotFound, "Membership not found.")
		case errors.Is(err, service.ErrNotRenewable):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidDuration):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to renew membership.")
		}
		return
	}
	c.JSON(http.StatusOK, membership)
}

// SweepLapsed godoc
// @Summary Move lapsed active memberships into their grace period
// @Description Runs the lapse sweep: active memberships past their end date get grace_period status and a grace window; lapsed trainer periods get their grace window backfilled.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "updated count"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /admin/memberships/sweep [post]
func (h *AdminHandler) SweepLapsed(c *gin.Context) {
	updated, err := h.membershipService.MarkLapsed(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Lapse sweep failed.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// ListChartReminders godoc
// @Summary List missing-chart reminders for the current week
// @Description For every active, chart-eligible membership, names the chart types still missing for its current week.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.ChartReminder "Reminders"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /admin/charts/reminders [get]
func (h *AdminHandler) ListChartReminders(c *gin.Context) {
	reminders, err := h.chartService.Reminders(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute chart reminders.")
		return
	}
	if reminders == nil {
		reminders = []service.ChartReminder{}
	}
	c.JSON(http.StatusOK, reminders)
}
