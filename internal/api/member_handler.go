package api

import (
	"errors"
	"net/http"

	"fitclub/membership-app/internal/domain"
	"fitclub/membership-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberHandler serves the member-facing dashboard endpoints.
type MemberHandler struct {
	membershipService service.MembershipService
	chartService      service.ChartService
}

func NewMemberHandler(membershipService service.MembershipService, chartService service.ChartService) *MemberHandler {
	return &MemberHandler{
		membershipService: membershipService,
		chartService:      chartService,
	}
}

func memberIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify member.")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format in token.")
		return primitive.NilObjectID, false
	}
	return userID, true
}

// GetMyStatus godoc
// @Summary Get my membership status
// @Description Returns the aggregated lifecycle view of the member's current membership: expiration, grace, trainer period, messaging access, chart eligibility and missing charts.
// @Tags Member
// @Produce json
// @Security BearerAuth
// @Success 200 {object} lifecycle.Status "Aggregated membership status"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "No current membership"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /member/status [get]
func (h *MemberHandler) GetMyStatus(c *gin.Context) {
	userID, ok := memberIDFromContext(c)
	if !ok {
		return
	}

	status, err := h.membershipService.StatusForUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoCurrentMembership) {
			abortWithError(c, http.StatusNotFound, "No current membership.")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to compute membership status.")
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetMyCharts godoc
// @Summary Get my weekly charts
// @Description Retrieves the weekly workout/diet charts of the member's current membership.
// @Tags Member
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.WeeklyChart "List of charts"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "No current membership"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /member/charts [get]
func (h *MemberHandler) GetMyCharts(c *gin.Context) {
	userID, ok := memberIDFromContext(c)
	if !ok {
		return
	}

	charts, err := h.chartService.MyCharts(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoCurrentMembership) {
			abortWithError(c, http.StatusNotFound, "No current membership.")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve charts.")
		return
	}
	if charts == nil {
		charts = []domain.WeeklyChart{}
	}
	c.JSON(http.StatusOK, charts)
}

// GetChartDownloadURL godoc
// @Summary Get a download URL for one of my chart attachments
// @Tags Member
// @Produce json
// @Security BearerAuth
// @Param chartId path string true "Chart's ObjectID Hex"
// @Success 200 {object} gin.H "downloadUrl"
// @Failure 400 {object} gin.H "Invalid chart ID format"
// @Failure 403 {object} gin.H "Chart belongs to another member"
// @Failure 404 {object} gin.H "Chart not found or has no file"
// @Router /member/charts/{chartId}/download-url [get]
func (h *MemberHandler) GetChartDownloadURL(c *gin.Context) {
	userID, ok := memberIDFromContext(c)
	if !ok {
		return
	}
	chartID, err := primitive.ObjectIDFromHex(c.Param("chartId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid chart ID format.")
		return
	}

	url, err := h.chartService.DownloadURL(c.Request.Context(), userID, domain.RoleMember, chartID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChartNotFound):
			abortWithError(c, http.StatusNotFound, "Chart not found.")
		case errors.Is(err, service.ErrChartFileMissing):
			abortWithError(c, http.StatusNotFound, "Chart has no attached file.")
		case errors.Is(err, service.ErrChartNotOwned):
			abortWithError(c, http.StatusForbidden, "Chart belongs to another member.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

// CanMessageTrainer godoc
// @Summary Check whether trainer messaging is currently permitted
// @Tags Member
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "canMessage"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /member/trainer/can-message [get]
func (h *MemberHandler) CanMessageTrainer(c *gin.Context) {
	userID, ok := memberIDFromContext(c)
	if !ok {
		return
	}

	canMessage, err := h.membershipService.CanMessageTrainer(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to evaluate messaging access.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"canMessage": canMessage})
}

// --- Purchase ---

type PurchaseRequest struct {
	PlanName       string  `json:"planName" binding:"required"`
	DurationMonths int     `json:"durationMonths" binding:"required,min=1"`
	Price          float64 `json:"price"`
	TrainerID      *string `json:"trainerId,omitempty"`
	TrainerMonths  int     `json:"trainerMonths,omitempty"`
	TrainerPrice   float64 `json:"trainerPrice,omitempty"`
}

// PurchaseMembership godoc
// @Summary Purchase a membership
// @Description Records a membership purchase awaiting admin approval, optionally with a trainer add-on.
// @Tags Member
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param purchase body PurchaseRequest true "Purchase details"
// @Success 201 {object} domain.Membership "Pending membership"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /member/memberships [post]
func (h *MemberHandler) PurchaseMembership(c *gin.Context) {
	userID, ok := memberIDFromContext(c)
	if !ok {
		return
	}
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.PurchaseInput{
		UserID:         userID,
		PlanName:       req.PlanName,
		DurationMonths: req.DurationMonths,
		Price:          req.Price,
		TrainerMonths:  req.TrainerMonths,
		TrainerPrice:   req.TrainerPrice,
	}
	if req.TrainerID != nil {
		trainerID, err := primitive.ObjectIDFromHex(*req.TrainerID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
			return
		}
		input.TrainerID = &trainerID
	}

	membership, err := h.membershipService.Purchase(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDuration) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to record purchase.")
		return
	}
	c.JSON(http.StatusCreated, membership)
}
