package api

import (
	"errors"
	"net/http"

	"fitclub/membership-app/internal/domain"
	"fitclub/membership-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChartHandler serves chart authoring for trainers and admins.
type ChartHandler struct {
	chartService service.ChartService
}

func NewChartHandler(chartService service.ChartService) *ChartHandler {
	return &ChartHandler{chartService: chartService}
}

// --- Request/Response Structs ---

type CreateChartRequest struct {
	WeekNumber int              `json:"weekNumber" binding:"required,min=1"`
	ChartType  domain.ChartType `json:"chartType" binding:"required,oneof=workout diet"`
	Title      string           `json:"title"`
	Content    string           `json:"content"`
}

type ChartUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ChartConfirmUploadRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// CreateChart godoc
// @Summary Create a weekly chart for a membership
// @Description Trainers author charts under their own ID; admin-authored charts carry no creator.
// @Tags Charts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param membershipId path string true "Membership's ObjectID Hex"
// @Param chart body CreateChartRequest true "Chart details"
// @Success 201 {object} domain.WeeklyChart "Created chart"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Membership not found"
// @Failure 422 {object} gin.H "Charts not applicable to this membership"
// @Router /charts/memberships/{membershipId} [post]
func (h *ChartHandler) CreateChart(c *gin.Context) {
	membershipID, err := primitive.ObjectIDFromHex(c.Param("membershipId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid membership ID format.")
		return
	}
	var req CreateChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.CreateChartInput{
		MembershipID: membershipID,
		WeekNumber:   req.WeekNumber,
		ChartType:    req.ChartType,
		Title:        req.Title,
		Content:      req.Content,
	}
	// Admin-authored charts have no creator; trainer charts do.
	if role, err := getUserRoleFromContext(c); err == nil && role == domain.RoleTrainer {
		if userIDStr, err := getUserIDFromContext(c); err == nil {
			if trainerID, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
				input.CreatedBy = &trainerID
			}
		}
	}

	chart, err := h.chartService.CreateChart(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMembershipNotFound):
			abortWithError(c, http.StatusNotFound, "Membership not found.")
		case errors.Is(err, service.ErrChartNotApplicable):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrInvalidChartInput):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create chart.")
		}
		return
	}
	c.JSON(http.StatusCreated, chart)
}

// GetChartsForMembership godoc
// @Summary List charts of a membership
// @Tags Charts
// @Produce json
// @Security BearerAuth
// @Param membershipId path string true "Membership's ObjectID Hex"
// @Success 200 {array} domain.WeeklyChart "Charts"
// @Failure 400 {object} gin.H "Invalid membership ID format"
// @Router /charts/memberships/{membershipId} [get]
func (h *ChartHandler) GetChartsForMembership(c *gin.Context) {
	membershipID, err := primitive.ObjectIDFromHex(c.Param("membershipId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid membership ID format.")
		return
	}

	charts, err := h.chartService.ChartsForMembership(c.Request.Context(), membershipID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve charts.")
		return
	}
	if charts == nil {
		charts = []domain.WeeklyChart{}
	}
	c.JSON(http.StatusOK, charts)
}

// RequestUploadURL godoc
// @Summary Request a presigned upload URL for a chart attachment
// @Description Returns a temporary PUT URL and the object key the client must confirm after uploading.
// @Tags Charts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chartId path string true "Chart's ObjectID Hex"
// @Param upload body ChartUploadURLRequest true "Attachment content type (PDF or image)"
// @Success 200 {object} service.UploadURLResponse "Upload URL and object key"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Chart not found"
// @Router /charts/{chartId}/upload-url [post]
func (h *ChartHandler) RequestUploadURL(c *gin.Context) {
	chartID, err := primitive.ObjectIDFromHex(c.Param("chartId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid chart ID format.")
		return
	}
	var req ChartUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	resp, err := h.chartService.RequestUploadURL(c.Request.Context(), chartID, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChartNotFound):
			abortWithError(c, http.StatusNotFound, "Chart not found.")
		case errors.Is(err, service.ErrUploadURLError):
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL.")
		default:
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload godoc
// @Summary Confirm a chart attachment upload
// @Tags Charts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chartId path string true "Chart's ObjectID Hex"
// @Param confirm body ChartConfirmUploadRequest true "Uploaded object key"
// @Success 200 {object} domain.WeeklyChart "Updated chart"
// @Failure 404 {object} gin.H "Chart not found"
// @Router /charts/{chartId}/confirm-upload [post]
func (h *ChartHandler) ConfirmUpload(c *gin.Context) {
	chartID, err := primitive.ObjectIDFromHex(c.Param("chartId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid chart ID format.")
		return
	}
	var req ChartConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	chart, err := h.chartService.ConfirmUpload(c.Request.Context(), chartID, req.ObjectKey)
	if err != nil {
		if errors.Is(err, service.ErrChartNotFound) {
			abortWithError(c, http.StatusNotFound, "Chart not found.")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to confirm upload.")
		return
	}
	c.JSON(http.StatusOK, chart)
}
