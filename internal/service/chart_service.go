package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"fitclub/membership-app/internal/domain"
	"fitclub/membership-app/internal/lifecycle"
	"fitclub/membership-app/internal/repository"
	"fitclub/membership-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrChartNotFound      = errors.New("weekly chart not found")
	ErrChartNotApplicable = errors.New("weekly charts are not applicable to this membership")
	ErrChartNotOwned      = errors.New("chart does not belong to this member")
	ErrChartFileMissing   = errors.New("chart has no attached file")
	ErrInvalidChartInput  = errors.New("invalid chart type or week number")
	ErrUploadURLError     = errors.New("failed to generate upload URL")
	ErrDownloadURLError   = errors.New("failed to generate download URL")
)

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // The key the client reports back on confirm
}

// CreateChartInput carries a new weekly chart authored by a trainer or
// an admin (CreatedBy nil).
type CreateChartInput struct {
	MembershipID primitive.ObjectID
	WeekNumber   int
	ChartType    domain.ChartType
	Title        string
	Content      string
	CreatedBy    *primitive.ObjectID
}

// ChartReminder names the chart types still missing for a membership's
// current week.
type ChartReminder struct {
	MembershipID primitive.ObjectID `json:"membershipId"`
	UserID       primitive.ObjectID `json:"userId"`
	WeekNumber   int                `json:"weekNumber"`
	MissingTypes []domain.ChartType `json:"missingTypes"`
}

type ChartService interface {
	CreateChart(ctx context.Context, input CreateChartInput) (*domain.WeeklyChart, error)
	ChartsForMembership(ctx context.Context, membershipID primitive.ObjectID) ([]domain.WeeklyChart, error)
	// MyCharts returns the charts of the member's current membership.
	MyCharts(ctx context.Context, userID primitive.ObjectID) ([]domain.WeeklyChart, error)

	// Upload process for chart attachments (PDFs, images).
	RequestUploadURL(ctx context.Context, chartID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmUpload(ctx context.Context, chartID primitive.ObjectID, objectKey string) (*domain.WeeklyChart, error)
	DownloadURL(ctx context.Context, requesterID primitive.ObjectID, requesterRole domain.Role, chartID primitive.ObjectID) (string, error)

	// Reminders lists, per active chart-eligible membership, the chart
	// types missing for the current week.
	Reminders(ctx context.Context) ([]ChartReminder, error)
}

// chartService implements the ChartService interface.
type chartService struct {
	chartRepo      repository.WeeklyChartRepository
	membershipRepo repository.MembershipRepository
	fileStorage    storage.FileStorage
	clock          lifecycle.Clock
}

// NewChartService creates a new instance of chartService.
func NewChartService(
	chartRepo repository.WeeklyChartRepository,
	membershipRepo repository.MembershipRepository,
	fileStorage storage.FileStorage,
	clock lifecycle.Clock,
) ChartService {
	return &chartService{
		chartRepo:      chartRepo,
		membershipRepo: membershipRepo,
		fileStorage:    fileStorage,
		clock:          clock,
	}
}

func (s *chartService) CreateChart(ctx context.Context, input CreateChartInput) (*domain.WeeklyChart, error) {
	if !input.ChartType.IsValid() || input.WeekNumber < 1 {
		return nil, ErrInvalidChartInput
	}
	membership, err := s.membershipRepo.GetByID(ctx, input.MembershipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	if !lifecycle.ChartEligible(membership) {
		return nil, ErrChartNotApplicable
	}

	chart := &domain.WeeklyChart{
		MembershipID: input.MembershipID,
		WeekNumber:   input.WeekNumber,
		ChartType:    input.ChartType,
		Title:        input.Title,
		Content:      input.Content,
		CreatedBy:    input.CreatedBy,
	}
	chartID, err := s.chartRepo.Create(ctx, chart)
	if err != nil {
		return nil, err
	}
	chart.ID = chartID
	return chart, nil
}

func (s *chartService) ChartsForMembership(ctx context.Context, membershipID primitive.ObjectID) ([]domain.WeeklyChart, error) {
	return s.chartRepo.GetByMembershipID(ctx, membershipID)
}

func (s *chartService) MyCharts(ctx context.Context, userID primitive.ObjectID) ([]domain.WeeklyChart, error) {
	membership, err := s.membershipRepo.GetCurrentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoCurrentMembership
		}
		return nil, err
	}
	return s.chartRepo.GetByMembershipID(ctx, membership.ID)
}

// === Upload process ===

func (s *chartService) RequestUploadURL(ctx context.Context, chartID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	lowered := strings.ToLower(contentType)
	if lowered != "application/pdf" && !strings.HasPrefix(lowered, "image/") {
		return nil, errors.New("chart attachments must be a PDF or an image")
	}

	chart, err := s.getChart(ctx, chartID)
	if err != nil {
		return nil, err
	}

	fileExtension := "bin"
	if parts := strings.Split(lowered, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("charts",
		chart.MembershipID.Hex(),
		chart.ID.Hex(),
		fmt.Sprintf("%s.%s", uuid.NewString(), fileExtension),
	)

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}
	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

func (s *chartService) ConfirmUpload(ctx context.Context, chartID primitive.ObjectID, objectKey string) (*domain.WeeklyChart, error) {
	if objectKey == "" {
		return nil, errors.New("object key is required")
	}
	chart, err := s.getChart(ctx, chartID)
	if err != nil {
		return nil, err
	}

	// Replacing an attachment orphans the previous object; clean it up.
	if chart.FileObjectKey != "" && chart.FileObjectKey != objectKey {
		_ = s.fileStorage.DeleteObject(ctx, chart.FileObjectKey)
	}

	chart.FileObjectKey = objectKey
	if err := s.chartRepo.Update(ctx, chart); err != nil {
		return nil, err
	}
	return chart, nil
}

func (s *chartService) DownloadURL(ctx context.Context, requesterID primitive.ObjectID, requesterRole domain.Role, chartID primitive.ObjectID) (string, error) {
	chart, err := s.getChart(ctx, chartID)
	if err != nil {
		return "", err
	}
	if chart.FileObjectKey == "" {
		return "", ErrChartFileMissing
	}

	// Members may only fetch attachments of their own membership;
	// trainers and admins are trusted with any chart.
	if requesterRole == domain.RoleMember {
		membership, err := s.membershipRepo.GetByID(ctx, chart.MembershipID)
		if err != nil {
			return "", err
		}
		if membership.UserID != requesterID {
			return "", ErrChartNotOwned
		}
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, chart.FileObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrDownloadURLError
	}
	return url, nil
}

// === Reminders ===

func (s *chartService) Reminders(ctx context.Context) ([]ChartReminder, error) {
	memberships, err := s.membershipRepo.ListByStatuses(ctx, []domain.MembershipStatus{domain.StatusActive})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(memberships))
	for i := range memberships {
		ids = append(ids, memberships[i].ID)
	}
	charts, err := s.chartRepo.GetByMembershipIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	chartsByMembership := make(map[primitive.ObjectID][]domain.WeeklyChart)
	for _, chart := range charts {
		chartsByMembership[chart.MembershipID] = append(chartsByMembership[chart.MembershipID], chart)
	}

	now := s.clock.Now()
	var reminders []ChartReminder
	for i := range memberships {
		m := &memberships[i]
		missing := lifecycle.MissingChartTypes(m, chartsByMembership[m.ID], now)
		if len(missing) == 0 {
			continue
		}
		week := lifecycle.CurrentWeek(m.StartDate, now)
		reminders = append(reminders, ChartReminder{
			MembershipID: m.ID,
			UserID:       m.UserID,
			WeekNumber:   week.Number,
			MissingTypes: missing,
		})
	}
	return reminders, nil
}

func (s *chartService) getChart(ctx context.Context, chartID primitive.ObjectID) (*domain.WeeklyChart, error) {
	chart, err := s.chartRepo.GetByID(ctx, chartID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChartNotFound
		}
		return nil, err
	}
	return chart, nil
}
