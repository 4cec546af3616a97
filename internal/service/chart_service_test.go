package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitclub/membership-app/internal/domain"
)

type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

type chartFixture struct {
	membershipRepo *fakeMembershipRepo
	chartRepo      *fakeChartRepo
	storage        *fakeStorage
	svc            ChartService
}

func newChartFixture() *chartFixture {
	f := &chartFixture{
		membershipRepo: newFakeMembershipRepo(),
		chartRepo:      &fakeChartRepo{},
		storage:        &fakeStorage{},
	}
	f.svc = NewChartService(f.chartRepo, f.membershipRepo, f.storage, fixedClock{testNow})
	return f
}

func (f *chartFixture) seedMembership(t *testing.T, planName string, startDaysAgo int, trainer bool) *domain.Membership {
	t.Helper()
	start := testNow.AddDate(0, 0, -startDaysAgo)
	end := testNow.AddDate(0, 2, 0)
	m := &domain.Membership{
		UserID:          primitive.NewObjectID(),
		PlanName:        planName,
		Status:          domain.StatusActive,
		StartDate:       &start,
		EndDate:         &end,
		TrainerAssigned: trainer,
	}
	_, err := f.membershipRepo.Create(context.Background(), m)
	require.NoError(t, err)
	return m
}

func TestCreateChart(t *testing.T) {
	f := newChartFixture()
	m := f.seedMembership(t, "Premium", 10, false)
	trainerID := primitive.NewObjectID()

	chart, err := f.svc.CreateChart(context.Background(), CreateChartInput{
		MembershipID: m.ID,
		WeekNumber:   2,
		ChartType:    domain.ChartWorkout,
		Title:        "Week 2 push/pull",
		CreatedBy:    &trainerID,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, chart.WeekNumber)
	assert.Equal(t, domain.ChartWorkout, chart.ChartType)
}

func TestCreateChart_NotApplicableForRegularWithoutTrainer(t *testing.T) {
	f := newChartFixture()
	m := f.seedMembership(t, "Regular", 10, false)

	_, err := f.svc.CreateChart(context.Background(), CreateChartInput{
		MembershipID: m.ID,
		WeekNumber:   1,
		ChartType:    domain.ChartDiet,
	})

	assert.ErrorIs(t, err, ErrChartNotApplicable)
}

func TestCreateChart_InvalidInput(t *testing.T) {
	f := newChartFixture()
	m := f.seedMembership(t, "Premium", 10, false)

	_, err := f.svc.CreateChart(context.Background(), CreateChartInput{
		MembershipID: m.ID,
		WeekNumber:   0,
		ChartType:    domain.ChartWorkout,
	})
	assert.ErrorIs(t, err, ErrInvalidChartInput)

	_, err = f.svc.CreateChart(context.Background(), CreateChartInput{
		MembershipID: m.ID,
		WeekNumber:   1,
		ChartType:    domain.ChartType("cardio"),
	})
	assert.ErrorIs(t, err, ErrInvalidChartInput)
}

func TestUploadFlow(t *testing.T) {
	f := newChartFixture()
	m := f.seedMembership(t, "Premium", 10, false)
	chart, err := f.svc.CreateChart(context.Background(), CreateChartInput{
		MembershipID: m.ID,
		WeekNumber:   2,
		ChartType:    domain.ChartDiet,
	})
	require.NoError(t, err)

	resp, err := f.svc.RequestUploadURL(context.Background(), chart.ID, "application/pdf")
	require.NoError(t, err)
	assert.Contains(t, resp.ObjectKey, m.ID.Hex())
	assert.Contains(t, resp.UploadURL, resp.ObjectKey)

	confirmed, err := f.svc.ConfirmUpload(context.Background(), chart.ID, resp.ObjectKey)
	require.NoError(t, err)
	assert.Equal(t, resp.ObjectKey, confirmed.FileObjectKey)
}

func TestConfirmUpload_ReplacementDeletesOldObject(t *testing.T) {
	f := newChartFixture()
	m := f.seedMembership(t, "Premium", 10, false)
	chart, err := f.svc.CreateChart(context.Background(), CreateChartInput{
		MembershipID: m.ID,
		WeekNumber:   1,
		ChartType:    domain.ChartWorkout,
	})
	require.NoError(t, err)

	_, err = f.svc.ConfirmUpload(context.Background(), chart.ID, "charts/old-key.pdf")
	require.NoError(t, err)
	_, err = f.svc.ConfirmUpload(context.Background(), chart.ID, "charts/new-key.pdf")
	require.NoError(t, err)

	assert.Equal(t, []string{"charts/old-key.pdf"}, f.storage.deleted)
}

func TestRequestUploadURL_RejectsUnsupportedContentType(t *testing.T) {
	f := newChartFixture()
	m := f.seedMembership(t, "Premium", 10, false)
	chart, err := f.svc.CreateChart(context.Background(), CreateChartInput{
		MembershipID: m.ID,
		WeekNumber:   1,
		ChartType:    domain.ChartWorkout,
	})
	require.NoError(t, err)

	_, err = f.svc.RequestUploadURL(context.Background(), chart.ID, "video/mp4")
	assert.Error(t, err)
}

func TestDownloadURL_MemberOwnershipEnforced(t *testing.T) {
	f := newChartFixture()
	m := f.seedMembership(t, "Premium", 10, false)
	chart, err := f.svc.CreateChart(context.Background(), CreateChartInput{
		MembershipID: m.ID,
		WeekNumber:   1,
		ChartType:    domain.ChartWorkout,
	})
	require.NoError(t, err)
	_, err = f.svc.ConfirmUpload(context.Background(), chart.ID, "charts/key.pdf")
	require.NoError(t, err)

	url, err := f.svc.DownloadURL(context.Background(), m.UserID, domain.RoleMember, chart.ID)
	require.NoError(t, err)
	assert.Contains(t, url, "charts/key.pdf")

	_, err = f.svc.DownloadURL(context.Background(), primitive.NewObjectID(), domain.RoleMember, chart.ID)
	assert.ErrorIs(t, err, ErrChartNotOwned)
}

func TestReminders(t *testing.T) {
	f := newChartFixture()
	// Week 3, workout present, diet missing.
	premium := f.seedMembership(t, "Premium", 20, false)
	_, err := f.chartRepo.Create(context.Background(), &domain.WeeklyChart{
		MembershipID: premium.ID,
		WeekNumber:   3,
		ChartType:    domain.ChartWorkout,
	})
	require.NoError(t, err)

	// Basic with workout present needs nothing.
	basic := f.seedMembership(t, "Basic", 20, false)
	_, err = f.chartRepo.Create(context.Background(), &domain.WeeklyChart{
		MembershipID: basic.ID,
		WeekNumber:   3,
		ChartType:    domain.ChartWorkout,
	})
	require.NoError(t, err)

	// Regular without a trainer is not chart-eligible at all.
	f.seedMembership(t, "Regular", 20, false)

	reminders, err := f.svc.Reminders(context.Background())

	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, premium.ID, reminders[0].MembershipID)
	assert.Equal(t, 3, reminders[0].WeekNumber)
	assert.Equal(t, []domain.ChartType{domain.ChartDiet}, reminders[0].MissingTypes)
}
