package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitclub/membership-app/internal/domain"
	"fitclub/membership-app/internal/lifecycle"
	"fitclub/membership-app/internal/service"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)
	os.Exit(exitCode)
}

// injectUser stands in for AuthMiddleware in handler tests.
func injectUser(userID string, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUserIDKey, userID)
		c.Set(ContextUserRoleKey, role)
	}
}

// stubMembershipService returns canned results for handler tests.
type stubMembershipService struct {
	status     *lifecycle.Status
	statusErr  error
	canMessage bool
}

func (s *stubMembershipService) Purchase(context.Context, service.PurchaseInput) (*domain.Membership, error) {
	return nil, nil
}

func (s *stubMembershipService) Approve(context.Context, primitive.ObjectID) (*domain.Membership, error) {
	return nil, nil
}

func (s *stubMembershipService) Reject(context.Context, primitive.ObjectID) error {
	return nil
}

func (s *stubMembershipService) Renew(context.Context, primitive.ObjectID, int) (*domain.Membership, error) {
	return nil, nil
}

func (s *stubMembershipService) MarkLapsed(context.Context) (int, error) {
	return 0, nil
}

func (s *stubMembershipService) StatusForUser(context.Context, primitive.ObjectID) (*lifecycle.Status, error) {
	return s.status, s.statusErr
}

func (s *stubMembershipService) StatusesByFilter(context.Context, []domain.MembershipStatus) ([]lifecycle.Status, error) {
	return nil, nil
}

func (s *stubMembershipService) CanMessageTrainer(context.Context, primitive.ObjectID) (bool, error) {
	return s.canMessage, nil
}

func memberRouter(userID string, membershipSvc service.MembershipService) *gin.Engine {
	r := gin.New()
	handler := NewMemberHandler(membershipSvc, nil)
	group := r.Group("/member", injectUser(userID, domain.RoleMember))
	group.GET("/status", handler.GetMyStatus)
	group.GET("/trainer/can-message", handler.CanMessageTrainer)
	return r
}

func TestGetMyStatus_Success(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	userID := primitive.NewObjectID()
	start := now.AddDate(0, 0, -20)
	end := now.AddDate(0, 0, 40)
	m := &domain.Membership{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		PlanName:  "Premium",
		Status:    domain.StatusActive,
		StartDate: &start,
		EndDate:   &end,
	}
	m.DeriveTier()
	status := lifecycle.Aggregate(m, nil, now)

	r := memberRouter(userID.Hex(), &stubMembershipService{status: &status})

	req, _ := http.NewRequest(http.MethodGet, "/member/status", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Contains(t, body, "membership")
	assert.Contains(t, body, "expiration")
	assert.Contains(t, body, "currentWeek")
	assert.Contains(t, body, "missingChartTypes")
}

func TestGetMyStatus_NoMembership(t *testing.T) {
	userID := primitive.NewObjectID()
	r := memberRouter(userID.Hex(), &stubMembershipService{statusErr: service.ErrNoCurrentMembership})

	req, _ := http.NewRequest(http.MethodGet, "/member/status", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCanMessageTrainer_Endpoint(t *testing.T) {
	userID := primitive.NewObjectID()
	r := memberRouter(userID.Hex(), &stubMembershipService{canMessage: true})

	req, _ := http.NewRequest(http.MethodGet, "/member/trainer/can-message", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body["canMessage"])
}

func TestRoleMiddleware_ForbidsWrongRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin-only",
		injectUser(primitive.NewObjectID().Hex(), domain.RoleMember),
		RoleMiddleware(domain.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	req, _ := http.NewRequest(http.MethodGet, "/admin-only", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}
