package service

import (
	"context"
	"errors"

	"fitclub/membership-app/internal/domain"
	"fitclub/membership-app/internal/lifecycle"
	"fitclub/membership-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMembershipNotFound  = errors.New("membership not found")
	ErrNoCurrentMembership = errors.New("user has no current membership")
	ErrNotPending          = errors.New("membership is not awaiting approval")
	ErrNotRenewable        = errors.New("membership cannot be renewed in its current state")
	ErrInvalidDuration     = errors.New("duration must be at least one month")
)

// PurchaseInput carries everything needed to record a membership
// purchase awaiting admin approval.
type PurchaseInput struct {
	UserID         primitive.ObjectID
	PlanName       string
	DurationMonths int
	Price          float64
	// TrainerID, when set, attaches a personal-trainer add-on.
	TrainerID     *primitive.ObjectID
	TrainerMonths int
	TrainerPrice  float64
}

type MembershipService interface {
	// Purchase records a pending membership for later approval.
	Purchase(ctx context.Context, input PurchaseInput) (*domain.Membership, error)
	// Approve activates a pending membership: the start date is the
	// approval time, the end date follows from the purchased duration,
	// and the trainer period (if any) is sized here, at write time.
	Approve(ctx context.Context, membershipID primitive.ObjectID) (*domain.Membership, error)
	Reject(ctx context.Context, membershipID primitive.ObjectID) error
	// Renew resets the existing row to active with fresh dates rather
	// than inserting a new membership.
	Renew(ctx context.Context, membershipID primitive.ObjectID, months int) (*domain.Membership, error)
	// MarkLapsed moves active memberships whose end date has passed
	// into grace_period and stamps their grace window. It also
	// backfills the trainer grace window when a trainer period has
	// lapsed without one. Returns the number of updated records.
	MarkLapsed(ctx context.Context) (int, error)

	// StatusForUser computes the aggregated lifecycle view for the
	// user's current membership with a single clock reading.
	StatusForUser(ctx context.Context, userID primitive.ObjectID) (*lifecycle.Status, error)
	// StatusesByFilter computes lifecycle views for every membership
	// in the given statuses, all against one clock reading.
	StatusesByFilter(ctx context.Context, statuses []domain.MembershipStatus) ([]lifecycle.Status, error)
	CanMessageTrainer(ctx context.Context, userID primitive.ObjectID) (bool, error)
}

// membershipService implements the MembershipService interface.
type membershipService struct {
	membershipRepo repository.MembershipRepository
	chartRepo      repository.WeeklyChartRepository
	addonRepo      repository.TrainerAddonRepository
	userRepo       repository.UserRepository
	clock          lifecycle.Clock
	graceDays      int
}

// NewMembershipService creates a new instance of membershipService.
func NewMembershipService(
	membershipRepo repository.MembershipRepository,
	chartRepo repository.WeeklyChartRepository,
	addonRepo repository.TrainerAddonRepository,
	userRepo repository.UserRepository,
	clock lifecycle.Clock,
	graceDays int,
) MembershipService {
	if graceDays <= 0 {
		graceDays = 7
	}
	return &membershipService{
		membershipRepo: membershipRepo,
		chartRepo:      chartRepo,
		addonRepo:      addonRepo,
		userRepo:       userRepo,
		clock:          clock,
		graceDays:      graceDays,
	}
}

// === Purchase & Approval ===

func (s *membershipService) Purchase(ctx context.Context, input PurchaseInput) (*domain.Membership, error) {
	if input.UserID == primitive.NilObjectID || input.PlanName == "" {
		return nil, errors.New("user ID and plan name are required")
	}
	if input.DurationMonths < 1 {
		return nil, ErrInvalidDuration
	}

	membership := &domain.Membership{
		UserID:         input.UserID,
		PlanName:       input.PlanName,
		Status:         domain.StatusPending,
		DurationMonths: input.DurationMonths,
		Price:          input.Price,
	}
	if input.TrainerID != nil {
		membership.TrainerAssigned = true
		membership.TrainerID = input.TrainerID
		membership.HasTrainerAddon = true
	}

	membershipID, err := s.membershipRepo.Create(ctx, membership)
	if err != nil {
		return nil, err
	}
	membership.ID = membershipID

	if input.TrainerID != nil {
		months := input.TrainerMonths
		if months < 1 {
			months = input.DurationMonths
		}
		addon := &domain.TrainerAddon{
			MembershipID: membershipID,
			TrainerID:    *input.TrainerID,
			Months:       months,
			Price:        input.TrainerPrice,
		}
		if _, err := s.addonRepo.Create(ctx, addon); err != nil {
			return nil, err
		}
	}
	return membership, nil
}

func (s *membershipService) Approve(ctx context.Context, membershipID primitive.ObjectID) (*domain.Membership, error) {
	membership, err := s.getMembership(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if membership.Status != domain.StatusPending {
		return nil, ErrNotPending
	}

	now := s.clock.Now()
	start := now
	end := start.AddDate(0, membership.DurationMonths, 0)

	membership.Status = domain.StatusActive
	membership.StartDate = &start
	membership.EndDate = &end
	membership.GracePeriodEnd = nil

	if membership.TrainerAssigned {
		months := membership.DurationMonths
		if addon, err := s.addonRepo.GetByMembershipID(ctx, membershipID); err == nil {
			months = addon.Months
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		// Never persist a zero-length trainer period; legacy data had
		// trainer ends equal to the start date and every reader paid
		// for it. The repair belongs here, on the write path.
		if months < 1 {
			months = 1
		}
		trainerEnd := start.AddDate(0, months, 0)
		membership.TrainerPeriodEnd = &trainerEnd
		membership.TrainerGracePeriodEnd = nil

		if membership.TrainerID != nil {
			if err := s.userRepo.AddMemberIDToTrainer(ctx, *membership.TrainerID, membership.UserID); err != nil &&
				!errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
		}
	}

	if err := s.membershipRepo.Update(ctx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

func (s *membershipService) Reject(ctx context.Context, membershipID primitive.ObjectID) error {
	membership, err := s.getMembership(ctx, membershipID)
	if err != nil {
		return err
	}
	if membership.Status != domain.StatusPending {
		return ErrNotPending
	}
	membership.Status = domain.StatusRejected
	return s.membershipRepo.Update(ctx, membership)
}

func (s *membershipService) Renew(ctx context.Context, membershipID primitive.ObjectID, months int) (*domain.Membership, error) {
	if months < 1 {
		return nil, ErrInvalidDuration
	}
	membership, err := s.getMembership(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	switch membership.Status {
	case domain.StatusActive, domain.StatusGracePeriod, domain.StatusExpired:
	default:
		return nil, ErrNotRenewable
	}

	now := s.clock.Now()
	start := now
	end := start.AddDate(0, months, 0)

	membership.Status = domain.StatusActive
	membership.StartDate = &start
	membership.EndDate = &end
	membership.GracePeriodEnd = nil
	membership.DurationMonths = months

	if err := s.membershipRepo.Update(ctx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

// === Lapse sweep ===

func (s *membershipService) MarkLapsed(ctx context.Context) (int, error) {
	memberships, err := s.membershipRepo.ListByStatuses(ctx, []domain.MembershipStatus{
		domain.StatusActive,
		domain.StatusGracePeriod,
	})
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	updated := 0
	for i := range memberships {
		m := &memberships[i]
		changed := false

		if m.Status == domain.StatusActive && lifecycle.EvaluateExpiration(m.EndDate, now).Expired {
			graceEnd := m.EndDate.AddDate(0, 0, s.graceDays)
			m.Status = domain.StatusGracePeriod
			m.GracePeriodEnd = &graceEnd
			changed = true
		}

		if m.TrainerAssigned && m.TrainerGracePeriodEnd == nil &&
			lifecycle.EvaluateTrainerPeriod(m, now).Expired {
			trainerGraceEnd := m.TrainerPeriodEnd.AddDate(0, 0, s.graceDays)
			m.TrainerGracePeriodEnd = &trainerGraceEnd
			changed = true
		}

		if changed {
			if err := s.membershipRepo.Update(ctx, m); err != nil {
				return updated, err
			}
			updated++
		}
	}
	return updated, nil
}

// === Derived status views ===

func (s *membershipService) StatusForUser(ctx context.Context, userID primitive.ObjectID) (*lifecycle.Status, error) {
	membership, err := s.membershipRepo.GetCurrentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoCurrentMembership
		}
		return nil, err
	}
	charts, err := s.chartRepo.GetByMembershipID(ctx, membership.ID)
	if err != nil {
		return nil, err
	}

	// One clock read for the whole pass.
	now := s.clock.Now()
	status := lifecycle.Aggregate(membership, charts, now)
	return &status, nil
}

func (s *membershipService) StatusesByFilter(ctx context.Context, statuses []domain.MembershipStatus) ([]lifecycle.Status, error) {
	memberships, err := s.membershipRepo.ListByStatuses(ctx, statuses)
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

	// One clock read across the whole list, so no two memberships are
	// judged against different nows within the same response.
	now := s.clock.Now()
	results := make([]lifecycle.Status, 0, len(memberships))
	for i := range memberships {
		m := &memberships[i]
		results = append(results, lifecycle.Aggregate(m, chartsByMembership[m.ID], now))
	}
	return results, nil
}

func (s *membershipService) CanMessageTrainer(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	membership, err := s.membershipRepo.GetCurrentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return lifecycle.CanMessageTrainer(membership, s.clock.Now()), nil
}

func (s *membershipService) getMembership(ctx context.Context, id primitive.ObjectID) (*domain.Membership, error) {
	membership, err := s.membershipRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return membership, nil
}
