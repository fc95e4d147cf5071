package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/balasutharsan1247/student-fitness-app/internal"
	"github.com/balasutharsan1247/student-fitness-app/internal/metrics"
	"github.com/balasutharsan1247/student-fitness-app/internal/score"
	"github.com/balasutharsan1247/student-fitness-app/internal/storage"
)

type MilestoneRequest struct {
	Value float64 `json:"value"`
}

type CreateGoalRequest struct {
	Title             string                     `json:"title" validate:"required,max=100"`
	Description       string                     `json:"description,omitempty" validate:"max=500"`
	Category          internal.Category          `json:"category" validate:"required,category"`
	TargetValue       *float64                   `json:"target_value" validate:"required"`
	CurrentValue      float64                    `json:"current_value"`
	Unit              string                     `json:"unit" validate:"required,max=30"`
	StartDate         string                     `json:"start_date,omitempty"`
	TargetDate        string                     `json:"target_date" validate:"required"`
	MotivationQuote   string                     `json:"motivation_quote,omitempty" validate:"max=200"`
	Rewards           []string                   `json:"rewards,omitempty" validate:"omitempty,dive,required"`
	Milestones        []MilestoneRequest         `json:"milestones,omitempty"`
	ReminderEnabled   bool                       `json:"reminder_enabled"`
	ReminderFrequency internal.ReminderFrequency `json:"reminder_frequency,omitempty" validate:"omitempty,oneof=Daily Weekly Bi-weekly Monthly"`
}

// UpdateGoalRequest edits a goal in place. Nil fields are left alone; the
// starting value is never editable.
type UpdateGoalRequest struct {
	Title             *string                     `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Description       *string                     `json:"description,omitempty" validate:"omitempty,max=500"`
	Category          *internal.Category          `json:"category,omitempty" validate:"omitempty,category"`
	TargetValue       *float64                    `json:"target_value,omitempty"`
	CurrentValue      *float64                    `json:"current_value,omitempty"`
	Unit              *string                     `json:"unit,omitempty" validate:"omitempty,min=1,max=30"`
	TargetDate        *string                     `json:"target_date,omitempty"`
	MotivationQuote   *string                     `json:"motivation_quote,omitempty" validate:"omitempty,max=200"`
	Rewards           []string                    `json:"rewards,omitempty" validate:"omitempty,dive,required"`
	Milestones        []MilestoneRequest          `json:"milestones,omitempty"`
	ReminderEnabled   *bool                       `json:"reminder_enabled,omitempty"`
	ReminderFrequency *internal.ReminderFrequency `json:"reminder_frequency,omitempty" validate:"omitempty,oneof=Daily Weekly Bi-weekly Monthly"`
	Status            *internal.GoalStatus        `json:"status,omitempty" validate:"omitempty,goalstatus"`
}

func (r *UpdateGoalRequest) hasEdits() bool {
	return r.Title != nil || r.Description != nil || r.Category != nil ||
		r.TargetValue != nil || r.CurrentValue != nil || r.Unit != nil ||
		r.TargetDate != nil || r.MotivationQuote != nil || r.Rewards != nil ||
		r.Milestones != nil || r.ReminderEnabled != nil || r.ReminderFrequency != nil
}

// ProgressRequest sets or increments the current value. Exactly one of the
// two fields must be present.
type ProgressRequest struct {
	CurrentValue *float64 `json:"current_value,omitempty"`
	AddToValue   *float64 `json:"add_to_value,omitempty"`
}

type LevelChange struct {
	PreviousLevel int `json:"previous_level"`
	NewLevel      int `json:"new_level"`
}

// PointsResult describes how one lifecycle event moved the user's points.
type PointsResult struct {
	PointsAwarded  int              `json:"points_awarded,omitempty"`
	PointsDeducted int              `json:"points_deducted,omitempty"`
	PreviousPoints int              `json:"previous_points"`
	TotalPoints    int              `json:"total_points"`
	LevelUp        *LevelChange     `json:"level_up"`
	BadgeAwarded   string           `json:"badge_awarded,omitempty"`
	Breakdown      *score.Breakdown `json:"breakdown,omitempty"`
}

type GoalResult struct {
	Goal   *internal.Goal `json:"goal"`
	Points *PointsResult  `json:"points,omitempty"`
}

// GoalService coordinates goal lifecycle changes with the owning user's
// points, level and badges.
type GoalService struct {
	goals  storage.GoalRepository
	users  storage.UserRepository
	logger internal.Logger
	locks  *keyedMutex
	now    func() time.Time
}

func NewGoalService(goals storage.GoalRepository, users storage.UserRepository, logger internal.Logger) *GoalService {
	return &GoalService{
		goals:  goals,
		users:  users,
		logger: logger,
		locks:  newKeyedMutex(),
		now:    time.Now,
	}
}

func (s *GoalService) Create(ctx context.Context, userID string, req *CreateGoalRequest) (*GoalResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	now := s.now()

	start := now
	if req.StartDate != "" {
		d, err := parseRequestDate("start_date", req.StartDate)
		if err != nil {
			return nil, err
		}
		start = d
	}
	target, err := parseRequestDate("target_date", req.TargetDate)
	if err != nil {
		return nil, err
	}
	if !target.After(now) {
		return nil, fmt.Errorf("%w: target date must be in the future", internal.ErrInvalidInput)
	}
	if !target.After(start) {
		return nil, fmt.Errorf("%w: target date must be after start date", internal.ErrInvalidInput)
	}

	starting := req.CurrentValue
	g := &internal.Goal{
		ID:                uuid.NewString(),
		UserID:            userID,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		TargetValue:       *req.TargetValue,
		CurrentValue:      req.CurrentValue,
		StartingValue:     &starting,
		Unit:              req.Unit,
		StartDate:         start,
		TargetDate:        target,
		Status:            internal.StatusNotStarted,
		MotivationQuote:   req.MotivationQuote,
		Rewards:           append([]string{}, req.Rewards...),
		Milestones:        toMilestones(req.Milestones),
		ReminderEnabled:   req.ReminderEnabled,
		ReminderFrequency: req.ReminderFrequency,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if g.ReminderFrequency == "" {
		g.ReminderFrequency = internal.ReminderWeekly
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	points, err := s.recomputeAndSave(ctx, g, now)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("goal %s created for user %s (%s)", g.ID, userID, g.Category)
	return &GoalResult{Goal: g, Points: points}, nil
}

func (s *GoalService) Get(ctx context.Context, userID, goalID string) (*internal.Goal, error) {
	return s.load(ctx, userID, goalID)
}

func (s *GoalService) List(ctx context.Context, userID string, status internal.GoalStatus, category internal.Category) ([]internal.Goal, error) {
	filter := storage.GoalFilter{Category: category}
	if status != "" {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", internal.ErrInvalidInput, status)
		}
		filter.Statuses = []internal.GoalStatus{status}
	}
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", internal.ErrInvalidInput, category)
	}
	return s.goals.ListGoals(ctx, userID, filter)
}

// ListActive returns open goals, nearest deadline first.
func (s *GoalService) ListActive(ctx context.Context, userID string) ([]internal.Goal, error) {
	goals, err := s.goals.ListGoals(ctx, userID, storage.GoalFilter{
		Statuses: []internal.GoalStatus{internal.StatusNotStarted, internal.StatusInProgress},
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(goals, func(i, j int) bool {
		return goals[i].TargetDate.Before(goals[j].TargetDate)
	})
	return goals, nil
}

// ListCompleted returns completed goals, most recently completed first.
func (s *GoalService) ListCompleted(ctx context.Context, userID string) ([]internal.Goal, error) {
	goals, err := s.goals.ListGoals(ctx, userID, storage.GoalFilter{
		Statuses: []internal.GoalStatus{internal.StatusCompleted},
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(goals, func(i, j int) bool {
		return completedAt(&goals[i]).After(completedAt(&goals[j]))
	})
	return goals, nil
}

func (s *GoalService) Stats(ctx context.Context, userID string) (*GoalStats, error) {
	goals, err := s.goals.ListGoals(ctx, userID, storage.GoalFilter{})
	if err != nil {
		return nil, err
	}
	return BuildGoalStats(goals, s.now()), nil
}

func (s *GoalService) Update(ctx context.Context, userID, goalID string, req *UpdateGoalRequest) (*GoalResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Status != nil {
		if *req.Status != internal.StatusAbandoned {
			return nil, fmt.Errorf("%w: status is derived from progress; only %q can be set", internal.ErrInvalidInput, internal.StatusAbandoned)
		}
		if req.hasEdits() {
			return nil, fmt.Errorf("%w: abandoning a goal cannot be combined with other edits", internal.ErrInvalidInput)
		}
		g, err := s.Abandon(ctx, userID, goalID)
		if err != nil {
			return nil, err
		}
		return &GoalResult{Goal: g}, nil
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	g, err := s.load(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if req.TargetDate != nil {
		target, err := parseRequestDate("target_date", *req.TargetDate)
		if err != nil {
			return nil, err
		}
		if !target.After(g.StartDate) {
			return nil, fmt.Errorf("%w: target date must be after start date", internal.ErrInvalidInput)
		}
		g.TargetDate = target
	}
	if req.Title != nil {
		g.Title = *req.Title
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.Category != nil {
		g.Category = *req.Category
	}
	if req.TargetValue != nil {
		g.TargetValue = *req.TargetValue
	}
	if req.CurrentValue != nil {
		g.CurrentValue = *req.CurrentValue
	}
	if req.Unit != nil {
		g.Unit = *req.Unit
	}
	if req.MotivationQuote != nil {
		g.MotivationQuote = *req.MotivationQuote
	}
	if req.Rewards != nil {
		g.Rewards = append([]string{}, req.Rewards...)
	}
	if req.Milestones != nil {
		g.Milestones = toMilestones(req.Milestones)
	}
	if req.ReminderEnabled != nil {
		g.ReminderEnabled = *req.ReminderEnabled
	}
	if req.ReminderFrequency != nil {
		g.ReminderFrequency = *req.ReminderFrequency
	}

	points, err := s.recomputeAndSave(ctx, g, s.now())
	if err != nil {
		return nil, err
	}
	return &GoalResult{Goal: g, Points: points}, nil
}

func (s *GoalService) UpdateProgress(ctx context.Context, userID, goalID string, req *ProgressRequest) (*GoalResult, error) {
	switch {
	case req.CurrentValue == nil && req.AddToValue == nil:
		return nil, fmt.Errorf("%w: provide current_value or add_to_value", internal.ErrInvalidInput)
	case req.CurrentValue != nil && req.AddToValue != nil:
		return nil, fmt.Errorf("%w: current_value and add_to_value are mutually exclusive", internal.ErrInvalidInput)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	g, err := s.load(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if g.Status == internal.StatusAbandoned {
		return nil, fmt.Errorf("%w: goal is abandoned", internal.ErrInvalidInput)
	}
	if req.AddToValue != nil {
		g.CurrentValue += *req.AddToValue
	} else {
		g.CurrentValue = *req.CurrentValue
	}

	points, err := s.recomputeAndSave(ctx, g, s.now())
	if err != nil {
		return nil, err
	}
	return &GoalResult{Goal: g, Points: points}, nil
}

// Complete marks the goal reached regardless of its values and pays out.
func (s *GoalService) Complete(ctx context.Context, userID, goalID string) (*GoalResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	g, err := s.load(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	switch g.Status {
	case internal.StatusCompleted:
		return nil, fmt.Errorf("%w: goal is already completed", internal.ErrInvalidInput)
	case internal.StatusAbandoned:
		return nil, fmt.Errorf("%w: abandoned goals cannot be completed", internal.ErrInvalidInput)
	}

	now := s.now()
	score.ForceComplete(g, now)
	score.MarkMilestones(g, now)
	g.UpdatedAt = now

	points, err := s.award(ctx, g, "manual")
	if err != nil {
		return nil, err
	}
	return &GoalResult{Goal: g, Points: points}, nil
}

func (s *GoalService) Abandon(ctx context.Context, userID, goalID string) (*internal.Goal, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	g, err := s.load(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if g.Status.Terminal() {
		return nil, fmt.Errorf("%w: goal is already %s", internal.ErrInvalidInput, g.Status)
	}
	g.Status = internal.StatusAbandoned
	g.UpdatedAt = s.now()
	if err := s.goals.SaveGoal(ctx, g); err != nil {
		return nil, err
	}
	s.logger.Infof("goal %s abandoned by user %s", g.ID, userID)
	return g, nil
}

// Delete removes the goal. A completed goal takes its points back with it;
// badges stay with the user.
func (s *GoalService) Delete(ctx context.Context, userID, goalID string) (*PointsResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	g, err := s.load(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if g.Status != internal.StatusCompleted || g.Points == 0 {
		if err := s.goals.DeleteGoal(ctx, g.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	res, err := s.adjustPoints(ctx, userID, -g.Points, "")
	if err != nil {
		return nil, err
	}
	if err := s.goals.DeleteGoal(ctx, g.ID); err != nil {
		if _, cerr := s.adjustPoints(ctx, userID, res.PreviousPoints-res.TotalPoints, ""); cerr != nil {
			s.logger.Errorf("restoring %d points to user %s after failed delete of goal %s: %v", g.Points, userID, g.ID, cerr)
		}
		return nil, err
	}
	metrics.PointsReversed(res.PointsDeducted)
	s.logger.Infof("goal %s deleted, %d points reversed for user %s", g.ID, res.PointsDeducted, userID)
	return res, nil
}

// recomputeAndSave refreshes milestones, progress and status, pays out if
// this change completed the goal, and stores it.
func (s *GoalService) recomputeAndSave(ctx context.Context, g *internal.Goal, now time.Time) (*PointsResult, error) {
	score.MarkMilestones(g, now)
	completed := score.Recompute(g, now)
	g.UpdatedAt = now
	if completed {
		return s.award(ctx, g, "auto")
	}
	if err := s.goals.SaveGoal(ctx, g); err != nil {
		return nil, err
	}
	return nil, nil
}

// award prices a goal that has just become Completed, credits the user and
// stores the goal. If the goal cannot be stored, or another writer completed
// it first, the credit is undone.
func (s *GoalService) award(ctx context.Context, g *internal.Goal, trigger string) (*PointsResult, error) {
	breakdown, err := score.AwardPoints(g)
	if err != nil {
		return nil, err
	}
	g.Points = breakdown.Total
	if g.Badge == "" {
		g.Badge = score.BadgeFor(g)
	}

	res, err := s.adjustPoints(ctx, g.UserID, g.Points, g.Badge)
	if err != nil {
		return nil, err
	}
	res.Breakdown = &breakdown

	if err := s.goals.CompleteGoal(ctx, g); err != nil {
		if cerr := s.revertAward(ctx, g.UserID, res); cerr != nil {
			s.logger.Errorf("reverting %d points for user %s after failed save of goal %s: %v", g.Points, g.UserID, g.ID, cerr)
		}
		return nil, err
	}

	metrics.GoalCompleted(string(g.Category), trigger, g.Points)
	s.logger.Infow("goal completed",
		"goal_id", g.ID,
		"user_id", g.UserID,
		"trigger", trigger,
		"points", g.Points,
		"total_points", res.TotalPoints,
	)
	if res.LevelUp != nil {
		s.logger.Infof("user %s levelled up %d -> %d", g.UserID, res.LevelUp.PreviousLevel, res.LevelUp.NewLevel)
	}
	return res, nil
}

// adjustPoints applies delta to the user's points, floors them at zero,
// reconciles the level and grants badge if it is new.
func (s *GoalService) adjustPoints(ctx context.Context, userID string, delta int, badge string) (*PointsResult, error) {
	res := &PointsResult{}
	_, err := s.users.UpdateUser(ctx, userID, func(u *internal.User) error {
		previousLevel := u.Level
		if previousLevel < 1 {
			previousLevel = score.Level(u.Points)
		}
		res.PreviousPoints = u.Points

		u.Points += delta
		if u.Points < 0 {
			u.Points = 0
		}
		u.Level = score.Level(u.Points)
		if u.AddBadge(badge) {
			res.BadgeAwarded = badge
		}
		u.UpdatedAt = s.now()

		res.TotalPoints = u.Points
		changed := u.Level != previousLevel
		if delta >= 0 {
			changed = u.Level > previousLevel
		}
		if changed {
			res.LevelUp = &LevelChange{PreviousLevel: previousLevel, NewLevel: u.Level}
			metrics.LevelChanged(previousLevel, u.Level)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if delta >= 0 {
		res.PointsAwarded = delta
	} else {
		res.PointsDeducted = res.PreviousPoints - res.TotalPoints
	}
	return res, nil
}

// revertAward undoes an adjustPoints credit, including a badge it granted.
func (s *GoalService) revertAward(ctx context.Context, userID string, res *PointsResult) error {
	_, err := s.users.UpdateUser(ctx, userID, func(u *internal.User) error {
		previousLevel := u.Level
		u.Points -= res.PointsAwarded
		if u.Points < 0 {
			u.Points = 0
		}
		u.Level = score.Level(u.Points)
		if res.BadgeAwarded != "" {
			u.RemoveBadge(res.BadgeAwarded)
		}
		u.UpdatedAt = s.now()
		metrics.LevelChanged(previousLevel, u.Level)
		return nil
	})
	return err
}

func (s *GoalService) load(ctx context.Context, userID, goalID string) (*internal.Goal, error) {
	g, err := s.goals.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, fmt.Errorf("goal %s: %w", goalID, internal.ErrForbidden)
	}
	return g, nil
}

func toMilestones(in []MilestoneRequest) []internal.Milestone {
	out := make([]internal.Milestone, 0, len(in))
	for _, m := range in {
		out = append(out, internal.Milestone{Value: m.Value})
	}
	return out
}

func completedAt(g *internal.Goal) time.Time {
	if g.CompletedDate == nil {
		return time.Time{}
	}
	return *g.CompletedDate
}
