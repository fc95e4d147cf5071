package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/balasutharsan1247/student-fitness-app/internal"
	"github.com/balasutharsan1247/student-fitness-app/internal/metrics"
	"github.com/balasutharsan1247/student-fitness-app/internal/score"
	"github.com/balasutharsan1247/student-fitness-app/internal/storage"
)

const (
	DefaultPageSize = 30
	MaxPageSize     = 100

	defaultTargetSteps = 10000
)

// FitnessLogRequest carries one day's metrics. Nil fields keep whatever is
// already stored for that day.
type FitnessLogRequest struct {
	Date                  string             `json:"date,omitempty"`
	Steps                 *int               `json:"steps,omitempty" validate:"omitempty,gte=0"`
	Distance              *float64           `json:"distance,omitempty" validate:"omitempty,gte=0"`
	ActiveMinutes         *int               `json:"active_minutes,omitempty" validate:"omitempty,gte=0,lte=1440"`
	CaloriesBurned        *float64           `json:"calories_burned,omitempty" validate:"omitempty,gte=0"`
	Workouts              []internal.Workout `json:"workouts,omitempty" validate:"omitempty,dive"`
	Sleep                 *internal.Sleep    `json:"sleep,omitempty"`
	Meals                 []internal.Meal    `json:"meals,omitempty" validate:"omitempty,dive"`
	TotalCaloriesConsumed *float64           `json:"total_calories_consumed,omitempty" validate:"omitempty,gte=0"`
	WaterIntake           *float64           `json:"water_intake,omitempty" validate:"omitempty,gte=0"`
	ScreenTime            *float64           `json:"screen_time,omitempty" validate:"omitempty,gte=0,lte=24"`
	StressLevel           *int               `json:"stress_level,omitempty" validate:"omitempty,gte=1,lte=10"`
	StressFactors         []string           `json:"stress_factors,omitempty"`
	Mood                  internal.Mood      `json:"mood,omitempty" validate:"omitempty,mood"`
	Weight                *float64           `json:"weight,omitempty" validate:"omitempty,gt=0"`
	Notes                 *string            `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func (r *FitnessLogRequest) applyTo(l *internal.FitnessLog) {
	if r.Steps != nil {
		l.Steps = r.Steps
	}
	if r.Distance != nil {
		l.Distance = r.Distance
	}
	if r.ActiveMinutes != nil {
		l.ActiveMinutes = r.ActiveMinutes
	}
	if r.CaloriesBurned != nil {
		l.CaloriesBurned = r.CaloriesBurned
	}
	if r.Workouts != nil {
		l.Workouts = r.Workouts
	}
	if r.Sleep != nil {
		l.Sleep = r.Sleep
	}
	if r.Meals != nil {
		l.Meals = r.Meals
	}
	if r.TotalCaloriesConsumed != nil {
		l.TotalCaloriesConsumed = r.TotalCaloriesConsumed
	}
	if r.WaterIntake != nil {
		l.WaterIntake = r.WaterIntake
	}
	if r.ScreenTime != nil {
		l.ScreenTime = r.ScreenTime
	}
	if r.StressLevel != nil {
		l.StressLevel = r.StressLevel
	}
	if r.StressFactors != nil {
		l.StressFactors = r.StressFactors
	}
	if r.Mood != "" {
		l.Mood = r.Mood
	}
	if r.Weight != nil {
		l.Weight = r.Weight
	}
	if r.Notes != nil {
		l.Notes = *r.Notes
	}
}

type LogPage struct {
	Logs  []internal.FitnessLog `json:"logs"`
	Count int                   `json:"count"`
	Total int                   `json:"total"`
	Page  int                   `json:"page"`
	Pages int                   `json:"pages"`
}

type FitnessService struct {
	logs   storage.FitnessLogRepository
	users  storage.UserRepository
	logger internal.Logger
	locks  *keyedMutex
	now    func() time.Time
}

func NewFitnessService(logs storage.FitnessLogRepository, users storage.UserRepository, logger internal.Logger) *FitnessService {
	return &FitnessService{
		logs:   logs,
		users:  users,
		logger: logger,
		locks:  newKeyedMutex(),
		now:    time.Now,
	}
}

// Upsert records metrics for the request's day, today by default. The
// second return value is true when a new log was created.
func (s *FitnessService) Upsert(ctx context.Context, userID string, req *FitnessLogRequest) (*internal.FitnessLog, bool, error) {
	if err := validateStruct(req); err != nil {
		return nil, false, err
	}
	date := internal.StartOfDay(s.now())
	if req.Date != "" {
		d, err := parseRequestDate("date", req.Date)
		if err != nil {
			return nil, false, err
		}
		date = d
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	now := s.now()
	log, err := s.logs.GetFitnessLogByDate(ctx, userID, date)
	created := false
	switch {
	case err == nil:
	case errors.Is(err, internal.ErrNotFound):
		log = &internal.FitnessLog{
			ID:        uuid.NewString(),
			UserID:    userID,
			Date:      date,
			CreatedAt: now,
		}
		created = true
	default:
		return nil, false, err
	}

	req.applyTo(log)
	if err := s.save(ctx, log, now); err != nil {
		return nil, false, err
	}
	return log, created, nil
}

func (s *FitnessService) Today(ctx context.Context, userID string) (*internal.FitnessLog, error) {
	return s.logs.GetFitnessLogByDate(ctx, userID, s.now())
}

func (s *FitnessService) ByDate(ctx context.Context, userID, date string) (*internal.FitnessLog, error) {
	d, err := parseRequestDate("date", date)
	if err != nil {
		return nil, err
	}
	return s.logs.GetFitnessLogByDate(ctx, userID, d)
}

// Range returns logs between two calendar days, both inclusive, oldest first.
func (s *FitnessService) Range(ctx context.Context, userID, start, end string) ([]internal.FitnessLog, error) {
	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: start_date and end_date are required", internal.ErrInvalidInput)
	}
	from, err := parseRequestDate("start_date", start)
	if err != nil {
		return nil, err
	}
	to, err := parseRequestDate("end_date", end)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end_date is before start_date", internal.ErrInvalidInput)
	}
	return s.logs.ListFitnessLogsInRange(ctx, userID, from, internal.EndOfDay(to))
}

// Page lists logs newest first. page starts at 1.
func (s *FitnessService) Page(ctx context.Context, userID string, page, limit int) (*LogPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	logs, total, err := s.logs.ListFitnessLogsPage(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &LogPage{
		Logs:  logs,
		Count: len(logs),
		Total: total,
		Page:  page,
		Pages: (total + limit - 1) / limit,
	}, nil
}

func (s *FitnessService) Update(ctx context.Context, userID, logID string, req *FitnessLogRequest) (*internal.FitnessLog, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	log, err := s.load(ctx, userID, logID)
	if err != nil {
		return nil, err
	}
	if req.Date != "" {
		d, err := parseRequestDate("date", req.Date)
		if err != nil {
			return nil, err
		}
		log.Date = d
	}
	req.applyTo(log)
	if err := s.save(ctx, log, s.now()); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *FitnessService) Delete(ctx context.Context, userID, logID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	if _, err := s.load(ctx, userID, logID); err != nil {
		return err
	}
	return s.logs.DeleteFitnessLog(ctx, logID)
}

func (s *FitnessService) Weekly(ctx context.Context, userID string) (*WeeklyStats, error) {
	period := WeekWindow(s.now())
	logs, err := s.logs.ListFitnessLogsInRange(ctx, userID, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	return BuildWeeklyStats(period, logs), nil
}

func (s *FitnessService) Monthly(ctx context.Context, userID string) (*MonthlyStats, error) {
	period := MonthWindow(s.now())
	logs, err := s.logs.ListFitnessLogsInRange(ctx, userID, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	return BuildMonthlyStats(period, logs), nil
}

type DashboardUser struct {
	Name   string   `json:"name"`
	Level  int      `json:"level"`
	Points int      `json:"points"`
	Badges []string `json:"badges"`
}

type TodaySummary struct {
	Steps          *int          `json:"steps"`
	StepsGoal      int           `json:"steps_goal"`
	StepsProgress  int           `json:"steps_progress"`
	CaloriesBurned *float64      `json:"calories_burned"`
	ActiveMinutes  *int          `json:"active_minutes"`
	WaterIntake    *float64      `json:"water_intake"`
	SleepHours     *float64      `json:"sleep_hours"`
	LifestyleScore int           `json:"lifestyle_score"`
	Workouts       int           `json:"workouts"`
	Mood           internal.Mood `json:"mood,omitempty"`
}

type WeekSummary struct {
	AverageScore int        `json:"average_score"`
	ActiveDays   int        `json:"active_days"`
	Trend        []DayScore `json:"trend"`
}

type Dashboard struct {
	User        DashboardUser `json:"user"`
	Today       *TodaySummary `json:"today"`
	WeekSummary WeekSummary   `json:"week_summary"`
}

func (s *FitnessService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	d := &Dashboard{
		User: DashboardUser{
			Name:   user.FullName(),
			Level:  user.Level,
			Points: user.Points,
			Badges: append([]string{}, user.Badges...),
		},
		WeekSummary: WeekSummary{Trend: []DayScore{}},
	}

	today, err := s.logs.GetFitnessLogByDate(ctx, userID, now)
	switch {
	case err == nil:
		d.Today = summarizeToday(today, user.TargetSteps)
	case !errors.Is(err, internal.ErrNotFound):
		return nil, err
	}

	window := WeekWindow(now)
	week, err := s.logs.ListFitnessLogsInRange(ctx, userID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, l := range sortedByDate(week) {
		total += l.LifestyleScore
		d.WeekSummary.Trend = append(d.WeekSummary.Trend, DayScore{Date: l.Date, LifestyleScore: l.LifestyleScore})
	}
	d.WeekSummary.ActiveDays = len(week)
	if len(week) > 0 {
		d.WeekSummary.AverageScore = internal.RoundHalfUp(float64(total) / float64(len(week)))
	}
	return d, nil
}

func summarizeToday(l *internal.FitnessLog, targetSteps int) *TodaySummary {
	if targetSteps <= 0 {
		targetSteps = defaultTargetSteps
	}
	t := &TodaySummary{
		Steps:          l.Steps,
		StepsGoal:      targetSteps,
		CaloriesBurned: l.CaloriesBurned,
		ActiveMinutes:  l.ActiveMinutes,
		WaterIntake:    l.WaterIntake,
		LifestyleScore: l.LifestyleScore,
		Workouts:       len(l.Workouts),
		Mood:           l.Mood,
	}
	if l.Steps != nil {
		t.StepsProgress = internal.RoundHalfUp(float64(*l.Steps) / float64(targetSteps) * 100)
	}
	if l.Sleep != nil {
		t.SleepHours = l.Sleep.Hours
	}
	return t
}

func (s *FitnessService) save(ctx context.Context, log *internal.FitnessLog, now time.Time) error {
	log.UpdatedAt = now
	metrics.LifestyleScore(score.ApplyLifestyleScore(log))
	return s.logs.SaveFitnessLog(ctx, log)
}

func (s *FitnessService) load(ctx context.Context, userID, logID string) (*internal.FitnessLog, error) {
	log, err := s.logs.GetFitnessLog(ctx, logID)
	if err != nil {
		return nil, err
	}
	if log.UserID != userID {
		return nil, fmt.Errorf("fitness log %s: %w", logID, internal.ErrForbidden)
	}
	return log, nil
}
