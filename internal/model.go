package internal

import "time"

type Category string

const (
	CategoryWeightLoss       Category = "Weight Loss"
	CategoryWeightGain       Category = "Weight Gain"
	CategoryMuscleBuilding   Category = "Muscle Building"
	CategoryCardio           Category = "Cardio"
	CategoryFlexibility      Category = "Flexibility"
	CategorySleep            Category = "Sleep"
	CategoryNutrition        Category = "Nutrition"
	CategoryHydration        Category = "Hydration"
	CategorySteps            Category = "Steps"
	CategoryGeneralFitness   Category = "General Fitness"
	CategoryStressManagement Category = "Stress Management"
	CategoryOther            Category = "Other"
)

// Categories lists every goal category in display order.
var Categories = []Category{
	CategoryWeightLoss, CategoryWeightGain, CategoryMuscleBuilding, CategoryCardio,
	CategoryFlexibility, CategorySleep, CategoryNutrition, CategoryHydration,
	CategorySteps, CategoryGeneralFitness, CategoryStressManagement, CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type GoalStatus string

const (
	StatusNotStarted GoalStatus = "Not Started"
	StatusInProgress GoalStatus = "In Progress"
	StatusCompleted  GoalStatus = "Completed"
	StatusAbandoned  GoalStatus = "Abandoned"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

// Terminal reports whether no further lifecycle transition is possible.
func (s GoalStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

type Mood string

const (
	MoodVeryBad   Mood = "Very Bad"
	MoodBad       Mood = "Bad"
	MoodNeutral   Mood = "Neutral"
	MoodGood      Mood = "Good"
	MoodExcellent Mood = "Excellent"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodVeryBad, MoodBad, MoodNeutral, MoodGood, MoodExcellent:
		return true
	}
	return false
}

type ReminderFrequency string

const (
	ReminderDaily    ReminderFrequency = "Daily"
	ReminderWeekly   ReminderFrequency = "Weekly"
	ReminderBiWeekly ReminderFrequency = "Bi-weekly"
	ReminderMonthly  ReminderFrequency = "Monthly"
)

type User struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash,omitempty"`
	StudentID    string     `json:"student_id,omitempty"`
	University   string     `json:"university,omitempty"`
	Department   string     `json:"department,omitempty"`
	GraduateType string     `json:"graduate_type,omitempty"`
	Year         string     `json:"year,omitempty"`
	Age          *int       `json:"age,omitempty"`
	Gender       string     `json:"gender,omitempty"`
	Height       *float64   `json:"height,omitempty"`
	Weight       *float64   `json:"weight,omitempty"`
	TargetWeight *float64   `json:"target_weight,omitempty"`
	TargetSteps  int        `json:"target_steps"`
	TargetSleep  float64    `json:"target_sleep"`
	TargetCal    int        `json:"target_calories"`
	Points       int        `json:"points"`
	Level        int        `json:"level"`
	Badges       []string   `json:"badges"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) Clone() *User {
	cp := *u
	cp.Badges = append([]string{}, u.Badges...)
	return &cp
}

// Public returns a copy safe to hand to API clients.
func (u *User) Public() *User {
	cp := u.Clone()
	cp.PasswordHash = ""
	return cp
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) HasBadge(badge string) bool {
	for _, b := range u.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// AddBadge appends badge unless already held and reports whether it was added.
func (u *User) AddBadge(badge string) bool {
	if badge == "" || u.HasBadge(badge) {
		return false
	}
	u.Badges = append(u.Badges, badge)
	return true
}

func (u *User) RemoveBadge(badge string) {
	for i, b := range u.Badges {
		if b == badge {
			u.Badges = append(u.Badges[:i:i], u.Badges[i+1:]...)
			return
		}
	}
}

type Workout struct {
	Type           string  `json:"type" validate:"omitempty,oneof=Running Walking Cycling Swimming Gym Yoga Sports Dancing Other"`
	Duration       float64 `json:"duration" validate:"required,gt=0"`
	Intensity      string  `json:"intensity,omitempty" validate:"omitempty,oneof=Low Moderate High"`
	CaloriesBurned float64 `json:"calories_burned,omitempty" validate:"gte=0"`
	Notes          string  `json:"notes,omitempty" validate:"max=500"`
}

type Sleep struct {
	Hours   *float64 `json:"hours,omitempty" validate:"omitempty,gte=0,lte=24"`
	Quality string   `json:"quality,omitempty" validate:"omitempty,oneof=Poor Fair Good Excellent"`
}

type Meal struct {
	MealType     string   `json:"meal_type,omitempty" validate:"omitempty,oneof=Breakfast Lunch Dinner Snack"`
	Description  string   `json:"description,omitempty" validate:"max=200"`
	Calories     *float64 `json:"calories,omitempty" validate:"omitempty,gte=0"`
	Location     string   `json:"location,omitempty"`
	HealthRating *int     `json:"health_rating,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// FitnessLog is one user's metrics for one calendar day. Nil metrics were
// not logged and take no part in the lifestyle score.
type FitnessLog struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"user_id"`
	Date                  time.Time `json:"date"`
	Steps                 *int      `json:"steps,omitempty"`
	Distance              *float64  `json:"distance,omitempty"`
	ActiveMinutes         *int      `json:"active_minutes,omitempty"`
	CaloriesBurned        *float64  `json:"calories_burned,omitempty"`
	Workouts              []Workout `json:"workouts,omitempty"`
	Sleep                 *Sleep    `json:"sleep,omitempty"`
	Meals                 []Meal    `json:"meals,omitempty"`
	TotalCaloriesConsumed *float64  `json:"total_calories_consumed,omitempty"`
	WaterIntake           *float64  `json:"water_intake,omitempty"`
	ScreenTime            *float64  `json:"screen_time,omitempty"`
	StressLevel           *int      `json:"stress_level,omitempty"`
	StressFactors         []string  `json:"stress_factors,omitempty"`
	Mood                  Mood      `json:"mood,omitempty"`
	Weight                *float64  `json:"weight,omitempty"`
	Notes                 string    `json:"notes,omitempty"`
	LifestyleScore        int       `json:"lifestyle_score"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (l *FitnessLog) Clone() *FitnessLog {
	cp := *l
	cp.Workouts = append([]Workout(nil), l.Workouts...)
	cp.Meals = append([]Meal(nil), l.Meals...)
	cp.StressFactors = append([]string(nil), l.StressFactors...)
	if l.Sleep != nil {
		s := *l.Sleep
		cp.Sleep = &s
	}
	return &cp
}

type Milestone struct {
	Value    float64    `json:"value"`
	Date     *time.Time `json:"date,omitempty"`
	Achieved bool       `json:"achieved"`
}

type Goal struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	Title             string            `json:"title"`
	Description       string            `json:"description,omitempty"`
	Category          Category          `json:"category"`
	TargetValue       float64           `json:"target_value"`
	CurrentValue      float64           `json:"current_value"`
	StartingValue     *float64          `json:"starting_value,omitempty"`
	Unit              string            `json:"unit"`
	StartDate         time.Time         `json:"start_date"`
	TargetDate        time.Time         `json:"target_date"`
	CompletedDate     *time.Time        `json:"completed_date,omitempty"`
	Status            GoalStatus        `json:"status"`
	Progress          int               `json:"progress"`
	Points            int               `json:"points"`
	Badge             string            `json:"badge,omitempty"`
	MotivationQuote   string            `json:"motivation_quote,omitempty"`
	Rewards           []string          `json:"rewards"`
	Milestones        []Milestone       `json:"milestones"`
	ReminderEnabled   bool              `json:"reminder_enabled"`
	ReminderFrequency ReminderFrequency `json:"reminder_frequency,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Baseline is the value progress is measured from. Goals stored before the
// starting value was captured fall back to the current value.
func (g *Goal) Baseline() float64 {
	if g.StartingValue != nil {
		return *g.StartingValue
	}
	return g.CurrentValue
}

// IsReduction reports whether the goal counts down towards its target.
func (g *Goal) IsReduction() bool {
	return g.TargetValue < g.Baseline()
}

func (g *Goal) IsOverdue(now time.Time) bool {
	return !g.Status.Terminal() && now.After(g.TargetDate)
}

// DaysRemaining is the whole number of days until the target date, rounded up.
func (g *Goal) DaysRemaining(now time.Time) int {
	return CeilDays(g.TargetDate.Sub(now))
}

func (g *Goal) AchievedMilestones() int {
	n := 0
	for _, m := range g.Milestones {
		if m.Achieved {
			n++
		}
	}
	return n
}

func (g *Goal) Clone() *Goal {
	cp := *g
	cp.Rewards = append([]string(nil), g.Rewards...)
	cp.Milestones = append([]Milestone(nil), g.Milestones...)
	if g.StartingValue != nil {
		v := *g.StartingValue
		cp.StartingValue = &v
	}
	if g.CompletedDate != nil {
		t := *g.CompletedDate
		cp.CompletedDate = &t
	}
	return &cp
}
