package storage

import (
	"context"
	"time"

	"github.com/balasutharsan1247/student-fitness-app/internal"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *internal.User) error
	GetUser(ctx context.Context, id string) (*internal.User, error)
	GetUserByEmail(ctx context.Context, email string) (*internal.User, error)
	ListUsers(ctx context.Context) ([]internal.User, error)
	// UpdateUser applies fn to the stored user as one atomic
	// read-modify-write. If fn returns an error nothing is written.
	UpdateUser(ctx context.Context, id string, fn func(*internal.User) error) (*internal.User, error)
}

type GoalFilter struct {
	Statuses []internal.GoalStatus
	Category internal.Category
}

func (f GoalFilter) Matches(g *internal.Goal) bool {
	if f.Category != "" && g.Category != f.Category {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if g.Status == s {
			return true
		}
	}
	return false
}

type GoalRepository interface {
	SaveGoal(ctx context.Context, goal *internal.Goal) error
	// CompleteGoal stores a goal that has just become Completed. It fails
	// with ErrConflict if the stored copy is already Completed or gone.
	CompleteGoal(ctx context.Context, goal *internal.Goal) error
	GetGoal(ctx context.Context, id string) (*internal.Goal, error)
	// ListGoals returns the user's goals, newest first.
	ListGoals(ctx context.Context, userID string, filter GoalFilter) ([]internal.Goal, error)
	DeleteGoal(ctx context.Context, id string) error
}

type FitnessLogRepository interface {
	SaveFitnessLog(ctx context.Context, log *internal.FitnessLog) error
	GetFitnessLog(ctx context.Context, id string) (*internal.FitnessLog, error)
	GetFitnessLogByDate(ctx context.Context, userID string, date time.Time) (*internal.FitnessLog, error)
	// ListFitnessLogsInRange returns logs dated within [from, to], oldest first.
	ListFitnessLogsInRange(ctx context.Context, userID string, from, to time.Time) ([]internal.FitnessLog, error)
	// ListFitnessLogsPage returns one page of logs, newest first, with the total count.
	ListFitnessLogsPage(ctx context.Context, userID string, offset, limit int) ([]internal.FitnessLog, int, error)
	DeleteFitnessLog(ctx context.Context, id string) error
}

// Repositories bundles one backend's repositories with its lifecycle.
type Repositories struct {
	Users UserRepository
	Goals GoalRepository
	Logs  FitnessLogRepository

	ping    func(ctx context.Context) error
	migrate func(ctx context.Context) error
	close   func() error
}

// Migrate brings the backend's schema up to date. Backends without a
// schema treat it as a no-op.
func (r *Repositories) Migrate(ctx context.Context) error {
	if r.migrate == nil {
		return nil
	}
	return r.migrate(ctx)
}

func (r *Repositories) Ping(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}
