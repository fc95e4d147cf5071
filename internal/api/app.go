package api

import (
	"context"

	"github.com/balasutharsan1247/student-fitness-app/internal"
	"github.com/balasutharsan1247/student-fitness-app/internal/service"
	"github.com/balasutharsan1247/student-fitness-app/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Accounts() *service.AccountService
	Goals() *service.GoalService
	Fitness() *service.FitnessService
	Ping(ctx context.Context) error
}

// Application wires the services over one storage backend.
type Application struct {
	logger   internal.Logger
	repos    *storage.Repositories
	accounts *service.AccountService
	goals    *service.GoalService
	fitness  *service.FitnessService
}

func NewApplication(repos *storage.Repositories, tokens service.TokenIssuer, logger internal.Logger) *Application {
	return &Application{
		logger:   logger,
		repos:    repos,
		accounts: service.NewAccountService(repos.Users, tokens, logger),
		goals:    service.NewGoalService(repos.Goals, repos.Users, logger),
		fitness:  service.NewFitnessService(repos.Logs, repos.Users, logger),
	}
}

func (a *Application) Logger() internal.Logger           { return a.logger }
func (a *Application) Accounts() *service.AccountService { return a.accounts }
func (a *Application) Goals() *service.GoalService       { return a.goals }
func (a *Application) Fitness() *service.FitnessService  { return a.fitness }

func (a *Application) Ping(ctx context.Context) error {
	return a.repos.Ping(ctx)
}
