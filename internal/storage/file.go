package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/balasutharsan1247/student-fitness-app/internal"
)

const (
	usersFileName = "users.json"
	logsFileName  = "fitness_logs.json"
	goalsFileName = "goals.json"
)

type FileStorage struct {
	users     map[string]*internal.User       // id -> User
	emails    map[string]string               // lower-cased email -> user id
	goals     map[string]*internal.Goal       // id -> Goal
	logs      map[string]*internal.FitnessLog // id -> FitnessLog
	dateIndex map[string]map[string]string    // userID -> yyyy-mm-dd -> log id
	mu        sync.RWMutex

	usersFile string
	logsFile  string
	goalsFile string

	saveUsersChan chan struct{}
	saveLogsChan  chan struct{}
	saveGoalsChan chan struct{}
	shutdownChan  chan struct{}
	workers       sync.WaitGroup
	closeOnce     sync.Once
	saveDelay     time.Duration
	logger        internal.Logger
}

func NewFileStorage(dataDir string, logger internal.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create data dir: %w", err)
	}
	s := &FileStorage{
		users:         make(map[string]*internal.User),
		emails:        make(map[string]string),
		goals:         make(map[string]*internal.Goal),
		logs:          make(map[string]*internal.FitnessLog),
		dateIndex:     make(map[string]map[string]string),
		usersFile:     filepath.Join(dataDir, usersFileName),
		logsFile:      filepath.Join(dataDir, logsFileName),
		goalsFile:     filepath.Join(dataDir, goalsFileName),
		saveUsersChan: make(chan struct{}, 1),
		saveLogsChan:  make(chan struct{}, 1),
		saveGoalsChan: make(chan struct{}, 1),
		shutdownChan:  make(chan struct{}),
		saveDelay:     500 * time.Millisecond,
		logger:        logger,
	}

	var users []*internal.User
	if err := loadJSON(s.usersFile, &users); err != nil {
		logger.Errorf("storage: failed to load users: %v", err)
		return nil, err
	}
	var goals []*internal.Goal
	if err := loadJSON(s.goalsFile, &goals); err != nil {
		logger.Errorf("storage: failed to load goals: %v", err)
		return nil, err
	}
	var logs []*internal.FitnessLog
	if err := loadJSON(s.logsFile, &logs); err != nil {
		logger.Errorf("storage: failed to load fitness logs: %v", err)
		return nil, err
	}

	for _, u := range users {
		s.users[u.ID] = u
		s.emails[strings.ToLower(u.Email)] = u.ID
	}
	for _, g := range goals {
		s.goals[g.ID] = g
	}
	for _, l := range logs {
		s.logs[l.ID] = l
		s.indexLog(l)
	}

	s.startWorker(s.saveUsersChan, "users", s.saveUsers)
	s.startWorker(s.saveGoalsChan, "goals", s.saveGoals)
	s.startWorker(s.saveLogsChan, "fitness logs", s.saveLogs)

	return s, nil
}

func loadJSON(path string, into interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(into); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveUsers() error {
	s.mu.RLock()
	users := make([]*internal.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.Clone())
	}
	s.mu.RUnlock()
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return atomicWriteFileJSON(s.usersFile, users)
}

func (s *FileStorage) saveGoals() error {
	s.mu.RLock()
	goals := make([]*internal.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		goals = append(goals, g.Clone())
	}
	s.mu.RUnlock()
	sort.Slice(goals, func(i, j int) bool { return goals[i].CreatedAt.Before(goals[j].CreatedAt) })
	return atomicWriteFileJSON(s.goalsFile, goals)
}

func (s *FileStorage) saveLogs() error {
	s.mu.RLock()
	logs := make([]*internal.FitnessLog, 0, len(s.logs))
	for _, l := range s.logs {
		logs = append(logs, l.Clone())
	}
	s.mu.RUnlock()
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date.Before(logs[j].Date) })
	return atomicWriteFileJSON(s.logsFile, logs)
}

// startWorker batches saves so a burst of writes costs one disk write.
func (s *FileStorage) startWorker(signal <-chan struct{}, name string, save func() error) {
	s.workers.Add(1)
	go func() {
		defer s.workers.Done()
		timer := time.NewTimer(s.saveDelay)
		defer timer.Stop()
		dirty := false

		for {
			select {
			case <-signal:
				dirty = true
				timer.Reset(s.saveDelay)
			case <-timer.C:
				if !dirty {
					continue
				}
				if err := save(); err != nil {
					s.logger.Errorf("storage: error saving %s: %v", name, err)
					continue
				}
				dirty = false
			case <-s.shutdownChan:
				return
			}
		}
	}()
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Close stops the save workers and flushes everything synchronously.
func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		s.workers.Wait()
		err = errors.Join(s.saveUsers(), s.saveGoals(), s.saveLogs())
	})
	return err
}

func dateKey(t time.Time) string {
	return internal.StartOfDay(t).Format(internal.DateLayout)
}

func (s *FileStorage) indexLog(l *internal.FitnessLog) {
	byDate := s.dateIndex[l.UserID]
	if byDate == nil {
		byDate = make(map[string]string)
		s.dateIndex[l.UserID] = byDate
	}
	byDate[dateKey(l.Date)] = l.ID
}

// --- UserRepository ---
func (s *FileStorage) CreateUser(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(user.Email)
	if _, taken := s.emails[email]; taken {
		return fmt.Errorf("storage: email %s already registered: %w", user.Email, internal.ErrConflict)
	}
	s.users[user.ID] = user.Clone()
	s.emails[email] = user.ID
	notify(s.saveUsersChan)
	return nil
}

func (s *FileStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("storage: user %s: %w", id, internal.ErrNotFound)
	}
	return u.Clone(), nil
}

func (s *FileStorage) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("storage: user with email %s: %w", email, internal.ErrNotFound)
	}
	return s.users[id].Clone(), nil
}

func (s *FileStorage) ListUsers(ctx context.Context) ([]internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]internal.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u.Clone())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (s *FileStorage) UpdateUser(ctx context.Context, id string, fn func(*internal.User) error) (*internal.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("storage: user %s: %w", id, internal.ErrNotFound)
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = id
	newEmail := strings.ToLower(next.Email)
	if oldEmail := strings.ToLower(current.Email); newEmail != oldEmail {
		if _, taken := s.emails[newEmail]; taken {
			return nil, fmt.Errorf("storage: email %s already registered: %w", next.Email, internal.ErrConflict)
		}
		delete(s.emails, oldEmail)
		s.emails[newEmail] = id
	}
	s.users[id] = next
	notify(s.saveUsersChan)
	return next.Clone(), nil
}

// --- GoalRepository ---
func (s *FileStorage) SaveGoal(ctx context.Context, goal *internal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[goal.ID] = goal.Clone()
	notify(s.saveGoalsChan)
	return nil
}

func (s *FileStorage) CompleteGoal(ctx context.Context, goal *internal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.goals[goal.ID]
	if !ok || stored.Status == internal.StatusCompleted {
		return fmt.Errorf("storage: goal %s is not open for completion: %w", goal.ID, internal.ErrConflict)
	}
	s.goals[goal.ID] = goal.Clone()
	notify(s.saveGoalsChan)
	return nil
}

func (s *FileStorage) GetGoal(ctx context.Context, id string) (*internal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[id]
	if !ok {
		return nil, fmt.Errorf("storage: goal %s: %w", id, internal.ErrNotFound)
	}
	return g.Clone(), nil
}

func (s *FileStorage) ListGoals(ctx context.Context, userID string, filter GoalFilter) ([]internal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	goals := []internal.Goal{}
	for _, g := range s.goals {
		if g.UserID == userID && filter.Matches(g) {
			goals = append(goals, *g.Clone())
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].CreatedAt.After(goals[j].CreatedAt) })
	return goals, nil
}

func (s *FileStorage) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return fmt.Errorf("storage: goal %s: %w", id, internal.ErrNotFound)
	}
	delete(s.goals, id)
	notify(s.saveGoalsChan)
	return nil
}

// --- FitnessLogRepository ---
func (s *FileStorage) SaveFitnessLog(ctx context.Context, log *internal.FitnessLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := dateKey(log.Date)
	if existingID, ok := s.dateIndex[log.UserID][key]; ok && existingID != log.ID {
		return fmt.Errorf("storage: fitness log for %s already exists: %w", key, internal.ErrConflict)
	}
	if prev, ok := s.logs[log.ID]; ok {
		delete(s.dateIndex[prev.UserID], dateKey(prev.Date))
	}
	stored := log.Clone()
	s.logs[log.ID] = stored
	s.indexLog(stored)
	notify(s.saveLogsChan)
	return nil
}

func (s *FileStorage) GetFitnessLog(ctx context.Context, id string) (*internal.FitnessLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.logs[id]
	if !ok {
		return nil, fmt.Errorf("storage: fitness log %s: %w", id, internal.ErrNotFound)
	}
	return l.Clone(), nil
}

func (s *FileStorage) GetFitnessLogByDate(ctx context.Context, userID string, date time.Time) (*internal.FitnessLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := dateKey(date)
	id, ok := s.dateIndex[userID][key]
	if !ok {
		return nil, fmt.Errorf("storage: fitness log for %s: %w", key, internal.ErrNotFound)
	}
	return s.logs[id].Clone(), nil
}

func (s *FileStorage) userLogs(userID string) []internal.FitnessLog {
	logs := make([]internal.FitnessLog, 0, len(s.dateIndex[userID]))
	for _, id := range s.dateIndex[userID] {
		logs = append(logs, *s.logs[id].Clone())
	}
	return logs
}

func (s *FileStorage) ListFitnessLogsInRange(ctx context.Context, userID string, from, to time.Time) ([]internal.FitnessLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := []internal.FitnessLog{}
	for _, l := range s.userLogs(userID) {
		if !l.Date.Before(from) && !l.Date.After(to) {
			logs = append(logs, l)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date.Before(logs[j].Date) })
	return logs, nil
}

func (s *FileStorage) ListFitnessLogsPage(ctx context.Context, userID string, offset, limit int) ([]internal.FitnessLog, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := s.userLogs(userID)
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date.After(logs[j].Date) })
	total := len(logs)
	if offset >= total {
		return []internal.FitnessLog{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return logs[offset:end], total, nil
}

func (s *FileStorage) DeleteFitnessLog(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[id]
	if !ok {
		return fmt.Errorf("storage: fitness log %s: %w", id, internal.ErrNotFound)
	}
	delete(s.dateIndex[l.UserID], dateKey(l.Date))
	delete(s.logs, id)
	notify(s.saveLogsChan)
	return nil
}

// --- Compile-time assertions ---
var _ UserRepository = (*FileStorage)(nil)
var _ GoalRepository = (*FileStorage)(nil)
var _ FitnessLogRepository = (*FileStorage)(nil)
