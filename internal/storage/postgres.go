package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balasutharsan1247/student-fitness-app/internal"
)

const uniqueViolation = "23505"

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStorage, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Errorf("failed to parse postgres dsn: %v", err)
		return nil, err
	}
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

// Migrate creates any missing tables and indexes.
func (p *PostgresStorage) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		p.logger.Errorf("failed to apply schema: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func toJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return []byte("[]"), nil
	}
	return b, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("storage: %s: %w", what, internal.ErrNotFound)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// --- UserRepository ---
const userColumns = `id, first_name, last_name, email, password_hash, student_id, university, department,
	graduate_type, year, age, gender, height, weight, target_weight, target_steps, target_sleep, target_calories,
	points, level, badges, role, is_active, last_login, created_at, updated_at`

func scanUser(row rowScanner) (*internal.User, error) {
	var u internal.User
	var badges []byte
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.StudentID, &u.University,
		&u.Department, &u.GraduateType, &u.Year, &u.Age, &u.Gender, &u.Height, &u.Weight, &u.TargetWeight,
		&u.TargetSteps, &u.TargetSleep, &u.TargetCal, &u.Points, &u.Level, &badges, &u.Role, &u.IsActive,
		&u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(badges, &u.Badges); err != nil {
		return nil, fmt.Errorf("storage: decode badges: %w", err)
	}
	return &u, nil
}

func (p *PostgresStorage) CreateUser(ctx context.Context, u *internal.User) error {
	badges, err := toJSON(u.Badges)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.StudentID, u.University, u.Department,
		u.GraduateType, u.Year, u.Age, u.Gender, u.Height, u.Weight, u.TargetWeight, u.TargetSteps, u.TargetSleep,
		u.TargetCal, u.Points, u.Level, badges, u.Role, u.IsActive, u.LastLogin, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("storage: email %s already registered: %w", u.Email, internal.ErrConflict)
		}
		p.logger.Errorf("failed to insert user: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "user "+id)
	}
	return u, nil
}

func (p *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		return nil, notFound(err, "user with email "+email)
	}
	return u, nil
}

func (p *PostgresStorage) ListUsers(ctx context.Context) ([]internal.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		p.logger.Errorf("failed to query users: %v", err)
		return nil, err
	}
	defer rows.Close()

	users := []internal.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			p.logger.Errorf("failed to scan user: %v", err)
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUser locks the row for the duration of fn so concurrent points
// adjustments serialise instead of overwriting each other.
func (p *PostgresStorage) UpdateUser(ctx context.Context, id string, fn func(*internal.User) error) (*internal.User, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	u, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err, "user "+id)
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	badges, err := toJSON(u.Badges)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx, `UPDATE users SET first_name = $2, last_name = $3, email = $4, password_hash = $5,
		student_id = $6, university = $7, department = $8, graduate_type = $9, year = $10, age = $11, gender = $12,
		height = $13, weight = $14, target_weight = $15, target_steps = $16, target_sleep = $17,
		target_calories = $18, points = $19, level = $20, badges = $21, role = $22, is_active = $23,
		last_login = $24, updated_at = $25 WHERE id = $1`,
		id, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.StudentID, u.University, u.Department,
		u.GraduateType, u.Year, u.Age, u.Gender, u.Height, u.Weight, u.TargetWeight, u.TargetSteps, u.TargetSleep,
		u.TargetCal, u.Points, u.Level, badges, u.Role, u.IsActive, u.LastLogin, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("storage: email %s already registered: %w", u.Email, internal.ErrConflict)
		}
		p.logger.Errorf("failed to update user: %v", err)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

// --- GoalRepository ---
const goalColumns = `id, user_id, title, description, category, target_value, current_value, starting_value, unit,
	start_date, target_date, completed_date, status, progress, points, badge, motivation_quote, rewards, milestones,
	reminder_enabled, reminder_frequency, created_at, updated_at`

func scanGoal(row rowScanner) (*internal.Goal, error) {
	var g internal.Goal
	var rewards, milestones []byte
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.Category, &g.TargetValue, &g.CurrentValue,
		&g.StartingValue, &g.Unit, &g.StartDate, &g.TargetDate, &g.CompletedDate, &g.Status, &g.Progress,
		&g.Points, &g.Badge, &g.MotivationQuote, &rewards, &milestones, &g.ReminderEnabled,
		&g.ReminderFrequency, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rewards, &g.Rewards); err != nil {
		return nil, fmt.Errorf("storage: decode rewards: %w", err)
	}
	if err := json.Unmarshal(milestones, &g.Milestones); err != nil {
		return nil, fmt.Errorf("storage: decode milestones: %w", err)
	}
	return &g, nil
}

func (p *PostgresStorage) SaveGoal(ctx context.Context, g *internal.Goal) error {
	rewards, err := toJSON(g.Rewards)
	if err != nil {
		return err
	}
	milestones, err := toJSON(g.Milestones)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO goals (`+goalColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
		$10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description,
		category = EXCLUDED.category, target_value = EXCLUDED.target_value, current_value = EXCLUDED.current_value,
		unit = EXCLUDED.unit, target_date = EXCLUDED.target_date, completed_date = EXCLUDED.completed_date,
		status = EXCLUDED.status, progress = EXCLUDED.progress, points = EXCLUDED.points, badge = EXCLUDED.badge,
		motivation_quote = EXCLUDED.motivation_quote, rewards = EXCLUDED.rewards, milestones = EXCLUDED.milestones,
		reminder_enabled = EXCLUDED.reminder_enabled, reminder_frequency = EXCLUDED.reminder_frequency,
		updated_at = EXCLUDED.updated_at`,
		g.ID, g.UserID, g.Title, g.Description, g.Category, g.TargetValue, g.CurrentValue, g.StartingValue, g.Unit,
		g.StartDate, g.TargetDate, g.CompletedDate, g.Status, g.Progress, g.Points, g.Badge, g.MotivationQuote,
		rewards, milestones, g.ReminderEnabled, g.ReminderFrequency, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to upsert goal: %v", err)
		return err
	}
	return nil
}

// CompleteGoal relies on the row lock taken by UPDATE: a second completion
// waits, re-reads the status and matches nothing.
func (p *PostgresStorage) CompleteGoal(ctx context.Context, g *internal.Goal) error {
	rewards, err := toJSON(g.Rewards)
	if err != nil {
		return err
	}
	milestones, err := toJSON(g.Milestones)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, `UPDATE goals SET title = $2, description = $3, category = $4,
		target_value = $5, current_value = $6, unit = $7, target_date = $8, completed_date = $9, status = $10,
		progress = $11, points = $12, badge = $13, motivation_quote = $14, rewards = $15, milestones = $16,
		reminder_enabled = $17, reminder_frequency = $18, updated_at = $19
		WHERE id = $1 AND status <> $20`,
		g.ID, g.Title, g.Description, g.Category, g.TargetValue, g.CurrentValue, g.Unit, g.TargetDate,
		g.CompletedDate, g.Status, g.Progress, g.Points, g.Badge, g.MotivationQuote, rewards, milestones,
		g.ReminderEnabled, g.ReminderFrequency, g.UpdatedAt, internal.StatusCompleted)
	if err != nil {
		p.logger.Errorf("failed to complete goal: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: goal %s is not open for completion: %w", g.ID, internal.ErrConflict)
	}
	return nil
}

func (p *PostgresStorage) GetGoal(ctx context.Context, id string) (*internal.Goal, error) {
	g, err := scanGoal(p.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "goal "+id)
	}
	return g, nil
}

func (p *PostgresStorage) ListGoals(ctx context.Context, userID string, filter GoalFilter) ([]internal.Goal, error) {
	statuses := make([]string, 0, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses = append(statuses, string(s))
	}
	rows, err := p.pool.Query(ctx, `SELECT `+goalColumns+` FROM goals
		WHERE user_id = $1
		  AND (cardinality($2::text[]) = 0 OR status = ANY($2))
		  AND ($3 = '' OR category = $3)
		ORDER BY created_at DESC`, userID, statuses, string(filter.Category))
	if err != nil {
		p.logger.Errorf("failed to query goals: %v", err)
		return nil, err
	}
	defer rows.Close()

	goals := []internal.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			p.logger.Errorf("failed to scan goal: %v", err)
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (p *PostgresStorage) DeleteGoal(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		p.logger.Errorf("failed to delete goal: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: goal %s: %w", id, internal.ErrNotFound)
	}
	return nil
}

// --- FitnessLogRepository ---
const logColumns = `id, user_id, date, steps, distance, active_minutes, calories_burned, workouts, sleep_hours,
	sleep_quality, meals, total_calories_consumed, water_intake, screen_time, stress_level, stress_factors, mood,
	weight, notes, lifestyle_score, created_at, updated_at`

func scanFitnessLog(row rowScanner) (*internal.FitnessLog, error) {
	var l internal.FitnessLog
	var workouts, meals, factors []byte
	var sleepHours *float64
	var sleepQuality string
	err := row.Scan(&l.ID, &l.UserID, &l.Date, &l.Steps, &l.Distance, &l.ActiveMinutes, &l.CaloriesBurned,
		&workouts, &sleepHours, &sleepQuality, &meals, &l.TotalCaloriesConsumed, &l.WaterIntake, &l.ScreenTime,
		&l.StressLevel, &factors, &l.Mood, &l.Weight, &l.Notes, &l.LifestyleScore, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if sleepHours != nil || sleepQuality != "" {
		l.Sleep = &internal.Sleep{Hours: sleepHours, Quality: sleepQuality}
	}
	for _, field := range []struct {
		raw  []byte
		into any
	}{{workouts, &l.Workouts}, {meals, &l.Meals}, {factors, &l.StressFactors}} {
		if err := json.Unmarshal(field.raw, field.into); err != nil {
			return nil, fmt.Errorf("storage: decode fitness log: %w", err)
		}
	}
	return &l, nil
}

func (p *PostgresStorage) SaveFitnessLog(ctx context.Context, l *internal.FitnessLog) error {
	workouts, err := toJSON(l.Workouts)
	if err != nil {
		return err
	}
	meals, err := toJSON(l.Meals)
	if err != nil {
		return err
	}
	factors, err := toJSON(l.StressFactors)
	if err != nil {
		return err
	}
	var sleepHours *float64
	var sleepQuality string
	if l.Sleep != nil {
		sleepHours, sleepQuality = l.Sleep.Hours, l.Sleep.Quality
	}

	_, err = p.pool.Exec(ctx, `INSERT INTO fitness_logs (`+logColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (id) DO UPDATE SET date = EXCLUDED.date, steps = EXCLUDED.steps, distance = EXCLUDED.distance,
		active_minutes = EXCLUDED.active_minutes, calories_burned = EXCLUDED.calories_burned,
		workouts = EXCLUDED.workouts, sleep_hours = EXCLUDED.sleep_hours, sleep_quality = EXCLUDED.sleep_quality,
		meals = EXCLUDED.meals, total_calories_consumed = EXCLUDED.total_calories_consumed,
		water_intake = EXCLUDED.water_intake, screen_time = EXCLUDED.screen_time,
		stress_level = EXCLUDED.stress_level, stress_factors = EXCLUDED.stress_factors, mood = EXCLUDED.mood,
		weight = EXCLUDED.weight, notes = EXCLUDED.notes, lifestyle_score = EXCLUDED.lifestyle_score,
		updated_at = EXCLUDED.updated_at`,
		l.ID, l.UserID, l.Date, l.Steps, l.Distance, l.ActiveMinutes, l.CaloriesBurned, workouts, sleepHours,
		sleepQuality, meals, l.TotalCaloriesConsumed, l.WaterIntake, l.ScreenTime, l.StressLevel, factors, l.Mood,
		l.Weight, l.Notes, l.LifestyleScore, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("storage: fitness log for %s already exists: %w", l.Date.Format(internal.DateLayout), internal.ErrConflict)
		}
		p.logger.Errorf("failed to upsert fitness log: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetFitnessLog(ctx context.Context, id string) (*internal.FitnessLog, error) {
	l, err := scanFitnessLog(p.pool.QueryRow(ctx, `SELECT `+logColumns+` FROM fitness_logs WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "fitness log "+id)
	}
	return l, nil
}

func (p *PostgresStorage) GetFitnessLogByDate(ctx context.Context, userID string, date time.Time) (*internal.FitnessLog, error) {
	l, err := scanFitnessLog(p.pool.QueryRow(ctx, `SELECT `+logColumns+` FROM fitness_logs
		WHERE user_id = $1 AND date BETWEEN $2 AND $3`, userID, internal.StartOfDay(date), internal.EndOfDay(date)))
	if err != nil {
		return nil, notFound(err, "fitness log for "+date.Format(internal.DateLayout))
	}
	return l, nil
}

func (p *PostgresStorage) queryLogs(ctx context.Context, sql string, args ...any) ([]internal.FitnessLog, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		p.logger.Errorf("failed to query fitness logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	logs := []internal.FitnessLog{}
	for rows.Next() {
		l, err := scanFitnessLog(rows)
		if err != nil {
			p.logger.Errorf("failed to scan fitness log: %v", err)
			return nil, err
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

func (p *PostgresStorage) ListFitnessLogsInRange(ctx context.Context, userID string, from, to time.Time) ([]internal.FitnessLog, error) {
	return p.queryLogs(ctx, `SELECT `+logColumns+` FROM fitness_logs
		WHERE user_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date ASC`, userID, from, to)
}

func (p *PostgresStorage) ListFitnessLogsPage(ctx context.Context, userID string, offset, limit int) ([]internal.FitnessLog, int, error) {
	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM fitness_logs WHERE user_id = $1`, userID).Scan(&total); err != nil {
		p.logger.Errorf("failed to count fitness logs: %v", err)
		return nil, 0, err
	}
	logs, err := p.queryLogs(ctx, `SELECT `+logColumns+` FROM fitness_logs
		WHERE user_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (p *PostgresStorage) DeleteFitnessLog(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM fitness_logs WHERE id = $1`, id)
	if err != nil {
		p.logger.Errorf("failed to delete fitness log: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: fitness log %s: %w", id, internal.ErrNotFound)
	}
	return nil
}

// --- Compile-time assertions ---
var _ UserRepository = (*PostgresStorage)(nil)
var _ GoalRepository = (*PostgresStorage)(nil)
var _ FitnessLogRepository = (*PostgresStorage)(nil)
