package storage

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    student_id TEXT NOT NULL DEFAULT '',
    university TEXT NOT NULL DEFAULT '',
    department TEXT NOT NULL DEFAULT '',
    graduate_type TEXT NOT NULL DEFAULT '',
    year TEXT NOT NULL DEFAULT '',
    age INTEGER,
    gender TEXT NOT NULL DEFAULT '',
    height DOUBLE PRECISION,
    weight DOUBLE PRECISION,
    target_weight DOUBLE PRECISION,
    target_steps INTEGER NOT NULL DEFAULT 10000,
    target_sleep DOUBLE PRECISION NOT NULL DEFAULT 8,
    target_calories INTEGER NOT NULL DEFAULT 2000,
    points INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
    level INTEGER NOT NULL DEFAULT 1 CHECK (level >= 1),
    badges JSONB NOT NULL DEFAULT '[]',
    role TEXT NOT NULL DEFAULT 'student',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    last_login TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS goals (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL,
    target_value DOUBLE PRECISION NOT NULL,
    current_value DOUBLE PRECISION NOT NULL DEFAULT 0,
    starting_value DOUBLE PRECISION,
    unit TEXT NOT NULL,
    start_date TIMESTAMPTZ NOT NULL,
    target_date TIMESTAMPTZ NOT NULL,
    completed_date TIMESTAMPTZ,
    status TEXT NOT NULL,
    progress INTEGER NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
    points INTEGER NOT NULL DEFAULT 0,
    badge TEXT NOT NULL DEFAULT '',
    motivation_quote TEXT NOT NULL DEFAULT '',
    rewards JSONB NOT NULL DEFAULT '[]',
    milestones JSONB NOT NULL DEFAULT '[]',
    reminder_enabled BOOLEAN NOT NULL DEFAULT FALSE,
    reminder_frequency TEXT NOT NULL DEFAULT 'Weekly',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    CHECK (target_date > start_date)
);

CREATE INDEX IF NOT EXISTS idx_goals_user_status ON goals (user_id, status);
CREATE INDEX IF NOT EXISTS idx_goals_target_date ON goals (target_date);

CREATE TABLE IF NOT EXISTS fitness_logs (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    date TIMESTAMPTZ NOT NULL,
    steps INTEGER,
    distance DOUBLE PRECISION,
    active_minutes INTEGER,
    calories_burned DOUBLE PRECISION,
    workouts JSONB NOT NULL DEFAULT '[]',
    sleep_hours DOUBLE PRECISION,
    sleep_quality TEXT NOT NULL DEFAULT '',
    meals JSONB NOT NULL DEFAULT '[]',
    total_calories_consumed DOUBLE PRECISION,
    water_intake DOUBLE PRECISION,
    screen_time DOUBLE PRECISION,
    stress_level INTEGER CHECK (stress_level BETWEEN 1 AND 10),
    stress_factors JSONB NOT NULL DEFAULT '[]',
    mood TEXT NOT NULL DEFAULT '',
    weight DOUBLE PRECISION,
    notes TEXT NOT NULL DEFAULT '',
    lifestyle_score INTEGER NOT NULL DEFAULT 0 CHECK (lifestyle_score BETWEEN 0 AND 100),
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_fitness_logs_user_date ON fitness_logs (user_id, date);
CREATE INDEX IF NOT EXISTS idx_fitness_logs_date ON fitness_logs (date DESC);
`
