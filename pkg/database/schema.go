package database

// schema is idempotent; cascades mirror entity ownership.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username VARCHAR(150) NOT NULL UNIQUE,
		email VARCHAR(254) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role VARCHAR(10) NOT NULL DEFAULT 'student' CHECK (role IN ('student', 'teacher')),
		bio VARCHAR(500) NOT NULL DEFAULT '',
		profile_picture TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS topics (
		id TEXT PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		slug VARCHAR(120) NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL,
		teacher_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		topic_id TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
		thumbnail TEXT,
		view_count INTEGER NOT NULL DEFAULT 0 CHECK (view_count >= 0),
		slug VARCHAR(220) NOT NULL UNIQUE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_created_at ON courses (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_teacher ON courses (teacher_id)`,
	`CREATE TABLE IF NOT EXISTS videos (
		id TEXT PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		video_file TEXT NOT NULL,
		thumbnail TEXT,
		duration_seconds INTEGER CHECK (duration_seconds >= 0),
		sort_order INTEGER NOT NULL DEFAULT 0 CHECK (sort_order >= 0),
		view_count INTEGER NOT NULL DEFAULT 0 CHECK (view_count >= 0),
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_videos_course_order ON videos (course_id, sort_order, created_at)`,
	`CREATE TABLE IF NOT EXISTS bookmarks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		video_id TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, video_id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		video_id TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
		content TEXT NOT NULL CHECK (length(trim(content)) > 0),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_video ON comments (video_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS video_progress (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		video_id TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
		watched_seconds INTEGER NOT NULL DEFAULT 0 CHECK (watched_seconds >= 0),
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		last_watched TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, video_id)
	)`,
	`CREATE TABLE IF NOT EXISTS course_ratings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		review TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		action VARCHAR(40) NOT NULL,
		resource VARCHAR(40) NOT NULL,
		resource_id TEXT,
		new_values JSONB,
		ip_address VARCHAR(64) NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
}
