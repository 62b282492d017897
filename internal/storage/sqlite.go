package storage

import (
	"database/sql"

	"github.com/crewforge/crewforge/internal/models"
	_ "modernc.org/sqlite"
)

type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		project_name TEXT NOT NULL,
		project_dir TEXT NOT NULL,
		spec_path TEXT,
		status TEXT NOT NULL DEFAULT 'started'
	);

	CREATE TABLE IF NOT EXISTS usage (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions(id),
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		prompt_tokens INTEGER NOT NULL DEFAULT 0,
		completion_tokens INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);
	CREATE INDEX IF NOT EXISTS idx_usage_session ON usage(session_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Storage) CreateSession(sess *models.Session) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, project_name, project_dir, spec_path, status)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.ProjectName, sess.ProjectDir, sess.SpecPath, sess.Status,
	)
	return err
}

func (s *Storage) GetSession(id string) (*models.Session, error) {
	row := s.db.QueryRow(
		`SELECT id, created_at, project_name, project_dir, spec_path, status
		 FROM sessions WHERE id = ?`, id,
	)
	return scanSession(row)
}

func (s *Storage) UpdateSession(sess *models.Session) error {
	_, err := s.db.Exec(
		`UPDATE sessions SET project_name = ?, project_dir = ?, spec_path = ?, status = ? WHERE id = ?`,
		sess.ProjectName, sess.ProjectDir, sess.SpecPath, sess.Status, sess.ID,
	)
	return err
}

func (s *Storage) ListSessions(limit int) ([]*models.Session, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, project_name, project_dir, spec_path, status
		 FROM sessions ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var sess models.Session
	var specPath sql.NullString

	err := row.Scan(
		&sess.ID, &sess.CreatedAt, &sess.ProjectName,
		&sess.ProjectDir, &specPath, &sess.Status,
	)
	if err != nil {
		return nil, err
	}

	if specPath.Valid {
		sess.SpecPath = specPath.String
	}

	return &sess, nil
}

func (s *Storage) RecordUsage(u *models.Usage) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO usage (session_id, provider, model, prompt_tokens, completion_tokens)
		 VALUES (?, ?, ?, ?, ?)`,
		u.SessionID, u.Provider, u.Model, u.PromptTokens, u.CompletionTokens,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Storage) GetUsageForSession(sessionID string) ([]*models.Usage, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, provider, model, prompt_tokens, completion_tokens, created_at
		 FROM usage WHERE session_id = ? ORDER BY id`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usages []*models.Usage
	for rows.Next() {
		var u models.Usage
		err := rows.Scan(
			&u.ID, &u.SessionID, &u.Provider, &u.Model,
			&u.PromptTokens, &u.CompletionTokens, &u.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		usages = append(usages, &u)
	}

	return usages, rows.Err()
}
