package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Command is one archived command line.
type Command struct {
	ID          int64
	Timestamp   time.Time
	SessionID   string
	Username    string
	Cwd         string
	CommandText string
	Status      int
}

// Store archives command lines from every session in SQLite.
type Store struct {
	conn *sql.DB
}

// NewStore opens/creates a SQLite database at the given path and initializes
// the schema. Pass ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared.
	conn.SetMaxOpenConns(1)

	store := &Store{conn: conn}
	if err := store.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		username TEXT NOT NULL,
		cwd TEXT,
		cmd_text TEXT NOT NULL,
		status INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_commands_ts ON commands(ts DESC);
	CREATE INDEX IF NOT EXISTS idx_commands_session ON commands(session_id);
	`

	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Record inserts a command into the archive.
func (s *Store) Record(ctx context.Context, cmd *Command) error {
	query := `
		INSERT INTO commands (ts, session_id, username, cwd, cmd_text, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.conn.ExecContext(ctx, query,
		cmd.Timestamp.UnixNano(),
		cmd.SessionID,
		cmd.Username,
		cmd.Cwd,
		cmd.CommandText,
		cmd.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert command: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	cmd.ID = id
	return nil
}

// Recent retrieves the N most recent commands, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Command, error) {
	query := `
		SELECT id, ts, session_id, username, cwd, cmd_text, status
		FROM commands
		ORDER BY ts DESC, id DESC
		LIMIT ?
	`

	rows, err := s.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent commands: %w", err)
	}
	defer rows.Close()

	return scanCommands(rows)
}

// Search finds commands starting with prefix, newest first.
func (s *Store) Search(ctx context.Context, prefix string, limit int) ([]*Command, error) {
	query := `
		SELECT id, ts, session_id, username, cwd, cmd_text, status
		FROM commands
		WHERE cmd_text LIKE ?
		ORDER BY ts DESC, id DESC
		LIMIT ?
	`

	rows, err := s.conn.QueryContext(ctx, query, prefix+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search commands: %w", err)
	}
	defer rows.Close()

	return scanCommands(rows)
}

// BySession retrieves the commands of one session in entry order.
func (s *Store) BySession(ctx context.Context, sessionID string) ([]*Command, error) {
	query := `
		SELECT id, ts, session_id, username, cwd, cmd_text, status
		FROM commands
		WHERE session_id = ?
		ORDER BY id ASC
	`

	rows, err := s.conn.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query commands by session: %w", err)
	}
	defer rows.Close()

	return scanCommands(rows)
}

func scanCommands(rows *sql.Rows) ([]*Command, error) {
	var commands []*Command

	for rows.Next() {
		var cmd Command
		var tsNanos int64

		err := rows.Scan(
			&cmd.ID,
			&tsNanos,
			&cmd.SessionID,
			&cmd.Username,
			&cmd.Cwd,
			&cmd.CommandText,
			&cmd.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan command row: %w", err)
		}

		cmd.Timestamp = time.Unix(0, tsNanos)
		commands = append(commands, &cmd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating command rows: %w", err)
	}

	return commands, nil
}
