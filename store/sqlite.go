package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/gilhq/coach/core"
	"github.com/gilhq/coach/pubsub"
)

// SQLite implements core.MemoryStore and core.MessageStore on a single
// SQLite database file. ULID ids keep rows lexically ordered by creation
// time; timestamps are stored as UTC RFC 3339.
type SQLite struct {
	db *sql.DB

	memoryEvents  *pubsub.Broker[core.Memory]
	messageEvents *pubsub.Broker[core.ChatMessage]
}

// NewSQLite opens or creates a SQLite database at the given path.
func NewSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	// busy_timeout makes concurrent writers queue on WAL's single-writer
	// lock instead of failing fast with SQLITE_BUSY; store-write failures
	// are fatal to a turn, so a valid concurrent request must not 500.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLite{
		db:            db,
		memoryEvents:  pubsub.NewBroker[core.Memory](),
		messageEvents: pubsub.NewBroker[core.ChatMessage](),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }

// MemoryEvents returns the broker publishing memory change events.
func (s *SQLite) MemoryEvents() *pubsub.Broker[core.Memory] { return s.memoryEvents }

// MessageEvents returns the broker publishing message change events.
func (s *SQLite) MessageEvents() *pubsub.Broker[core.ChatMessage] { return s.messageEvents }

// newID returns a fresh ULID. ulid.Make uses the package-level monotonic
// entropy source, which is lock-guarded and safe for concurrent inserts.
func (s *SQLite) newID() string {
	return ulid.Make().String()
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		category    TEXT NOT NULL,
		content     TEXT NOT NULL,
		importance  INTEGER NOT NULL DEFAULT 1,
		created_by  TEXT NOT NULL DEFAULT 'user',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_memories_user ON memories(user_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS chat_messages (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		content     TEXT NOT NULL,
		role        TEXT NOT NULL,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_user ON chat_messages(user_id, created_at ASC);
	`
	_, err := s.db.Exec(schema)
	return err
}

const timeLayout = time.RFC3339Nano

func parseTime(raw string) time.Time {
	t, _ := time.Parse(timeLayout, raw)
	return t
}

// Insert implements core.MemoryStore.
func (s *SQLite) Insert(ctx context.Context, m core.Memory) (*core.Memory, error) {
	if m.Importance == 0 {
		m.Importance = 1
	}
	if m.CreatedBy == "" {
		m.CreatedBy = core.CreatorUser
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	m.ID = s.newID()
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memories (id, user_id, category, content, importance, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, string(m.Category), m.Content, m.Importance, string(m.CreatedBy),
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert memory: %w", err)
	}

	s.memoryEvents.Publish(pubsub.NewCreatedEvent(m))
	return &m, nil
}

// Update implements core.MemoryStore.
func (s *SQLite) Update(ctx context.Context, id string, upd core.MemoryUpdate) (*core.Memory, error) {
	sets := []string{"updated_at = ?"}
	now := time.Now().UTC()
	args := []any{now.Format(timeLayout)}

	if upd.Category != nil {
		if _, err := core.ParseCategory(string(*upd.Category)); err != nil {
			return nil, err
		}
		sets = append(sets, "category = ?")
		args = append(args, string(*upd.Category))
	}
	if upd.Content != nil {
		if *upd.Content == "" {
			return nil, core.ErrEmptyContent
		}
		sets = append(sets, "content = ?")
		args = append(args, *upd.Content)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE memories SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("update memory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, core.ErrNotFound
	}

	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.memoryEvents.Publish(pubsub.NewUpdatedEvent(*m))
	return m, nil
}

// Delete implements core.MemoryStore.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM memories WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	s.memoryEvents.Publish(pubsub.NewDeletedEvent(*m))
	return nil
}

// Get implements core.MemoryStore.
func (s *SQLite) Get(ctx context.Context, id string) (*core.Memory, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, category, content, importance, created_by, created_at, updated_at
		FROM memories WHERE id = ?`, id)
	m, err := scanMemory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get memory: %w", err)
	}
	return m, nil
}

// ListByUser implements core.MemoryStore; newest first.
func (s *SQLite) ListByUser(ctx context.Context, userID string) ([]core.Memory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category, content, importance, created_by, created_at, updated_at
		FROM memories WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	out := make([]core.Memory, 0)
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMemory(row scanner) (*core.Memory, error) {
	var m core.Memory
	var category, createdBy, createdAt, updatedAt string
	if err := row.Scan(&m.ID, &m.UserID, &category, &m.Content, &m.Importance,
		&createdBy, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	m.Category = core.Category(category)
	m.CreatedBy = core.Creator(createdBy)
	m.CreatedAt = parseTime(createdAt)
	m.UpdatedAt = parseTime(updatedAt)
	return &m, nil
}

// Append implements core.MessageStore.
func (s *SQLite) Append(ctx context.Context, m core.ChatMessage) (*core.ChatMessage, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.ID = s.newID()
	m.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, user_id, content, role, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.Content, string(m.Role), m.CreatedAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	s.messageEvents.Publish(pubsub.NewCreatedEvent(m))
	return &m, nil
}

// History implements core.MessageStore; insertion order.
func (s *SQLite) History(ctx context.Context, userID string) ([]core.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, content, role, created_at
		FROM chat_messages WHERE user_id = ? ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]core.ChatMessage, 0)
	for rows.Next() {
		var m core.ChatMessage
		var role, createdAt string
		if err := rows.Scan(&m.ID, &m.UserID, &m.Content, &role, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = core.Role(role)
		m.CreatedAt = parseTime(createdAt)
		out = append(out, m)
	}
	return out, rows.Err()
}
