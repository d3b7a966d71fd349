package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/autostream-assistant/server/internal/agent/model"
	logx "github.com/autostream-assistant/server/pkg/logger"
	"github.com/autostream-assistant/server/pkg/sqlite"
)

// LeadMigrations creates the leads table.
var LeadMigrations = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		reference    TEXT PRIMARY KEY,
		session_id   TEXT NOT NULL,
		name         TEXT NOT NULL,
		email        TEXT NOT NULL,
		platform     TEXT NOT NULL,
		captured_at  TEXT NOT NULL,
		submitted_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_submitted_at ON leads(submitted_at)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_leads_session_id ON leads(session_id)`,
}

const leadColumns = `reference, session_id, name, email, platform, captured_at, submitted_at`

// StoredLead is a persisted lead with its acknowledgement.
type StoredLead struct {
	model.Lead
	Reference   string    `json:"reference"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SQLiteLeadRepository persists leads and doubles as a LeadSink.
type SQLiteLeadRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteLeadRepository(db *sql.DB) *SQLiteLeadRepository {
	return &SQLiteLeadRepository{db: db, now: time.Now}
}

// OpenSQLiteLeadRepository opens the database at path and applies LeadMigrations.
func OpenSQLiteLeadRepository(ctx context.Context, path string) (*SQLiteLeadRepository, error) {
	db, err := sqlite.Open(ctx, path, LeadMigrations...)
	if err != nil {
		return nil, err
	}
	return NewSQLiteLeadRepository(db), nil
}

// Submit stores l once per session. A repeated submission for a session that
// is already stored returns the original acknowledgement.
func (r *SQLiteLeadRepository) Submit(ctx context.Context, l model.Lead) (*model.LeadAck, error) {
	ack := &model.LeadAck{Reference: uuid.NewString(), SubmittedAt: r.now().UTC()}
	query := `INSERT INTO leads (` + leadColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query,
		ack.Reference,
		l.SessionID,
		l.Name,
		l.Email,
		l.Platform,
		l.CapturedAt.UTC().Format(time.RFC3339Nano),
		ack.SubmittedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		logx.Error().Err(err).Str("session_id", l.SessionID).Msg("failed to insert lead")
		return nil, fmt.Errorf("inserting lead: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 1 {
		logx.Info().Str("session_id", l.SessionID).Str("reference", ack.Reference).Msg("lead stored")
		return ack, nil
	}

	existing, err := r.bySession(ctx, l.SessionID)
	if err != nil {
		return nil, err
	}
	logx.Info().Str("session_id", l.SessionID).Str("reference", existing.Reference).Msg("lead already stored")
	return existing, nil
}

func (r *SQLiteLeadRepository) bySession(ctx context.Context, sessionID string) (*model.LeadAck, error) {
	var ack model.LeadAck
	var submitted string
	err := r.db.QueryRowContext(ctx, `SELECT reference, submitted_at FROM leads WHERE session_id = ?`, sessionID).
		Scan(&ack.Reference, &submitted)
	if err != nil {
		return nil, fmt.Errorf("loading lead for session %s: %w", sessionID, err)
	}
	if ack.SubmittedAt, err = time.Parse(time.RFC3339Nano, submitted); err != nil {
		return nil, fmt.Errorf("parsing submitted_at for %s: %w", ack.Reference, err)
	}
	return &ack, nil
}

// List returns every stored lead, oldest first.
func (r *SQLiteLeadRepository) List(ctx context.Context) ([]StoredLead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY submitted_at, reference`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	var out []StoredLead
	for rows.Next() {
		var s StoredLead
		var capturedAt, submitted string
		if err := rows.Scan(&s.Reference, &s.SessionID, &s.Name, &s.Email, &s.Platform, &capturedAt, &submitted); err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		if s.CapturedAt, err = time.Parse(time.RFC3339Nano, capturedAt); err != nil {
			return nil, fmt.Errorf("parsing captured_at for %s: %w", s.Reference, err)
		}
		if s.SubmittedAt, err = time.Parse(time.RFC3339Nano, submitted); err != nil {
			return nil, fmt.Errorf("parsing submitted_at for %s: %w", s.Reference, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leads: %w", err)
	}
	return out, nil
}

func (r *SQLiteLeadRepository) Close() error {
	return r.db.Close()
}

var _ model.LeadSink = (*SQLiteLeadRepository)(nil)
