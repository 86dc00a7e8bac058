// Package sqlitestore implements store.Store on a local SQLite file, for the
// CLI and any host without its own data layer. Timestamps are stored as unix
// seconds; tags as a comma-joined string.
package sqlitestore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	// SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/sezginpak/lifestyles/store"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS friend (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		relationship TEXT NOT NULL DEFAULT 'friend',
		frequency TEXT NOT NULL DEFAULT 'monthly',
		last_contact_ts BIGINT,
		notes TEXT NOT NULL DEFAULT '',
		shared_interests TEXT NOT NULL DEFAULT '',
		is_important INTEGER NOT NULL DEFAULT 0,
		contact_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS mood_entry (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mood_type TEXT NOT NULL,
		intensity INTEGER NOT NULL,
		created_ts BIGINT NOT NULL,
		note TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS goal (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		progress REAL NOT NULL DEFAULT 0,
		due_ts BIGINT,
		is_completed INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS habit (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		frequency TEXT NOT NULL DEFAULT 'daily',
		current_streak INTEGER NOT NULL DEFAULT 0,
		weekly_completion_rate REAL NOT NULL DEFAULT 0,
		last_completed_ts BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS location_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_ts BIGINT NOT NULL,
		kind TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS saved_place (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		emoji TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		visit_count INTEGER NOT NULL DEFAULT 0,
		last_visit_ts BIGINT,
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS journal_entry (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_ts BIGINT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT 'daily',
		tags TEXT NOT NULL DEFAULT '',
		word_count INTEGER NOT NULL DEFAULT 0,
		is_favorite INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS user_profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT NOT NULL DEFAULT '',
		age INTEGER NOT NULL DEFAULT 0,
		occupation TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS knowledge_fact (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		confidence REAL NOT NULL,
		source TEXT NOT NULL,
		created_ts BIGINT NOT NULL,
		last_confirmed_ts BIGINT,
		times_referenced INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fact_category_key ON knowledge_fact (category, key)`,
}

// DB is the SQLite-backed life-data store.
type DB struct {
	db *sql.DB
}

// Open opens (and if needed creates) the database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite store")
	}
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "migrate store")
		}
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error { return d.db.Close() }

func (d *DB) ListFriends(ctx context.Context) ([]*store.Friend, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT name, relationship, frequency, last_contact_ts, notes, shared_interests, is_important, contact_count
		FROM friend ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list friends")
	}
	defer rows.Close()

	var out []*store.Friend
	for rows.Next() {
		f := &store.Friend{}
		var lastContact sql.NullInt64
		if err := rows.Scan(&f.Name, &f.Relationship, &f.Frequency, &lastContact,
			&f.Notes, &f.SharedInterests, &f.IsImportant, &f.ContactCount); err != nil {
			return nil, errors.Wrap(err, "scan friend")
		}
		f.LastContactAt = fromUnix(lastContact)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (d *DB) ListMoodEntries(ctx context.Context, find *store.FindMoodEntry) ([]*store.MoodEntry, error) {
	query := "SELECT mood_type, intensity, created_ts, note FROM mood_entry WHERE 1 = 1"
	var args []any
	if find != nil && find.Since != nil {
		query += " AND created_ts >= ?"
		args = append(args, find.Since.Unix())
	}
	if find != nil && find.Until != nil {
		query += " AND created_ts < ?"
		args = append(args, find.Until.Unix())
	}
	query += " ORDER BY created_ts"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list mood entries")
	}
	defer rows.Close()

	var out []*store.MoodEntry
	for rows.Next() {
		e := &store.MoodEntry{}
		var ts int64
		if err := rows.Scan(&e.MoodType, &e.Intensity, &ts, &e.Note); err != nil {
			return nil, errors.Wrap(err, "scan mood entry")
		}
		e.Timestamp = time.Unix(ts, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *DB) ListGoals(ctx context.Context, find *store.FindGoal) ([]*store.Goal, error) {
	query := "SELECT title, category, progress, due_ts, is_completed FROM goal"
	if find != nil && find.ExcludeCompleted {
		query += " WHERE is_completed = 0"
	}
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list goals")
	}
	defer rows.Close()

	var out []*store.Goal
	for rows.Next() {
		g := &store.Goal{}
		var due sql.NullInt64
		if err := rows.Scan(&g.Title, &g.Category, &g.Progress, &due, &g.IsCompleted); err != nil {
			return nil, errors.Wrap(err, "scan goal")
		}
		g.DueDate = fromUnix(due)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (d *DB) ListHabits(ctx context.Context) ([]*store.Habit, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT name, frequency, current_streak, weekly_completion_rate, last_completed_ts FROM habit`)
	if err != nil {
		return nil, errors.Wrap(err, "list habits")
	}
	defer rows.Close()

	var out []*store.Habit
	for rows.Next() {
		h := &store.Habit{}
		var last sql.NullInt64
		if err := rows.Scan(&h.Name, &h.Frequency, &h.CurrentStreak, &h.WeeklyCompletionRate, &last); err != nil {
			return nil, errors.Wrap(err, "scan habit")
		}
		h.LastCompletedAt = fromUnix(last)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (d *DB) ListLocationLogs(ctx context.Context, find *store.FindLocationLog) ([]*store.LocationLog, error) {
	query := "SELECT created_ts, kind, address FROM location_log"
	var args []any
	if find != nil && find.Since != nil {
		query += " WHERE created_ts >= ?"
		args = append(args, find.Since.Unix())
	}
	query += " ORDER BY created_ts"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list location logs")
	}
	defer rows.Close()

	var out []*store.LocationLog
	for rows.Next() {
		l := &store.LocationLog{}
		var ts int64
		if err := rows.Scan(&ts, &l.Kind, &l.Address); err != nil {
			return nil, errors.Wrap(err, "scan location log")
		}
		l.Timestamp = time.Unix(ts, 0)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (d *DB) ListSavedPlaces(ctx context.Context) ([]*store.SavedPlace, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT name, emoji, category, address, visit_count, last_visit_ts, notes FROM saved_place`)
	if err != nil {
		return nil, errors.Wrap(err, "list saved places")
	}
	defer rows.Close()

	var out []*store.SavedPlace
	for rows.Next() {
		p := &store.SavedPlace{}
		var last sql.NullInt64
		if err := rows.Scan(&p.Name, &p.Emoji, &p.Category, &p.Address, &p.VisitCount, &last, &p.Notes); err != nil {
			return nil, errors.Wrap(err, "scan saved place")
		}
		p.LastVisitAt = fromUnix(last)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (d *DB) ListJournalEntries(ctx context.Context, find *store.FindJournalEntry) ([]*store.JournalEntry, error) {
	query := "SELECT created_ts, title, content, kind, tags, word_count, is_favorite FROM journal_entry"
	var args []any
	if find != nil && find.Since != nil {
		query += " WHERE created_ts >= ?"
		args = append(args, find.Since.Unix())
	}
	query += " ORDER BY created_ts"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list journal entries")
	}
	defer rows.Close()

	var out []*store.JournalEntry
	for rows.Next() {
		e := &store.JournalEntry{}
		var ts int64
		var tags string
		if err := rows.Scan(&ts, &e.Title, &e.Content, &e.Kind, &tags, &e.WordCount, &e.IsFavorite); err != nil {
			return nil, errors.Wrap(err, "scan journal entry")
		}
		e.Timestamp = time.Unix(ts, 0)
		if tags != "" {
			e.Tags = strings.Split(tags, ",")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *DB) GetUserProfile(ctx context.Context) (*store.UserProfile, error) {
	p := &store.UserProfile{}
	err := d.db.QueryRowContext(ctx,
		"SELECT name, age, occupation, city FROM user_profile WHERE id = 1").
		Scan(&p.Name, &p.Age, &p.Occupation, &p.City)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get user profile")
	}
	return p, nil
}

// SetUserProfile upserts the single profile row.
func (d *DB) SetUserProfile(ctx context.Context, p *store.UserProfile) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO user_profile (id, name, age, occupation, city) VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, age = excluded.age,
			occupation = excluded.occupation, city = excluded.city
	`, p.Name, p.Age, p.Occupation, p.City)
	return errors.Wrap(err, "set user profile")
}

func (d *DB) ListKnowledgeFacts(ctx context.Context, find *store.FindKnowledgeFact) ([]*store.KnowledgeFact, error) {
	query := `SELECT id, category, key, value, confidence, source, created_ts, last_confirmed_ts, times_referenced, is_active
		FROM knowledge_fact WHERE 1 = 1`
	var args []any
	if find != nil {
		if find.Category != nil {
			query += " AND category = ?"
			args = append(args, *find.Category)
		}
		if find.Key != nil {
			query += " AND key = ?"
			args = append(args, *find.Key)
		}
		if find.OnlyActive {
			query += " AND is_active = 1"
		}
	}
	query += " ORDER BY created_ts"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list knowledge facts")
	}
	defer rows.Close()

	var out []*store.KnowledgeFact
	for rows.Next() {
		f := &store.KnowledgeFact{}
		var created int64
		var confirmed sql.NullInt64
		if err := rows.Scan(&f.ID, &f.Category, &f.Key, &f.Value, &f.Confidence, &f.Source,
			&created, &confirmed, &f.TimesReferenced, &f.IsActive); err != nil {
			return nil, errors.Wrap(err, "scan knowledge fact")
		}
		f.CreatedAt = time.Unix(created, 0)
		f.LastConfirmedAt = fromUnix(confirmed)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (d *DB) CreateKnowledgeFact(ctx context.Context, create *store.KnowledgeFact) (*store.KnowledgeFact, error) {
	out := *create
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now()
	}
	var confirmed any
	if out.LastConfirmedAt != nil {
		confirmed = out.LastConfirmedAt.Unix()
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO knowledge_fact (id, category, key, value, confidence, source, created_ts, last_confirmed_ts, times_referenced, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, out.ID, out.Category, out.Key, out.Value, out.Confidence, out.Source,
		out.CreatedAt.Unix(), confirmed, out.TimesReferenced, out.IsActive)
	if err != nil {
		return nil, errors.Wrap(err, "create knowledge fact")
	}
	return &out, nil
}

func (d *DB) UpdateKnowledgeFact(ctx context.Context, update *store.UpdateKnowledgeFact) error {
	var sets []string
	var args []any
	if update.Value != nil {
		sets = append(sets, "value = ?")
		args = append(args, *update.Value)
	}
	if update.Confidence != nil {
		sets = append(sets, "confidence = ?")
		args = append(args, *update.Confidence)
	}
	if update.Source != nil {
		sets = append(sets, "source = ?")
		args = append(args, *update.Source)
	}
	if update.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *update.IsActive)
	}
	if update.TimesReferenced != nil {
		sets = append(sets, "times_referenced = ?")
		args = append(args, *update.TimesReferenced)
	}
	if update.LastConfirmedAt != nil {
		sets = append(sets, "last_confirmed_ts = ?")
		args = append(args, update.LastConfirmedAt.Unix())
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, update.ID)
	_, err := d.db.ExecContext(ctx,
		"UPDATE knowledge_fact SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	return errors.Wrap(err, "update knowledge fact")
}

func fromUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0)
	return &t
}

var _ store.Store = (*DB)(nil)
