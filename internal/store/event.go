package store

import (
	"database/sql"
	"errors"
	"time"
)

// MotionEvent represents a contiguous interval of detected motion.
type MotionEvent struct {
	ID          string
	SessionID   string
	Method      string
	StartedAt   time.Time
	EndedAt     sql.NullTime
	PeakPercent float64
}

// EventRepository provides CRUD operations for motion events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the motion event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a new motion event into the database.
func (r *EventRepository) Create(e *MotionEvent) error {
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO motion_events (id, session_id, method, started_at, peak_percent)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Method, e.StartedAt, e.PeakPercent,
	)
	return err
}

// Finish marks a motion event as ended and records the peak motion level
// observed during the event.
func (r *EventRepository) Finish(id string, peakPercent float64) error {
	result, err := r.db.Exec(
		`UPDATE motion_events SET ended_at = ?, peak_percent = ? WHERE id = ?`,
		time.Now(), peakPercent, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a motion event by its ID.
func (r *EventRepository) GetByID(id string) (*MotionEvent, error) {
	e := &MotionEvent{}

	err := r.db.QueryRow(
		`SELECT id, session_id, method, started_at, ended_at, peak_percent
		 FROM motion_events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.SessionID, &e.Method, &e.StartedAt, &e.EndedAt, &e.PeakPercent)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return e, nil
}

// ListBySession retrieves all motion events for a session, newest first.
func (r *EventRepository) ListBySession(sessionID string) ([]*MotionEvent, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, method, started_at, ended_at, peak_percent
		 FROM motion_events WHERE session_id = ? ORDER BY started_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent retrieves the most recent motion events across all sessions.
func (r *EventRepository) ListRecent(limit int) ([]*MotionEvent, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, method, started_at, ended_at, peak_percent
		 FROM motion_events ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*MotionEvent, error) {
	var events []*MotionEvent
	for rows.Next() {
		e := &MotionEvent{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Method, &e.StartedAt, &e.EndedAt, &e.PeakPercent); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
