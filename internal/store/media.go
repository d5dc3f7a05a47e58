package store

import (
	"database/sql"
	"time"
)

// Recording represents a video file written while motion was tracked.
type Recording struct {
	ID        string
	SessionID string
	Path      string
	StartedAt time.Time
	EndedAt   sql.NullTime
	Frames    int64
}

// Snapshot represents a single annotated frame saved on demand.
type Snapshot struct {
	ID            string
	SessionID     string
	Path          string
	Method        string
	MotionPercent float64
	CreatedAt     time.Time
}

// MediaRepository provides CRUD operations for recordings and snapshots.
type MediaRepository struct {
	db *sql.DB
}

// Media returns the media repository for this store.
func (s *Store) Media() *MediaRepository {
	return &MediaRepository{db: s.db}
}

// CreateRecording inserts a new recording row.
func (r *MediaRepository) CreateRecording(rec *Recording) error {
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO recordings (id, session_id, path, started_at, frames)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.Path, rec.StartedAt, rec.Frames,
	)
	return err
}

// FinishRecording marks a recording as ended with its final frame count.
func (r *MediaRepository) FinishRecording(id string, frames int64) error {
	result, err := r.db.Exec(
		`UPDATE recordings SET ended_at = ?, frames = ? WHERE id = ?`,
		time.Now(), frames, id,
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

// ListRecordings retrieves all recordings for a session, newest first.
func (r *MediaRepository) ListRecordings(sessionID string) ([]*Recording, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, path, started_at, ended_at, frames
		 FROM recordings WHERE session_id = ? ORDER BY started_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recordings []*Recording
	for rows.Next() {
		rec := &Recording{}
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Path, &rec.StartedAt, &rec.EndedAt, &rec.Frames); err != nil {
			return nil, err
		}
		recordings = append(recordings, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recordings, nil
}

// CreateSnapshot inserts a new snapshot row.
func (r *MediaRepository) CreateSnapshot(snap *Snapshot) error {
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO snapshots (id, session_id, path, method, motion_percent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.SessionID, snap.Path, snap.Method, snap.MotionPercent, snap.CreatedAt,
	)
	return err
}

// ListSnapshots retrieves all snapshots for a session, newest first.
func (r *MediaRepository) ListSnapshots(sessionID string) ([]*Snapshot, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, path, method, motion_percent, created_at
		 FROM snapshots WHERE session_id = ? ORDER BY created_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		snap := &Snapshot{}
		if err := rows.Scan(&snap.ID, &snap.SessionID, &snap.Path, &snap.Method, &snap.MotionPercent, &snap.CreatedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}
