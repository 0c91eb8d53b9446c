package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tileview/internal/core"
)

// ErrSessionNotFound is returned when a session ID has no row.
var ErrSessionNotFound = errors.New("storage: session not found")

// Session is one recorded run of a board source.
type Session struct {
	ID         int64
	GameID     string
	GridSize   int
	Origin     string // "local", "ssh:<user>", ...
	FrameCount int
	FinalScore int
	CreatedAt  time.Time
}

// Frame is one recorded board snapshot.
type Frame struct {
	Seq   int
	Score int
	State core.BoardState
}

// StartSession creates a session row and returns its ID.
func (s *Store) StartSession(gameID string, gridSize int, origin string) (int64, error) {
	if origin == "" {
		origin = "local"
	}
	result, err := s.db.Exec(
		"INSERT INTO sessions (game_id, grid_size, origin) VALUES (?, ?, ?)",
		gameID, gridSize, origin,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot start session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get session ID: %w", err)
	}
	return id, nil
}

// RecordFrame stores one board snapshot. The frame and its tiles are written
// in a single transaction, so a reader never sees a partial board.
func (s *Store) RecordFrame(sessionID int64, seq int, score int, state core.BoardState) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin frame: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	result, err := tx.Exec(
		"INSERT INTO frames (session_id, seq, score) VALUES (?, ?, ?)",
		sessionID, seq, score,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot insert frame %d: %w", seq, err)
	}
	frameID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("storage: cannot get frame ID: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO tiles (frame_id, ord, x, y, value) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("storage: cannot prepare tile insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range state {
		if _, err = stmt.Exec(frameID, i, t.X, t.Y, int64(t.Value)); err != nil {
			return fmt.Errorf("storage: cannot insert tile %d of frame %d: %w", i, seq, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit frame %d: %w", seq, err)
	}
	return nil
}

// Session returns a single session with its frame count and final score.
func (s *Store) Session(id int64) (*Session, error) {
	row := s.db.QueryRow(sessionQuery+" WHERE s.id = ? GROUP BY s.id", id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session %d: %w", id, err)
	}
	return sess, nil
}

// Sessions lists the most recent sessions first.
func (s *Store) Sessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(sessionQuery+" GROUP BY s.id ORDER BY s.id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return sessions, nil
}

const sessionQuery = `SELECT s.id, s.game_id, s.grid_size, s.origin, s.created_at,
		COUNT(f.id), COALESCE(MAX(f.score), 0)
	 FROM sessions s
	 LEFT JOIN frames f ON f.session_id = s.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var sess Session
	var createdAt any
	if err := row.Scan(&sess.ID, &sess.GameID, &sess.GridSize, &sess.Origin, &createdAt,
		&sess.FrameCount, &sess.FinalScore); err != nil {
		return nil, err
	}
	sess.CreatedAt = parseTimestamp(createdAt)
	return &sess, nil
}

// Frames returns every frame of a session in recording order.
func (s *Store) Frames(sessionID int64) ([]Frame, error) {
	rows, err := s.db.Query(
		`SELECT f.seq, f.score, t.x, t.y, t.value
		 FROM frames f
		 LEFT JOIN tiles t ON t.frame_id = f.id
		 WHERE f.session_id = ?
		 ORDER BY f.seq, t.ord`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query frames: %w", err)
	}
	defer rows.Close()

	var frames []Frame
	for rows.Next() {
		var seq, score int
		var x, y, value sql.NullInt64
		if err := rows.Scan(&seq, &score, &x, &y, &value); err != nil {
			return nil, fmt.Errorf("storage: cannot scan frame: %w", err)
		}
		if len(frames) == 0 || frames[len(frames)-1].Seq != seq {
			frames = append(frames, Frame{Seq: seq, Score: score})
		}
		if value.Valid {
			f := &frames[len(frames)-1]
			f.State = append(f.State, core.Tile{X: int(x.Int64), Y: int(y.Int64), Value: uint32(value.Int64)})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return frames, nil
}

// DeleteSession removes a session and its frames.
func (s *Store) DeleteSession(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tiles WHERE frame_id IN (SELECT id FROM frames WHERE session_id = ?)", id); err != nil {
		return fmt.Errorf("storage: cannot delete tiles: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM frames WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete frames: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete session: %w", err)
	}
	return tx.Commit()
}
