package storage

import (
	"github.com/vovakirdan/tileview/internal/core"
)

// Recorder follows one game from start to game over: it writes changed
// boards into a session and saves the final score once.
// A nil store makes every method a no-op. A nil *Recorder is also valid.
type Recorder struct {
	store   *Store
	gameID  string
	session int64
	seq     int
	saved   bool
}

// NewRecorder prepares a recorder for gameID. When record is set a session
// is opened right away. The returned recorder is always usable; a failed
// session start only disables frame recording.
func NewRecorder(store *Store, gameID string, gridSize int, origin string, record bool) (*Recorder, error) {
	r := &Recorder{store: store, gameID: gameID}
	if store == nil || !record {
		return r, nil
	}
	id, err := store.StartSession(gameID, gridSize, origin)
	if err != nil {
		return r, err
	}
	r.session = id
	return r, nil
}

// Session returns the open session ID, or 0 when not recording.
func (r *Recorder) Session() int64 {
	if r == nil {
		return 0
	}
	return r.session
}

// Frames returns how many frames were written.
func (r *Recorder) Frames() int {
	if r == nil {
		return 0
	}
	return r.seq
}

// Frame appends a board snapshot to the session.
func (r *Recorder) Frame(score int, state core.BoardState) error {
	if r == nil || r.session == 0 {
		return nil
	}
	if err := r.store.RecordFrame(r.session, r.seq, score, state); err != nil {
		return err
	}
	r.seq++
	return nil
}

// Finish saves score as a high score entry. Only the first call counts;
// zero scores are not saved.
func (r *Recorder) Finish(score int) error {
	if r == nil || r.saved {
		return nil
	}
	r.saved = true
	if r.store == nil || score <= 0 {
		return nil
	}
	_, err := r.store.SaveScore(r.gameID, score)
	return err
}

// Finished reports whether Finish has been called.
func (r *Recorder) Finished() bool {
	return r != nil && r.saved
}
