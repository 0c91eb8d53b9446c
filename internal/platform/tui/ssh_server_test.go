package tui

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tileview/internal/core"
	"github.com/vovakirdan/tileview/internal/view"
)

func TestReleaseClosesSessionPipeline(t *testing.T) {
	srv := &SSHServer{logger: log.New(io.Discard)}
	pipe := testPipeline(t)
	srv.track("abc", pipe)

	if _, err := pipe.Render(core.BoardState{{X: 0, Y: 0, Value: 2}}); err != nil {
		t.Fatalf("Render() before release failed: %v", err)
	}

	srv.release("abc")
	if _, err := pipe.Render(nil); !errors.Is(err, view.ErrPresentation) {
		t.Errorf("Render after release = %v, want ErrPresentation", err)
	}
	if _, ok := srv.pipes.Load("abc"); ok {
		t.Error("released pipeline still tracked")
	}

	// Unknown and repeated IDs are ignored.
	srv.release("abc")
	srv.release("missing")
}
