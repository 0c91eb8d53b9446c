package registry

import (
	"testing"

	"github.com/vovakirdan/tileview/internal/core"
)

type stubGame struct {
	id    string
	board core.BoardState
}

func (s *stubGame) ID() string                           { return s.id }
func (s *stubGame) Title() string                        { return "Stub " + s.id }
func (s *stubGame) Reset(core.RuntimeConfig)             {}
func (s *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (s *stubGame) Board() core.BoardState               { return s.board }
func (s *stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("stub_a", func() Game { return &stubGame{id: "stub_a"} })
	Register("stub_b", func() Game { return &stubGame{id: "stub_b"} })

	if !Exists("stub_a") {
		t.Fatal("stub_a should exist")
	}
	g, err := Create("stub_b")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.ID() != "stub_b" {
		t.Errorf("ID() = %q", g.ID())
	}

	var ids []string
	for _, info := range List() {
		if info.ID == "stub_a" || info.ID == "stub_b" {
			ids = append(ids, info.ID+"="+info.Title)
		}
	}
	if len(ids) != 2 || ids[0] != "stub_a=Stub stub_a" || ids[1] != "stub_b=Stub stub_b" {
		t.Errorf("List() stubs = %v", ids)
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("does_not_exist"); err == nil {
		t.Error("Create of an unknown ID should fail")
	}
	if Exists("does_not_exist") {
		t.Error("Exists should be false")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub_dup", func() Game { return &stubGame{id: "stub_dup"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("stub_dup", func() Game { return &stubGame{id: "stub_dup"} })
}
