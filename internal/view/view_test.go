package view

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tileview/internal/core"
)

// call is one recorded collaborator interaction.
type call struct {
	op    string
	color core.RGB
	from  core.Point
	to    core.Point
	rect  core.Rect
	label string
}

func (c call) String() string {
	switch c.op {
	case "color":
		return fmt.Sprintf("color(%v)", c.color)
	case "line":
		return fmt.Sprintf("line(%v,%v)", c.from, c.to)
	case "fill", "blit":
		return fmt.Sprintf("%s(%q %+v)", c.op, c.label, c.rect)
	default:
		return c.op
	}
}

type fakeCanvas struct {
	calls  []call
	failOn string
	closed bool
}

func (f *fakeCanvas) fail(op string) error {
	if f.failOn == op {
		return fmt.Errorf("fake %s failure", op)
	}
	return nil
}

func (f *fakeCanvas) SetDrawColor(c core.RGB) {
	f.calls = append(f.calls, call{op: "color", color: c})
}

func (f *fakeCanvas) Clear() error {
	f.calls = append(f.calls, call{op: "clear"})
	return f.fail("clear")
}

func (f *fakeCanvas) DrawLine(from, to core.Point) error {
	f.calls = append(f.calls, call{op: "line", from: from, to: to})
	return f.fail("line")
}

func (f *fakeCanvas) FillRect(r core.Rect) error {
	f.calls = append(f.calls, call{op: "fill", rect: r})
	return f.fail("fill")
}

func (f *fakeCanvas) Blit(img image.Image, dst core.Rect) error {
	c := call{op: "blit", rect: dst}
	if l, ok := img.(labelImage); ok {
		c.label = l.text
	}
	f.calls = append(f.calls, c)
	return f.fail("blit")
}

func (f *fakeCanvas) Present() error {
	f.calls = append(f.calls, call{op: "present"})
	return f.fail("present")
}

func (f *fakeCanvas) Close() error {
	f.closed = true
	return nil
}

func (f *fakeCanvas) ops() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.op
	}
	return out
}

// labelImage lets the fake canvas see which text a blitted image carries.
type labelImage struct {
	*image.NRGBA
	text string
	fg   core.RGB
}

type renderCall struct {
	text string
	fg   core.RGB
}

type fakeText struct {
	rendered []renderCall
	failFor  string
	closed   bool
}

func (f *fakeText) Render(text string, fg core.RGB) (image.Image, error) {
	f.rendered = append(f.rendered, renderCall{text: text, fg: fg})
	if text == f.failFor {
		return nil, errors.New("glyph missing")
	}
	return labelImage{NRGBA: image.NewNRGBA(image.Rect(0, 0, 8, 8)), text: text, fg: fg}, nil
}

func (f *fakeText) Close() error {
	f.closed = true
	return nil
}

func testConfig() Config {
	return Config{
		Background:   core.Gray,
		Line:         core.Black,
		GridSize:     4,
		WindowPixels: 800,
	}
}

func newTestView(t *testing.T, cfg Config, opts ...Option) (*BoardView, *fakeCanvas, *fakeText) {
	t.Helper()
	canvas := &fakeCanvas{}
	text := &fakeText{}
	v, err := New(canvas, text, cfg, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return v, canvas, text
}

func TestDrawSingleTileSequence(t *testing.T) {
	v, canvas, text := newTestView(t, testConfig())

	v.Update(core.BoardState{{X: 0, Y: 0, Value: 2}})
	if err := v.Draw(); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	tileRect := core.NewRect(0, 0, 200, 200)
	expected := []call{
		{op: "color", color: core.Gray},
		{op: "clear"},
		{op: "color", color: core.Black},
		{op: "line", from: core.Pt(0, 200), to: core.Pt(800, 200)},
		{op: "line", from: core.Pt(200, 0), to: core.Pt(200, 800)},
		{op: "line", from: core.Pt(0, 400), to: core.Pt(800, 400)},
		{op: "line", from: core.Pt(400, 0), to: core.Pt(400, 800)},
		{op: "line", from: core.Pt(0, 600), to: core.Pt(800, 600)},
		{op: "line", from: core.Pt(600, 0), to: core.Pt(600, 800)},
		{op: "color", color: MapValueToColor(2)},
		{op: "fill", rect: tileRect},
		{op: "blit", rect: tileRect, label: "2"},
		{op: "present"},
	}

	if len(canvas.calls) != len(expected) {
		t.Fatalf("got %d canvas calls, want %d:\n%v", len(canvas.calls), len(expected), canvas.calls)
	}
	for i, want := range expected {
		if canvas.calls[i] != want {
			t.Errorf("call %d = %v, want %v", i, canvas.calls[i], want)
		}
	}

	if len(text.rendered) != 1 || text.rendered[0] != (renderCall{text: "2", fg: core.Black}) {
		t.Errorf("text renders = %+v, want one black \"2\"", text.rendered)
	}
}

func TestDrawTileRectangleMapping(t *testing.T) {
	v, canvas, _ := newTestView(t, testConfig())

	v.Update(core.BoardState{{X: 1, Y: 2, Value: 8}})
	if err := v.Draw(); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	var fills []core.Rect
	for _, c := range canvas.calls {
		if c.op == "fill" {
			fills = append(fills, c.rect)
		}
	}
	if len(fills) != 1 || fills[0] != core.NewRect(200, 400, 200, 200) {
		t.Errorf("fills = %+v, want [{200 400 200 200}]", fills)
	}
}

func TestUpdateReplacesState(t *testing.T) {
	v, canvas, text := newTestView(t, testConfig())

	v.Update(core.BoardState{{X: 0, Y: 0, Value: 2}, {X: 3, Y: 3, Value: 1024}})
	v.Update(core.BoardState{{X: 1, Y: 1, Value: 16}})
	if err := v.Draw(); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	if len(text.rendered) != 1 || text.rendered[0].text != "16" {
		t.Errorf("rendered labels = %+v, want only \"16\"", text.rendered)
	}
	for _, c := range canvas.calls {
		if c.op == "fill" && c.rect != core.NewRect(200, 200, 200, 200) {
			t.Errorf("unexpected fill %+v from an earlier state", c.rect)
		}
	}
}

func TestUpdateCopiesCallerSlice(t *testing.T) {
	v, _, _ := newTestView(t, testConfig())

	state := core.BoardState{{X: 0, Y: 0, Value: 2}}
	v.Update(state)
	state[0].Value = 4

	if got := v.State(); got[0].Value != 2 {
		t.Errorf("stored value = %d, want 2 after caller mutation", got[0].Value)
	}
}

func TestDrawEmptyBoard(t *testing.T) {
	v, canvas, text := newTestView(t, testConfig())

	if err := v.Draw(); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}
	ops := strings.Join(canvas.ops(), ",")
	want := "color,clear,color,line,line,line,line,line,line,present"
	if ops != want {
		t.Errorf("ops = %s, want %s", ops, want)
	}
	if len(text.rendered) != 0 {
		t.Errorf("text renderer called %d times for an empty board", len(text.rendered))
	}
}

func TestDrawSingleCellGrid(t *testing.T) {
	cfg := testConfig()
	cfg.GridSize = 1
	v, canvas, _ := newTestView(t, cfg)

	v.Update(core.BoardState{{X: 0, Y: 0, Value: 2048}})
	if err := v.Draw(); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}
	for _, c := range canvas.calls {
		if c.op == "line" {
			t.Fatalf("grid of size 1 should draw no lines, got %v", c)
		}
		if c.op == "blit" && c.rect != core.NewRect(0, 0, 800, 800) {
			t.Errorf("blit rect = %+v, want the whole surface", c.rect)
		}
	}
}

func TestDrawTilesInSnapshotOrder(t *testing.T) {
	v, _, text := newTestView(t, testConfig())

	v.Update(core.BoardState{
		{X: 3, Y: 0, Value: 4},
		{X: 0, Y: 0, Value: 2},
		{X: 2, Y: 1, Value: 0},
	})
	if err := v.Draw(); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	var labels []string
	for _, r := range text.rendered {
		labels = append(labels, r.text)
	}
	if got := strings.Join(labels, ","); got != "4,2,0" {
		t.Errorf("label order = %s, want 4,2,0", got)
	}
}

func TestDrawStrictLabelFailureAborts(t *testing.T) {
	v, canvas, text := newTestView(t, testConfig())
	text.failFor = "4"

	v.Update(core.BoardState{{X: 0, Y: 0, Value: 2}, {X: 1, Y: 0, Value: 4}, {X: 2, Y: 0, Value: 8}})
	err := v.Draw()
	if !errors.Is(err, ErrResource) {
		t.Fatalf("Draw() error = %v, want ErrResource", err)
	}

	ops := canvas.ops()
	if ops[len(ops)-1] == "present" {
		t.Error("a failed draw must not present")
	}
	for _, r := range text.rendered {
		if r.text == "8" {
			t.Error("tiles after the failing label should not be rendered")
		}
	}
}

func TestDrawBestEffortLabelFailureContinues(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig()
	cfg.Labels = LabelBestEffort
	v, canvas, text := newTestView(t, cfg, WithLogger(log.New(&logs)))
	text.failFor = "4"

	v.Update(core.BoardState{{X: 0, Y: 0, Value: 2}, {X: 1, Y: 0, Value: 4}, {X: 2, Y: 0, Value: 8}})
	if err := v.Draw(); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	var fills, blits int
	for _, c := range canvas.calls {
		switch c.op {
		case "fill":
			fills++
		case "blit":
			blits++
			if c.label == "4" {
				t.Error("failed label should not be blitted")
			}
		}
	}
	if fills != 3 || blits != 2 {
		t.Errorf("fills = %d, blits = %d, want 3 and 2", fills, blits)
	}
	if ops := canvas.ops(); ops[len(ops)-1] != "present" {
		t.Error("best effort draw should still present")
	}
	if !strings.Contains(logs.String(), "skipping tile label") {
		t.Errorf("expected a warning in the log, got %q", logs.String())
	}
}

func TestDrawCanvasFailures(t *testing.T) {
	for _, op := range []string{"clear", "line", "fill", "blit", "present"} {
		t.Run(op, func(t *testing.T) {
			v, canvas, _ := newTestView(t, testConfig())
			canvas.failOn = op

			v.Update(core.BoardState{{X: 0, Y: 0, Value: 2}})
			err := v.Draw()
			if !errors.Is(err, ErrPresentation) {
				t.Fatalf("Draw() error = %v, want ErrPresentation", err)
			}
			if errors.Is(err, ErrResource) {
				t.Error("canvas failures should not be reported as resource errors")
			}
		})
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		canvas Canvas
		text   TextRenderer
		cfg    Config
	}{
		{"nil canvas", nil, &fakeText{}, testConfig()},
		{"nil text", &fakeCanvas{}, nil, testConfig()},
		{"zero grid", &fakeCanvas{}, &fakeText{}, Config{GridSize: 0, WindowPixels: 800}},
		{"zero window", &fakeCanvas{}, &fakeText{}, Config{GridSize: 4, WindowPixels: 0}},
		{"bad policy", &fakeCanvas{}, &fakeText{}, Config{GridSize: 4, WindowPixels: 800, Labels: LabelPolicy(7)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := New(tc.canvas, tc.text, tc.cfg)
			if !errors.Is(err, ErrConstruction) {
				t.Errorf("New() error = %v, want ErrConstruction", err)
			}
			if v != nil {
				t.Error("New() should not return a partially built view")
			}
		})
	}
}

func TestCloseReleasesResources(t *testing.T) {
	v, canvas, text := newTestView(t, testConfig())

	if err := v.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if !canvas.closed || !text.closed {
		t.Errorf("canvas closed = %v, text closed = %v, want both", canvas.closed, text.closed)
	}
	if err := v.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
	if err := v.Draw(); !errors.Is(err, ErrPresentation) {
		t.Errorf("Draw() after Close = %v, want ErrPresentation", err)
	}
}

func TestParseLabelPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    LabelPolicy
		wantErr bool
	}{
		{"", LabelStrict, false},
		{"strict", LabelStrict, false},
		{"best_effort", LabelBestEffort, false},
		{"best-effort", LabelBestEffort, false},
		{"lenient", LabelStrict, true},
	}
	for _, tc := range tests {
		got, err := ParseLabelPolicy(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseLabelPolicy(%q) = %v, %v; want %v, err %v", tc.in, got, err, tc.want, tc.wantErr)
		}
	}
	if LabelBestEffort.String() != "best_effort" {
		t.Errorf("String() = %q", LabelBestEffort.String())
	}
}
