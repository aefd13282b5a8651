package tape

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func newRuntime(t *testing.T, out *strings.Builder, opts ...Option) *Runtime {
	t.Helper()
	opts = append([]Option{WithMemoryStore(), WithOutput(out)}, opts...)
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRunSixteen(t *testing.T) {
	var out strings.Builder
	r := newRuntime(t, &out)

	res, err := r.Run(context.Background(), "++++[->++++<]>.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "16\n" {
		t.Errorf("expected '16\\n', got '%s'", out.String())
	}
	if len(res.Values) != 1 || res.Values[0] != 16 {
		t.Errorf("expected values [16], got %v", res.Values)
	}
	if res.TapeLen != 2 {
		t.Errorf("expected tape length 2, got %d", res.TapeLen)
	}
	if res.RunID != "" {
		t.Errorf("expected no run id without recording, got %q", res.RunID)
	}
}

func TestRunEmpty(t *testing.T) {
	var out strings.Builder
	r := newRuntime(t, &out)

	res, err := r.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 0 || len(res.Values) != 0 || res.Steps != 0 {
		t.Errorf("expected nothing, got output %q result %+v", out.String(), res)
	}
}

func TestParseErrorBeforeRun(t *testing.T) {
	var out strings.Builder
	r := newRuntime(t, &out, WithRecordRuns(true))

	_, err := r.Run(context.Background(), "+.\n[")
	if !errors.Is(err, ErrUnmatchedBracket) {
		t.Fatalf("expected ErrUnmatchedBracket, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output before a parse error, got '%s'", out.String())
	}
	if !strings.Contains(err.Error(), "2:1") {
		t.Errorf("expected position in error, got %v", err)
	}
	runs, _ := r.Runs("", 0)
	if len(runs) != 0 {
		t.Errorf("expected no recorded runs for a parse error, got %d", len(runs))
	}
}

func TestUnderflowReturnsPartialResult(t *testing.T) {
	var out strings.Builder
	r := newRuntime(t, &out)

	res, err := r.Run(context.Background(), "+.<")
	if !errors.Is(err, ErrPointerUnderflow) {
		t.Fatalf("expected ErrPointerUnderflow, got %v", err)
	}
	if res == nil || len(res.Values) != 1 || res.Values[0] != 1 {
		t.Errorf("expected partial result with [1], got %+v", res)
	}
}

func TestStepLimit(t *testing.T) {
	var out strings.Builder
	r := newRuntime(t, &out, WithStepLimit(50))

	_, err := r.Run(context.Background(), "+[]")
	if !errors.Is(err, ErrStepLimit) {
		t.Fatalf("expected ErrStepLimit, got %v", err)
	}
}

func TestRunNamedPrelude(t *testing.T) {
	var out strings.Builder
	r := newRuntime(t, &out)

	if _, err := r.RunNamed(context.Background(), "countdown"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "5\n4\n3\n2\n1\n" {
		t.Errorf("unexpected output %q", out.String())
	}

	_, err := r.RunNamed(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNoStdlib(t *testing.T) {
	var out strings.Builder
	r := newRuntime(t, &out, WithNoStdlib())

	if _, err := r.RunNamed(context.Background(), "sixteen"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound without stdlib, got %v", err)
	}
	names, _ := r.Programs()
	if len(names) != 0 {
		t.Errorf("expected no programs, got %v", names)
	}
}

func TestSaveShadowsPrelude(t *testing.T) {
	var out strings.Builder
	r := newRuntime(t, &out)

	if err := r.Save("sixteen", "+++."); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := r.RunNamed(context.Background(), "sixteen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "3\n" {
		t.Errorf("expected stored program to win, got %q", out.String())
	}

	names, err := r.Programs()
	if err != nil {
		t.Fatalf("Programs failed: %v", err)
	}
	if strings.Join(names, ",") != "countdown,hello,sixteen" {
		t.Errorf("unexpected programs %v", names)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	var out strings.Builder
	r := newRuntime(t, &out)

	if err := r.Save("bad", "]"); !errors.Is(err, ErrUnmatchedBracket) {
		t.Errorf("expected ErrUnmatchedBracket, got %v", err)
	}
	if err := r.Save("", "+"); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := r.RunNamed(context.Background(), "bad"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected invalid program not to be stored, got %v", err)
	}
}

func TestRecordRunsSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tape.db")
	var out strings.Builder

	r, err := New(WithSQLiteStore(path), WithOutput(&out), WithRecordRuns(true))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := r.Save("two", "++."); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	res, err := r.RunNamed(context.Background(), "two")
	if err != nil {
		t.Fatalf("RunNamed failed: %v", err)
	}
	if res.RunID == "" {
		t.Error("expected a run id")
	}
	r.Close()

	r2, err := New(WithSQLiteStore(path), WithOutput(&out))
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer r2.Close()

	runs, err := r2.Runs("two", 0)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != res.RunID || string(runs[0].Output) != string([]byte{2}) {
		t.Errorf("unexpected runs %+v", runs)
	}
	versions, _ := r2.History("two", 0)
	if len(versions) != 1 || versions[0].Source != "++." {
		t.Errorf("unexpected history %+v", versions)
	}
}

func TestRecordFailedRun(t *testing.T) {
	var out strings.Builder
	r := newRuntime(t, &out, WithRecordRuns(true))

	r.Run(context.Background(), "<")
	runs, _ := r.Runs("", 0)
	if len(runs) != 1 || !strings.Contains(runs[0].Err, "underflow") {
		t.Errorf("expected a recorded failure, got %+v", runs)
	}
}

func TestInterpret(t *testing.T) {
	var out strings.Builder
	if err := Interpret("++++[->++++<]>.", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "16\n" {
		t.Errorf("expected '16\\n', got '%s'", out.String())
	}
	if err := Interpret("]", &out); !errors.Is(err, ErrUnmatchedBracket) {
		t.Errorf("expected ErrUnmatchedBracket, got %v", err)
	}
}
