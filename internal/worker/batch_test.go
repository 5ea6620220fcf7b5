package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tonalspace/cadenza/internal/model"
)

// mockParser fails on inputs containing "bad" and succeeds otherwise.
type mockParser struct{}

func (mockParser) ParseSequence(ctx context.Context, input string) (*model.Report, error) {
	if strings.Contains(input, "bad") {
		return nil, errors.New("unparseable")
	}
	return model.NewReport(input, strings.Fields(input), "test"), nil
}

func TestProcessSequencesPreservesOrder(t *testing.T) {
	sequences := []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8"}
	processor := NewBatchProcessor(mockParser{}, 4, nil)

	results := processor.ProcessSequences(context.Background(), sequences)
	if len(results) != len(sequences) {
		t.Fatalf("got %d results, want %d", len(results), len(sequences))
	}
	for i, r := range results {
		if r.Line != i+1 {
			t.Errorf("result %d has line %d, want %d", i, r.Line, i+1)
		}
		if r.Input != sequences[i] {
			t.Errorf("result %d has input %q, want %q", i, r.Input, sequences[i])
		}
		if r.GetError() != nil {
			t.Errorf("result %d errored: %v", i, r.GetError())
		}
	}
}

func TestProcessSequencesCollectsErrors(t *testing.T) {
	processor := NewBatchProcessor(mockParser{}, 2, nil)
	results := processor.ProcessSequences(context.Background(), []string{"ok", "bad", "ok"})

	if results[0].Error != nil || results[2].Error != nil {
		t.Error("good sequences errored")
	}
	if results[1].Error == nil {
		t.Error("bad sequence did not error")
	}
	if results[1].Report != nil {
		t.Error("failed sequence carries a report")
	}
}

func TestProcessSequencesEmpty(t *testing.T) {
	processor := NewBatchProcessor(mockParser{}, 2, nil)
	results := processor.ProcessSequences(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("got %d results for empty input, want 0", len(results))
	}
}

func TestProcessSequencesWithLimiter(t *testing.T) {
	processor := NewBatchProcessor(mockParser{}, 2, NewLimiter(1000, 10))
	results := processor.ProcessSequences(context.Background(), []string{"a", "b", "c"})
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for _, r := range results {
		if r.Error != nil {
			t.Errorf("limited job errored: %v", r.Error)
		}
	}
}

// blockingParser waits for its context to end before returning.
type blockingParser struct {
	cancelled atomic.Int32
}

func (p *blockingParser) ParseSequence(ctx context.Context, input string) (*model.Report, error) {
	<-ctx.Done()
	p.cancelled.Add(1)
	return nil, ctx.Err()
}

func TestProcessSequencesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	parser := &blockingParser{}
	processor := NewBatchProcessor(parser, 2, nil)
	results := processor.ProcessSequences(ctx, []string{"s1", "s2", "s3"})

	if parser.cancelled.Load() == 0 {
		t.Fatal("no parse observed the batch cancellation")
	}
	for _, r := range results {
		if !errors.Is(r.Error, context.Canceled) {
			t.Errorf("line %d: error %v, want context.Canceled", r.Line, r.Error)
		}
	}
}

func TestReadSequences(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tunes.txt")
	content := `# a comment
Dm7 G7 Cmaj7

Dm7 G7 Cmaj7
  Am7 D7 Gmaj7
# trailing comment
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sequences, err := ReadSequences(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Dm7 G7 Cmaj7", "Dm7 G7 Cmaj7", "Am7 D7 Gmaj7"}
	if len(sequences) != len(want) {
		t.Fatalf("got %d sequences, want %d (duplicates kept)", len(sequences), len(want))
	}
	for i := range want {
		if sequences[i] != want[i] {
			t.Errorf("sequence %d = %q, want %q", i, sequences[i], want[i])
		}
	}
}

func TestReadSequencesMissingFile(t *testing.T) {
	if _, err := ReadSequences("/nonexistent/tunes.txt"); err == nil {
		t.Error("missing file did not error")
	}
}
