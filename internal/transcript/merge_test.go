package transcript

import (
	"errors"
	"math"
	"testing"
)

func TestMergeRebasesChunkTimes(t *testing.T) {
	chunks := []Chunk{{Index: 0, Start: 0, End: 60}, {Index: 1, Start: 55, End: 115}}
	results := [][]Segment{
		{{Start: 1.0, End: 3.5, Text: "first"}},
		{{Start: 10.0, End: 12.0, Text: "second"}},
	}

	got, err := Merge(chunks, results, 0)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := []Segment{
		{Start: 1.0, End: 3.5, Text: "first"},
		{Start: 65.0, End: 67.0, Text: "second"},
	}
	if len(got.Segments) != len(want) {
		t.Fatalf("got %d segments, want %d", len(got.Segments), len(want))
	}
	for i := range want {
		if got.Segments[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, got.Segments[i], want[i])
		}
	}
}

func TestMergeDropsOverlapDuplicates(t *testing.T) {
	chunks := []Chunk{{Index: 0, Start: 0, End: 60}, {Index: 1, Start: 55, End: 115}}
	results := [][]Segment{
		{{Start: 56.0, End: 58.0, Text: "see you tomorrow"}},
		{
			// Same utterance heard again at the head of the next window,
			// shifted by 0.2s. Falls inside the shared overlap region.
			{Start: 1.2, End: 3.0, Text: "see you tomorrow"},
			{Start: 6.0, End: 8.0, Text: "brand new material"},
		},
	}

	got, err := Merge(chunks, results, 0)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(got.Segments) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(got.Segments), got.Segments)
	}
	// First-seen wins: the earlier chunk's timing is the one kept.
	if got.Segments[0].Start != 56.0 || got.Segments[0].Text != "see you tomorrow" {
		t.Errorf("kept segment = %+v, want the first chunk's copy at 56.0", got.Segments[0])
	}
	if got.Segments[1].Text != "brand new material" || got.Segments[1].Start != 61.0 {
		t.Errorf("second segment = %+v, want rebased non-duplicate at 61.0", got.Segments[1])
	}
}

func TestMergeKeepsNearMissesInOverlap(t *testing.T) {
	chunks := []Chunk{{Index: 0, Start: 0, End: 60}, {Index: 1, Start: 55, End: 115}}

	tests := []struct {
		name    string
		second  Segment // chunk-local segment inside the overlap region
		epsilon float64
	}{
		{
			name:   "same text but start difference beyond epsilon",
			second: Segment{Start: 2.0, End: 4.0, Text: "see you tomorrow"}, // global 57.0 vs 56.0
			epsilon: 0.5,
		},
		{
			name:   "same start but different text",
			second: Segment{Start: 1.0, End: 3.0, Text: "completely different"},
			epsilon: 0.5,
		},
		{
			name:   "tight epsilon keeps a 0.2s shift",
			second: Segment{Start: 1.2, End: 3.0, Text: "see you tomorrow"},
			epsilon: 0.05,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := [][]Segment{
				{{Start: 56.0, End: 58.0, Text: "see you tomorrow"}},
				{tt.second},
			}
			got, err := Merge(chunks, results, tt.epsilon)
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}
			if len(got.Segments) != 2 {
				t.Fatalf("got %d segments, want both kept: %+v", len(got.Segments), got.Segments)
			}
		})
	}
}

func TestMergeOrdersByStartThenChunkIndex(t *testing.T) {
	chunks := []Chunk{{Index: 0, Start: 0, End: 60}, {Index: 1, Start: 55, End: 115}}
	results := [][]Segment{
		{{Start: 57.0, End: 59.5, Text: "from the first window"}},
		{{Start: 2.0, End: 4.5, Text: "from the second window"}}, // global start also 57.0
	}

	got, err := Merge(chunks, results, 0)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(got.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(got.Segments))
	}
	if got.Segments[0].Text != "from the first window" {
		t.Errorf("tie at t=57.0 broke toward %q, want the earlier chunk first", got.Segments[0].Text)
	}
}

func TestMergeEmptyOutput(t *testing.T) {
	chunks := []Chunk{{Index: 0, Start: 0, End: 30}, {Index: 1, Start: 29.7, End: 59.7}}

	_, err := Merge(chunks, [][]Segment{{}, nil}, 0)
	if !errors.Is(err, ErrEmptyRecognition) {
		t.Fatalf("all-empty merge: err = %v, want ErrEmptyRecognition", err)
	}

	// A single productive chunk is enough for a valid result.
	got, err := Merge(chunks, [][]Segment{{}, {{Start: 0.5, End: 1.5, Text: "only one"}}}, 0)
	if err != nil {
		t.Fatalf("Merge with one empty chunk: %v", err)
	}
	if len(got.Segments) != 1 || math.Abs(got.Segments[0].Start-30.2) > 1e-9 {
		t.Errorf("got %+v, want single segment rebased to 30.2", got.Segments)
	}
}

func TestMergeResultCountMismatch(t *testing.T) {
	chunks := []Chunk{{Index: 0, Start: 0, End: 30}}
	if _, err := Merge(chunks, nil, 0); err == nil {
		t.Fatal("Merge with missing results succeeded, want error")
	}
}

func TestMergeIdempotent(t *testing.T) {
	original := []Segment{
		{Start: 0.0, End: 2.5, Text: "welcome back everyone"},
		{Start: 2.5, End: 5.0, Text: "today we talk about tides"},
		{Start: 6.2, End: 9.9, Text: "the moon does most of the work"},
		{Start: 9.9, End: 14.0, Text: "the sun helps a little"},
	}

	// Re-chunk the merged transcript so every segment is its own window.
	chunks := make([]Chunk, len(original))
	results := make([][]Segment, len(original))
	for i, s := range original {
		chunks[i] = Chunk{Index: i, Start: s.Start, End: s.End}
		results[i] = []Segment{{Start: 0, End: s.End - s.Start, Text: s.Text}}
	}

	got, err := Merge(chunks, results, 0)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(got.Segments) != len(original) {
		t.Fatalf("got %d segments, want %d", len(got.Segments), len(original))
	}
	for i, s := range original {
		g := got.Segments[i]
		if g.Text != s.Text || math.Abs(g.Start-s.Start) > 1e-9 || math.Abs(g.End-s.End) > 1e-9 {
			t.Errorf("segment %d = %+v, want %+v", i, g, s)
		}
	}
}
