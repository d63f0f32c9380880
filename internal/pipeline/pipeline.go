// Package pipeline runs a recording through chunked recognition, merging,
// and speaker alignment to produce one globally timed transcript.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"github.com/scribeflow/backend/internal/asr"
	"github.com/scribeflow/backend/internal/diarize"
	"github.com/scribeflow/backend/internal/ffmpeg"
	"github.com/scribeflow/backend/internal/gpu"
	"github.com/scribeflow/backend/internal/transcript"
)

// Recognizer is what the pipeline needs from the recognition service.
type Recognizer interface {
	Recognize(ctx context.Context, engine string, req asr.Request) (*asr.Result, error)
}

// Audio abstracts the ffmpeg operations the pipeline performs on media.
type Audio interface {
	Duration(ctx context.Context, path string) (float64, error)
	ExtractWAV(ctx context.Context, path string) (string, error)
	SliceWAV(ctx context.Context, wavPath string, start, duration float64) (string, error)
}

type ffmpegAudio struct{}

func (ffmpegAudio) Duration(ctx context.Context, path string) (float64, error) {
	return ffmpeg.DurationSeconds(ctx, path)
}

func (ffmpegAudio) ExtractWAV(ctx context.Context, path string) (string, error) {
	return ffmpeg.ExtractWAV(ctx, path)
}

func (ffmpegAudio) SliceWAV(ctx context.Context, wavPath string, start, duration float64) (string, error) {
	return ffmpeg.SliceWAV(ctx, wavPath, start, duration)
}

// Result is a finished transcription run.
type Result struct {
	Transcript *transcript.Transcript `json:"transcript"`
	Language   string                 `json:"language"`
	Duration   float64                `json:"duration"`
	Speakers   int                    `json:"speakers"`
	Warnings   []string               `json:"warnings,omitempty"`
}

// Pipeline wires the recognition service, the optional diarizer, and the
// audio toolchain into one run loop.
type Pipeline struct {
	recognizer Recognizer
	diarizer   diarize.Diarizer
	audio      Audio
}

// New creates a pipeline. diarizer may be nil when speaker separation is
// not configured; audio may be nil to use the ffmpeg binaries.
func New(recognizer Recognizer, diarizer diarize.Diarizer, audio Audio) *Pipeline {
	if audio == nil {
		audio = ffmpegAudio{}
	}
	return &Pipeline{recognizer: recognizer, diarizer: diarizer, audio: audio}
}

type chunkOutcome struct {
	segments []transcript.Segment
	language string
	err      error
}

type diarizeOutcome struct {
	turns []transcript.SpeakerTurn
	err   error
}

// Run transcribes one media file. progress receives values in [0, 1] and
// may be nil.
func (p *Pipeline) Run(ctx context.Context, mediaPath string, opts Options, progress func(float64)) (*Result, error) {
	if progress == nil {
		progress = func(float64) {}
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	duration, err := p.audio.Duration(ctx, mediaPath)
	if err != nil {
		return nil, fmt.Errorf("probe duration: %w", err)
	}
	progress(0.05)

	wavPath, err := p.audio.ExtractWAV(ctx, mediaPath)
	if err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}
	defer os.Remove(wavPath)
	progress(0.1)

	chunks, err := transcript.PlanChunks(duration, opts.ChunkLength, opts.Overlap)
	if err != nil {
		return nil, err
	}

	// Diarization runs against the whole recording while the chunk pool
	// works, and joins after the merge.
	var diarizeCh chan diarizeOutcome
	var warnings []string
	if opts.Diarize {
		if p.diarizer == nil {
			warnings = append(warnings, "diarization requested but no diarizer is configured, speakers not labeled")
		} else {
			diarizeCh = make(chan diarizeOutcome, 1)
			go func() {
				device := gpu.Probe().Accel
				turns, derr := p.diarizer.Diarize(ctx, wavPath, device)
				diarizeCh <- diarizeOutcome{turns: turns, err: derr}
			}()
		}
	}

	log.Printf("[pipeline] %s: %.1fs in %d chunks (engine=%s, diarize=%v)",
		mediaPath, duration, len(chunks), opts.Engine, opts.Diarize)

	outcomes := make([]chunkOutcome, len(chunks))
	sem := make(chan struct{}, opts.Concurrency)
	var wg sync.WaitGroup
	var completed atomic.Int32

	for i, chunk := range chunks {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, chunk transcript.Chunk) {
			defer wg.Done()
			defer func() { <-sem }()

			outcomes[i] = p.recognizeChunk(ctx, wavPath, chunk, opts)

			done := completed.Add(1)
			progress(0.1 + 0.7*float64(done)/float64(len(chunks)))
		}(i, chunk)
	}
	wg.Wait()

	language := ""
	results := make([][]transcript.Segment, len(chunks))
	for i, outcome := range outcomes {
		if outcome.err != nil {
			if opts.OnChunkFailure == FailureAbort {
				return nil, fmt.Errorf("chunk %d (%.1fs-%.1fs): %w",
					i, chunks[i].Start, chunks[i].End, outcome.err)
			}
			warnings = append(warnings, fmt.Sprintf("chunk %d (%.1fs-%.1fs) failed: %v",
				i, chunks[i].Start, chunks[i].End, outcome.err))
			continue
		}
		results[i] = outcome.segments
		if language == "" && outcome.language != "" && outcome.language != "auto" {
			language = outcome.language
		}
	}

	merged, err := transcript.Merge(chunks, results, opts.MergeEpsilon)
	if err != nil {
		if !errors.Is(err, transcript.ErrEmptyRecognition) {
			return nil, err
		}
		// The chunked pass heard nothing. One whole-file pass catches
		// media that defeats windowing before we give up.
		whole, wlang, werr := p.recognizeWhole(ctx, wavPath, duration, opts)
		if werr != nil || len(whole) == 0 {
			if werr != nil {
				log.Printf("[pipeline] whole-file fallback failed: %v", werr)
			}
			return nil, err
		}
		warnings = append(warnings, "chunked recognition returned nothing; kept a single whole-file pass")
		merged = &transcript.Transcript{Segments: whole}
		if language == "" {
			language = wlang
		}
	}
	progress(0.85)

	if diarizeCh != nil {
		outcome := <-diarizeCh
		if outcome.err != nil {
			warnings = append(warnings, fmt.Sprintf("diarization unavailable, speakers not labeled: %v", outcome.err))
			log.Printf("[pipeline] %s", warnings[len(warnings)-1])
		} else {
			turns := diarize.Compact(outcome.turns, opts.MinTurn, opts.TurnGap)
			merged = transcript.Align(merged, turns)
		}
	}
	progress(0.95)

	merged.Language = language
	result := &Result{
		Transcript: merged,
		Language:   language,
		Duration:   duration,
		Speakers:   transcript.SpeakerCount(merged),
		Warnings:   warnings,
	}

	log.Printf("[pipeline] %s: %d segments, %d speakers, %d warnings",
		mediaPath, len(merged.Segments), result.Speakers, len(warnings))
	progress(1.0)
	return result, nil
}

func (p *Pipeline) recognizeChunk(ctx context.Context, wavPath string, chunk transcript.Chunk, opts Options) chunkOutcome {
	slicePath, err := p.audio.SliceWAV(ctx, wavPath, chunk.Start, chunk.End-chunk.Start)
	if err != nil {
		return chunkOutcome{err: fmt.Errorf("slice audio: %w", err)}
	}
	defer os.Remove(slicePath)

	result, err := p.recognizer.Recognize(ctx, opts.Engine, asr.Request{
		AudioPath: slicePath,
		Language:  opts.Language,
		Model:     opts.Model,
		Duration:  chunk.End - chunk.Start,
	})
	if err != nil {
		return chunkOutcome{err: err}
	}
	return chunkOutcome{segments: result.Segments, language: result.Language}
}

// recognizeWhole runs the full extracted WAV through the engine in one
// request. Returned segment times are already absolute.
func (p *Pipeline) recognizeWhole(ctx context.Context, wavPath string, duration float64, opts Options) ([]transcript.Segment, string, error) {
	result, err := p.recognizer.Recognize(ctx, opts.Engine, asr.Request{
		AudioPath: wavPath,
		Language:  opts.Language,
		Model:     opts.Model,
		Duration:  duration,
	})
	if err != nil {
		return nil, "", err
	}
	return result.Segments, result.Language, nil
}
