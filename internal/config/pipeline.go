package config

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/scribeflow/backend/internal/pipeline"
	"github.com/scribeflow/backend/internal/transcript"
)

// PipelineDefaults loads default transcription options from a toml file.
// Requests can still override any field. A missing file just means the
// built-in defaults.
func PipelineDefaults(path string) (pipeline.Options, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetDefault("pipeline.engine", "openai")
	v.SetDefault("pipeline.model", "")
	v.SetDefault("pipeline.language", "auto")
	v.SetDefault("pipeline.chunk_length", transcript.DefaultChunkLength)
	v.SetDefault("pipeline.overlap", transcript.DefaultOverlap)
	v.SetDefault("pipeline.merge_epsilon", transcript.DefaultMergeEpsilon)
	v.SetDefault("pipeline.concurrency", pipeline.DefaultConcurrency)
	v.SetDefault("pipeline.diarize", false)
	v.SetDefault("pipeline.on_chunk_failure", pipeline.FailureDegrade)

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("[config] no %s, using built-in pipeline defaults", path)
		} else {
			return pipeline.Options{}, err
		}
	}

	return pipeline.Options{
		Engine:         v.GetString("pipeline.engine"),
		Model:          v.GetString("pipeline.model"),
		Language:       v.GetString("pipeline.language"),
		ChunkLength:    v.GetFloat64("pipeline.chunk_length"),
		Overlap:        v.GetFloat64("pipeline.overlap"),
		MergeEpsilon:   v.GetFloat64("pipeline.merge_epsilon"),
		Concurrency:    v.GetInt("pipeline.concurrency"),
		Diarize:        v.GetBool("pipeline.diarize"),
		MinTurn:        v.GetFloat64("pipeline.min_turn"),
		TurnGap:        v.GetFloat64("pipeline.turn_gap"),
		OnChunkFailure: v.GetString("pipeline.on_chunk_failure"),
	}, nil
}
