// Package recorder captures and replays heart-rate sample streams as
// NDJSON files, so monitoring sessions can be reproduced exactly.
package recorder

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/synheart/calmband/internal/models"
)

// Recorder writes samples to an NDJSON file
type Recorder struct {
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

// NewRecorder creates a new recorder
func NewRecorder(filename string) (*Recorder, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create recording file: %w", err)
	}

	return &Recorder{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

// Record writes one sample followed by a newline
func (r *Recorder) Record(sample models.Sample) error {
	data, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("failed to marshal sample: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write sample: %w", err)
	}
	if _, err := r.writer.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return nil
}

// RecordFromChannel reads samples from a channel and records them
func (r *Recorder) RecordFromChannel(ctx context.Context, samples <-chan models.Sample) error {
	for {
		select {
		case <-ctx.Done():
			return r.Close()
		case sample, ok := <-samples:
			if !ok {
				return r.Close() // Channel closed
			}
			if err := r.Record(sample); err != nil {
				return err
			}
		}
	}
}

// Flush flushes the buffer to disk
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writer.Flush()
}

// Close flushes and closes the recorder
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writer.Flush(); err != nil {
		r.file.Close()
		return fmt.Errorf("failed to flush buffer: %w", err)
	}
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}
