// Package stressmodel hosts an optional user-supplied stress model
// compiled to WebAssembly. The module must export
// stress_score(hr: f64, baseline: f64, variance: f64) -> f64; the
// returned score replaces the builtin blend formula.
package stressmodel

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/synheart/calmband/internal/signal"
)

const exportName = "stress_score"

// Engine wraps a compiled wasm stress model
type Engine struct {
	runtime wazero.Runtime
	module  api.Module
	score   api.Function
}

// NewEngine loads and instantiates the wasm module at wasmPath
func NewEngine(ctx context.Context, wasmPath string) (*Engine, error) {
	wasmBytes, err := os.ReadFile(wasmPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wasm file: %w", err)
	}

	r := wazero.NewRuntime(ctx)

	// Instantiate WASI
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		r.Close(ctx)
		return nil, fmt.Errorf("failed to compile wasm module: %w", err)
	}

	mod, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithStdout(os.Stdout).WithStderr(os.Stderr))
	if err != nil {
		r.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate wasm module: %w", err)
	}

	fn := mod.ExportedFunction(exportName)
	if fn == nil {
		r.Close(ctx)
		return nil, fmt.Errorf("%s not exported by wasm module", exportName)
	}

	return &Engine{
		runtime: r,
		module:  mod,
		score:   fn,
	}, nil
}

// Score evaluates the wasm model
func (e *Engine) Score(ctx context.Context, hr, baseline, variance float64) (float64, error) {
	results, err := e.score.Call(ctx,
		api.EncodeF64(hr),
		api.EncodeF64(baseline),
		api.EncodeF64(variance),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to call %s: %w", exportName, err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("%s returned no value", exportName)
	}
	return api.DecodeF64(results[0]), nil
}

// StressFunc adapts the engine to the aggregator's hook. Model
// failures fall back to the builtin formula so monitoring never
// stalls on a bad plugin.
func (e *Engine) StressFunc(ctx context.Context) signal.StressFunc {
	return func(hr, baseline, variance float64) float64 {
		score, err := e.Score(ctx, hr, baseline, variance)
		if err != nil {
			log.Printf("stressmodel: falling back to builtin formula: %v", err)
			return signal.DefaultStress(hr, baseline, variance)
		}
		return score
	}
}

// Close releases the wasm runtime
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}
