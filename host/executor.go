// Package host provides the WASM runtime executing signal-type
// providers.
package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	t_wazero "github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/diffrakt-dev/diffrakt-host-sdk/pattern"
	"github.com/diffrakt-dev/diffrakt-host-sdk/signaltype/values"
	"github.com/diffrakt-dev/diffrakt-host-sdk/wazero"
)

// hostModuleName is the import namespace providers bind host functions
// from.
const hostModuleName = "diffrakt"

// Executor manages the lifecycle of WASM signal-type providers.
type Executor struct {
	runtime t_wazero.Runtime
	cache   t_wazero.CompilationCache
	logger  *slog.Logger
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	cfg := t_wazero.NewRuntimeConfig()
	if e.cache != nil {
		cfg = cfg.WithCompilationCache(e.cache)
	}
	rt := t_wazero.NewRuntimeWithConfig(ctx, cfg)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	e.runtime = rt

	if err := e.registerHostFunctions(ctx); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	return e, nil
}

// registerHostFunctions exposes the host import namespace to providers.
func (e *Executor) registerHostFunctions(ctx context.Context) error {
	_, err := e.runtime.NewHostModuleBuilder(hostModuleName).
		NewFunctionBuilder().
		WithGoModuleFunction(wazero.Log(e.logger),
			[]api.ValueType{api.ValueTypeI64}, nil).
		Export("log_message").
		Instantiate(ctx)
	return err
}

// Close releases resources held by the executor.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// ProviderInstance is an instantiated signal-type provider module.
type ProviderInstance struct {
	module api.Module
}

// LoadProvider instantiates a provider's WASM module.
func (e *Executor) LoadProvider(ctx context.Context, wasmBytes []byte) (*ProviderInstance, error) {
	mod, err := e.runtime.Instantiate(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			_ = mod.Close(ctx)
			return nil, fmt.Errorf("failed to call _initialize: %w", err)
		}
	}

	return &ProviderInstance{module: mod}, nil
}

// descriptorWire is the JSON shape returned by a provider's `describe`
// export.
type descriptorWire struct {
	SignalType string   `json:"signal_type"`
	Aliases    []string `json:"aliases,omitempty"`
	Dimension  int      `json:"signal_dimension"`
	DType      string   `json:"dtype"`
	Lazy       bool     `json:"lazy"`
}

// frameWire is the JSON shape of a pattern crossing the guest boundary.
type frameWire struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float32 `json:"data"`
}

// Describe calls the provider's `describe` export and returns its
// declared signal-type metadata.
func (p *ProviderInstance) Describe(ctx context.Context) (values.TypeMetadata, error) {
	packed, err := p.callRaw(ctx, "describe", nil)
	if err != nil {
		return values.TypeMetadata{}, err
	}

	var wire descriptorWire
	if err := p.unmarshalPacked(packed, &wire); err != nil {
		return values.TypeMetadata{}, fmt.Errorf("decoding provider descriptor: %w", err)
	}

	dtype, err := values.ParseDType(wire.DType)
	if err != nil {
		return values.TypeMetadata{}, fmt.Errorf("provider descriptor: %w", err)
	}
	return values.NewTypeMetadata(wire.SignalType, wire.Aliases, wire.Dimension, dtype, wire.Lazy)
}

// Process sends a pattern through the provider's `process` export and
// returns the transformed pattern.
func (p *ProviderInstance) Process(ctx context.Context, frame pattern.Frame) (pattern.Frame, error) {
	input, err := json.Marshal(frameWire{
		Rows: frame.Rows(),
		Cols: frame.Cols(),
		Data: frame.Data(),
	})
	if err != nil {
		return pattern.Frame{}, err
	}

	packed, err := p.callRaw(ctx, "process", input)
	if err != nil {
		return pattern.Frame{}, err
	}

	var wire frameWire
	if err := p.unmarshalPacked(packed, &wire); err != nil {
		return pattern.Frame{}, fmt.Errorf("decoding processed pattern: %w", err)
	}
	return pattern.NewFrame(wire.Data, wire.Rows, wire.Cols)
}

// Close releases the provider's module.
func (p *ProviderInstance) Close(ctx context.Context) error {
	return p.module.Close(ctx)
}

// callRaw invokes a provider export with raw bytes, using the packed
// pointer/length convention.
func (p *ProviderInstance) callRaw(ctx context.Context, name string, input []byte) (uint64, error) {
	fn := p.module.ExportedFunction(name)
	if fn == nil {
		return 0, fmt.Errorf("function %q not found", name)
	}

	var ptr uint64
	var length uint64
	if len(input) > 0 {
		allocate := p.module.ExportedFunction("allocate")
		if allocate == nil {
			return 0, fmt.Errorf("function 'allocate' not exported")
		}
		res, err := allocate.Call(ctx, uint64(len(input)))
		if err != nil {
			return 0, fmt.Errorf("allocate failed: %w", err)
		}
		ptr = res[0]
		length = uint64(len(input))

		//nolint:gosec // WASM pointers are 32-bit
		if !p.module.Memory().Write(uint32(ptr), input) {
			return 0, fmt.Errorf("failed to write input to memory")
		}
	}

	//nolint:gosec // WASM pointers and lengths are 32-bit
	packedInput := wazero.PackPtrLen(uint32(ptr), uint32(length))

	res, err := fn.Call(ctx, packedInput)
	if err != nil {
		return 0, fmt.Errorf("call failed: %w", err)
	}

	return res[0], nil
}

// unmarshalPacked reads JSON from a packed pointer/length pair and
// unmarshals it.
func (p *ProviderInstance) unmarshalPacked(packed uint64, v any) error {
	ptr, length := wazero.UnpackPtrLen(packed)

	if length == 0 {
		return nil
	}

	data, ok := p.module.Memory().Read(ptr, length)
	if !ok {
		return fmt.Errorf("failed to read result from memory")
	}

	return json.Unmarshal(data, v)
}
