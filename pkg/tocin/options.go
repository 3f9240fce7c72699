package tocin

import (
	"fmt"

	"github.com/tocin-lang/tocin/internal/compiler"
)

// Options configures a Parse/Check/Compile call. Zero value is valid:
// DefaultOptions' choices match spec.md §6's flag defaults.
type Options struct {
	FilePath string

	OptLevel int
	Target   compiler.Target

	NoConcurrency bool
	NoAdvanced    bool
	NoMacros      bool
	NoAsync       bool

	Concurrency int
}

// DefaultOptions returns -O2/native/no toggles disabled, the same
// defaults compiler.DefaultOptions exposes to the CLI driver.
func DefaultOptions() *Options {
	return &Options{
		FilePath:    "<input>",
		OptLevel:    2,
		Target:      compiler.TargetNative,
		Concurrency: 1,
	}
}

func (o *Options) toSessionOptions() compiler.Options {
	return compiler.Options{
		OptLevel:      o.OptLevel,
		Target:        o.Target,
		NoConcurrency: o.NoConcurrency,
		NoAdvanced:    o.NoAdvanced,
		NoMacros:      o.NoMacros,
		NoAsync:       o.NoAsync,
		Concurrency:   o.Concurrency,
	}
}

// Validate rejects combinations the driver would otherwise reject too
// late, after a full parse: an unknown Target name, or an OptLevel
// outside spec.md §6's -O0..-O3 range.
func (o *Options) Validate() error {
	if o.Target != compiler.TargetNative && o.Target != compiler.TargetWASM {
		return fmt.Errorf("tocin: unknown target %q", o.Target)
	}
	if o.OptLevel < 0 || o.OptLevel > 3 {
		return fmt.Errorf("tocin: opt level %d out of range -O0..-O3", o.OptLevel)
	}
	return nil
}

// OptionsBuilder provides a fluent API for constructing Options, the
// same shape the teacher's ParseOptionsBuilder offers callers.
type OptionsBuilder struct {
	opts *Options
}

// NewBuilder creates an OptionsBuilder seeded with DefaultOptions.
func NewBuilder() *OptionsBuilder {
	return &OptionsBuilder{opts: DefaultOptions()}
}

func (b *OptionsBuilder) WithFilePath(path string) *OptionsBuilder {
	b.opts.FilePath = path
	return b
}

func (b *OptionsBuilder) WithOptLevel(level int) *OptionsBuilder {
	b.opts.OptLevel = level
	return b
}

func (b *OptionsBuilder) WithTarget(target compiler.Target) *OptionsBuilder {
	b.opts.Target = target
	return b
}

func (b *OptionsBuilder) WithConcurrency(n int) *OptionsBuilder {
	b.opts.Concurrency = n
	return b
}

// Build returns the constructed Options after validation.
func (b *OptionsBuilder) Build() (*Options, error) {
	if err := b.opts.Validate(); err != nil {
		return nil, err
	}
	return b.opts, nil
}

// MustBuild returns the constructed Options or panics if validation
// fails, for callers (tests, short CLI paths) that know their inputs
// are already valid.
func (b *OptionsBuilder) MustBuild() *Options {
	opts, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("tocin: failed to build Options: %v", err))
	}
	return opts
}
