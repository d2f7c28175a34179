package param

import "errors"

// Builder provides a fluent interface for constructing a Descriptor keyed
// by a stable string id and backed by float32 storage.
type Builder struct {
	desc Descriptor
	err  error
}

// NewBuilder starts building a descriptor for the given stable string id.
func NewBuilder(id, name string) *Builder {
	return &Builder{desc: Descriptor{ID: id, Name: name, Min: 0, Max: 1, Default: 0.5}}
}

// Range sets min, max, and default.
func (b *Builder) Range(min, max, def float32) *Builder {
	if b.err != nil {
		return b
	}
	if min >= max {
		b.err = errors.New("min must be less than max")
		return b
	}
	if def < min || def > max {
		b.err = errors.New("default must be within min/max range")
		return b
	}
	b.desc.Min, b.desc.Max, b.desc.Default = min, max, def
	return b
}

// Format sets the display format.
func (b *Builder) Format(f Format) *Builder {
	if b.err == nil {
		b.desc.Format = f
	}
	return b
}

// Stepped marks the parameter as an integer-stepped choice.
func (b *Builder) Stepped() *Builder {
	if b.err == nil {
		b.desc.Flags |= FlagStepped
	}
	return b
}

// Modulatable marks the parameter as a valid modulation-matrix destination.
func (b *Builder) Modulatable() *Builder {
	if b.err == nil {
		b.desc.Flags |= FlagModulatable
	}
	return b
}

// Build finalizes the descriptor.
func (b *Builder) Build() (Descriptor, error) {
	if b.err != nil {
		return Descriptor{}, b.err
	}
	if b.desc.Name == "" {
		return Descriptor{}, errors.New("parameter name is required")
	}
	return b.desc, nil
}

// MustBuild finalizes the descriptor, panicking on error. Only used at
// package-init time for static namespace tables, never on a hot path.
func (b *Builder) MustBuild() Descriptor {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}
