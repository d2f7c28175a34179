package param

import (
	"sync"
	"sync/atomic"
)

// Store is the ParameterStore: a flat map from string parameter id to
// float32, read-only from the audio path and atomically writable from the
// control path, keyed by a stable string namespace rather than a host's
// numeric parameter ids.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string

	// generation is bumped after a preset publishes a full parameter set,
	// so the audio thread can detect "all of these changed together"
	// with a single acquire-load at a block boundary.
	generation uint64
}

// NewStore creates an empty ParameterStore.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Register adds a parameter to the namespace. Registration happens once,
// during engine construction, never on the audio path.
func (s *Store) Register(desc Descriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if desc.Min >= desc.Max {
		return ErrInvalidRange
	}
	if desc.Default < desc.Min || desc.Default > desc.Max {
		return ErrDefaultOutOfRange
	}
	if _, exists := s.entries[desc.ID]; exists {
		return ErrAlreadyRegistered
	}

	s.entries[desc.ID] = &entry{desc: desc, value: NewAtomicFloat32(desc.Default)}
	s.order = append(s.order, desc.ID)
	return nil
}

// RegisterAll registers a batch of descriptors, stopping at the first
// error.
func (s *Store) RegisterAll(descs ...Descriptor) error {
	for _, d := range descs {
		if err := s.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Set writes value after clamping it to the parameter's declared domain.
// An unknown id is a silent no-op.
func (s *Store) Set(id string, value float32) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return
	}
	e.value.Store(e.desc.Clamp(value))
}

// Get returns the current value of id, or 0 if id is unknown.
func (s *Store) Get(id string) float32 {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	return e.value.Load()
}

// Descriptor returns the registered descriptor for id.
func (s *Store) Descriptor(id string) (Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return Descriptor{}, false
	}
	return e.desc, true
}

// IDs returns every registered parameter id in registration order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Snapshot returns every parameter's current value, keyed by id. Used by
// PresetCodec to serialize the full namespace.
func (s *Store) Snapshot() map[string]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float32, len(s.entries))
	for id, e := range s.entries {
		out[id] = e.value.Load()
	}
	return out
}

// ApplySnapshot atomically publishes a full value set, bumping the
// generation counter after every scalar has been written so a reader that
// observes the new generation is guaranteed to observe every value in the
// snapshot via a release/acquire publication flag. Unknown ids are
// ignored; known ids not present in the snapshot keep their current value.
func (s *Store) ApplySnapshot(values map[string]float32) {
	s.mu.RLock()
	for id, v := range values {
		if e, ok := s.entries[id]; ok {
			e.value.Store(e.desc.Clamp(v))
		}
	}
	s.mu.RUnlock()
	atomic.AddUint64(&s.generation, 1)
}

// Generation returns the current publication generation, incremented by
// every ApplySnapshot call (e.g. preset load). An audio thread can cache
// the last generation it observed and detect a full-set republish without
// diffing individual parameters.
func (s *Store) Generation() uint64 {
	return atomic.LoadUint64(&s.generation)
}

// ResetToDefaults restores every parameter to its registered default value.
// The engines' reset() and loadPreset paths do not call it; reset()
// preserves parameters.
func (s *Store) ResetToDefaults() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		e.value.Store(e.desc.Default)
	}
}

// FormatValue renders id's current value as host-facing text using its
// declared Format. Unknown ids render as an empty string.
func (s *Store) FormatValue(id string) string {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return ""
	}
	return FormatValue(e.value.Load(), e.desc.Format)
}

// ParseValue parses text into id's domain using its declared Format and
// clamps it to [min,max], without storing it. Unknown ids are an error.
func (s *Store) ParseValue(id, text string) (float32, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return 0, ErrUnknownParameter
	}
	v, err := ParseValue(text, e.desc.Format)
	if err != nil {
		return 0, err
	}
	return e.desc.Clamp(v), nil
}

// ForEach calls fn for every registered parameter in registration order.
func (s *Store) ForEach(fn func(Descriptor, float32)) {
	s.mu.RLock()
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	s.mu.RUnlock()

	for _, id := range ids {
		s.mu.RLock()
		e := s.entries[id]
		s.mu.RUnlock()
		fn(e.desc, e.value.Load())
	}
}
