// Package flow implements the saturating integer Watt arithmetic and the
// per-connection Flow record that the propagation kernel operates on.
package flow

import "fmt"

// Watts is a saturating unsigned power quantity. MaxFlow is the sentinel
// treated as "unlimited" everywhere a component declares an unbounded
// capacity (e.g. a mux outflow port with no configured cap).
type Watts uint32

// MaxFlow is the saturation ceiling. Components that want "no limit"
// should use MaxFlow rather than a magic literal; IsUnbounded is the
// predicate to test for it, never a raw `== MaxFlow` comparison.
const MaxFlow Watts = ^Watts(0)

// IsUnbounded reports whether w represents the unlimited sentinel.
func (w Watts) IsUnbounded() bool {
	return w == MaxFlow
}

// Add returns a + b, saturating at MaxFlow instead of overflowing.
func Add(a, b Watts) Watts {
	if a > MaxFlow-b {
		return MaxFlow
	}
	return a + b
}

// Sub returns a - b, floored at zero (flows never go negative).
func Sub(a, b Watts) Watts {
	if b >= a {
		return 0
	}
	return a - b
}

// Min returns the smaller of a and b.
func Min(a, b Watts) Watts {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Watts) Watts {
	if a > b {
		return a
	}
	return b
}

// DivCeil computes ceil(numerator / denominator) for request propagation,
// where denominator is a (0,1] efficiency-like fraction represented as a
// float64. Saturates at MaxFlow when the result would overflow Watts.
func DivCeil(numerator Watts, denominator float64) Watts {
	if denominator <= 0 {
		return MaxFlow
	}
	if numerator.IsUnbounded() {
		return MaxFlow
	}
	v := float64(numerator) / denominator
	if v > float64(MaxFlow) {
		return MaxFlow
	}
	iv := Watts(v)
	if float64(iv) < v {
		iv++
	}
	return iv
}

// MulFloor computes floor(base * factor) for availability propagation.
func MulFloor(base Watts, factor float64) Watts {
	if factor <= 0 {
		return 0
	}
	if base.IsUnbounded() {
		return MaxFlow
	}
	v := float64(base) * factor
	if v > float64(MaxFlow) {
		return MaxFlow
	}
	return Watts(v)
}

// Flow is the per-connection {requested, available, actual} triple, all in
// Watts. Invariant: 0 <= Actual <= min(Requested, Available) at quiescence.
type Flow struct {
	Requested Watts
	Available Watts
	Actual    Watts
}

// Finalize sets Actual = min(Requested, Available), per §4.1 step 3.
func (f *Flow) Finalize() {
	f.Actual = Min(f.Requested, f.Available)
}

func (f Flow) String() string {
	return fmt.Sprintf("{req=%d avail=%d actual=%d}", f.Requested, f.Available, f.Actual)
}

// Type is an interned flow-commodity tag (e.g. "electricity", "natural_gas").
// Index 0 is the null/wildcard type that matches any other type.
type Type uint32

// NullType is the wildcard flow type; it matches any other type at both
// inflow and outflow ports.
const NullType Type = 0

// Matches reports whether a and b are compatible flow types: equal, or
// either one is the wildcard.
func (a Type) Matches(b Type) bool {
	return a == NullType || b == NullType || a == b
}

// TypeTable interns flow-type tag strings to small integer Type values,
// mirroring the C++ source's flat string-interning tables elsewhere in the
// engine (component tags, distribution tags).
type TypeTable struct {
	tags    []string
	byTag   map[string]Type
}

// NewTypeTable returns a table pre-seeded with the wildcard type at index 0.
func NewTypeTable() *TypeTable {
	t := &TypeTable{
		tags:  []string{""},
		byTag: map[string]Type{"": NullType},
	}
	return t
}

// Intern returns the Type for tag, allocating a new one if tag is unseen.
func (t *TypeTable) Intern(tag string) Type {
	if id, ok := t.byTag[tag]; ok {
		return id
	}
	id := Type(len(t.tags))
	t.tags = append(t.tags, tag)
	t.byTag[tag] = id
	return id
}

// Lookup returns the Type for tag without interning; ok is false if tag was
// never interned.
func (t *TypeTable) Lookup(tag string) (Type, bool) {
	id, ok := t.byTag[tag]
	return id, ok
}

// Tag returns the string tag for a previously interned Type.
func (t *TypeTable) Tag(id Type) string {
	if int(id) >= len(t.tags) {
		return ""
	}
	return t.tags[id]
}
