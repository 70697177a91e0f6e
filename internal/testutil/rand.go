package testutil

// ScriptedRand is a deterministic random.Source for tests.
// Floats and Ints are served in order; once a queue is empty
// Float64 returns DefaultFloat and IntN returns 0.
type ScriptedRand struct {
	Floats       []float64
	Ints         []int
	DefaultFloat float64

	FloatCalls int
	IntCalls   int
}

// NewScriptedRand returns a source that yields floats in order.
func NewScriptedRand(floats ...float64) *ScriptedRand {
	return &ScriptedRand{Floats: floats}
}

// Float64 returns the next scripted float.
func (r *ScriptedRand) Float64() float64 {
	r.FloatCalls++
	if len(r.Floats) == 0 {
		return r.DefaultFloat
	}
	v := r.Floats[0]
	r.Floats = r.Floats[1:]
	return v
}

// IntN returns the next scripted int, reduced modulo n.
func (r *ScriptedRand) IntN(n int) int {
	r.IntCalls++
	if len(r.Ints) == 0 || n <= 0 {
		return 0
	}
	v := r.Ints[0]
	r.Ints = r.Ints[1:]
	return ((v % n) + n) % n
}
