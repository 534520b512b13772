// Package keyzero overwrites key material in place once it is no longer
// needed, per spec.md §5 ("the master key and any derived keys are held
// in memory only; they must be zeroed on scope exit where the target
// language permits").
package keyzero

// Zero overwrites every byte of b with zero. It does not reslice or
// reallocate, so callers holding other references to the same backing
// array also observe the wipe.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ZeroAll zeroes every slice in bs, in order.
func ZeroAll(bs ...[]byte) {
	for _, b := range bs {
		Zero(b)
	}
}
