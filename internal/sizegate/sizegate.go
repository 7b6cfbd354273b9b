// Package sizegate implements the admission policy comparing a candidate
// artifact's byte size against the delivery ceiling. It runs before any
// network or disk resources are spent and again against downloaded sizes
// when they differ from catalog-declared ones.
package sizegate

// Decision is the outcome of an admission check.
type Decision struct {
	Admitted bool
	// OverageBytes is how far past the limit the candidate is. Zero when admitted.
	OverageBytes int64
}

// Admit compares sizeBytes against limitBytes. Sizes equal to the limit are
// admitted; strictly greater sizes are rejected.
func Admit(sizeBytes, limitBytes int64) Decision {
	if sizeBytes <= limitBytes {
		return Decision{Admitted: true}
	}
	return Decision{OverageBytes: sizeBytes - limitBytes}
}
