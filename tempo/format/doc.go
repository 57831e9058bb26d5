// Package format encodes ranked tempo estimates as text.
//
// Three encodings are supported: a ranked per-line listing (normal), the
// MIREX tempo-estimation exchange convention (mirex), and a raw dump of
// every retained estimate (raw).
//
// Octave/double-tempo ambiguity is resolved here, not in the estimator: only
// the mirex encoding imposes an ordering policy (slower tempo first), the
// other encodings report the estimator's ranking untouched.
package format
