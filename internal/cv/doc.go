// Package cv is the controlled-vocabulary catalog behind cvParam emission.
//
// The writer treats this package as a lookup table: given a human-readable
// term name it returns the canonical (accession, name, source vocabulary)
// triple, and given a unit name the matching unit term. The table carries
// only the terms this writer emits itself plus the common score and
// modification names callers supply loosely; anything unknown falls back to
// a userParam at the call site.
package cv
