// Package identity assigns and tracks document-unique identifiers.
//
// Every mzIdentML entity that can be referenced from elsewhere in the
// document (a peptide from a peptide evidence, a protocol from an analysis,
// and so on) registers its identifier here, namespaced by Category. Later
// cross-references are resolved against the same registry, so a dangling
// reference is caught before any bytes for it reach the output stream.
//
// A Registry belongs to exactly one document-write session. It is created by
// the document writer and passed explicitly into everything that needs it.
// There is no package-level registry: two writers never share identifiers.
//
// The registry is single-threaded, matching the forward-only writer it
// serves. It only grows; registrations are never removed.
package identity
