// Package resultstore stages search-engine output in SQLite for mzIdentML
// export.
//
// The store holds the flattened entities a document needs: proteins,
// peptides with their modifications, peptide evidence, and spectrum matches
// with their scores. Readers return rows in a deterministic order so the
// same database always exports to the same document.
package resultstore
