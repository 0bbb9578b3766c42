package resultstore

import (
	"context"
	"fmt"
)

// Proteins returns all protein rows ordered by accession.
func (s *Store) Proteins(ctx context.Context) ([]Protein, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT accession, description, sequence
		FROM proteins
		ORDER BY accession COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query proteins: %w", err)
	}
	defer rows.Close()

	var proteins []Protein
	for rows.Next() {
		var p Protein
		if err := rows.Scan(&p.Accession, &p.Description, &p.Sequence); err != nil {
			return nil, fmt.Errorf("scan protein: %w", err)
		}
		proteins = append(proteins, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proteins: %w", err)
	}
	if proteins == nil {
		proteins = []Protein{}
	}
	return proteins, nil
}

// CountProteins returns the number of protein rows.
func (s *Store) CountProteins(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM proteins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count proteins: %w", err)
	}
	return n, nil
}

// Peptides returns all peptide rows with their modifications, ordered by id.
// Modifications within a peptide are ordered by location, unknown positions
// last.
func (s *Store) Peptides(ctx context.Context) ([]Peptide, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sequence
		FROM peptides
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query peptides: %w", err)
	}
	defer rows.Close()

	var peptides []Peptide
	index := make(map[string]int)
	for rows.Next() {
		var p Peptide
		if err := rows.Scan(&p.ID, &p.Sequence); err != nil {
			return nil, fmt.Errorf("scan peptide: %w", err)
		}
		index[p.ID] = len(peptides)
		peptides = append(peptides, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate peptides: %w", err)
	}

	modRows, err := s.db.QueryContext(ctx, `
		SELECT peptide_id, location, mass_delta, name
		FROM modifications
		ORDER BY peptide_id COLLATE BINARY ASC, location IS NULL, location ASC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query modifications: %w", err)
	}
	defer modRows.Close()

	for modRows.Next() {
		var peptideID string
		var m Modification
		if err := modRows.Scan(&peptideID, &m.Location, &m.MassDelta, &m.Name); err != nil {
			return nil, fmt.Errorf("scan modification: %w", err)
		}
		i, ok := index[peptideID]
		if !ok {
			return nil, fmt.Errorf("modification references unknown peptide %s", peptideID)
		}
		peptides[i].Modifications = append(peptides[i].Modifications, m)
	}
	if err := modRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate modifications: %w", err)
	}

	if peptides == nil {
		peptides = []Peptide{}
	}
	return peptides, nil
}

// EvidenceRows returns all evidence rows ordered by id.
func (s *Store) EvidenceRows(ctx context.Context) ([]Evidence, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, peptide_id, protein_accession, start_pos, end_pos, pre, post, is_decoy
		FROM evidence
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query evidence: %w", err)
	}
	defer rows.Close()

	var evidence []Evidence
	for rows.Next() {
		var e Evidence
		if err := rows.Scan(&e.ID, &e.PeptideID, &e.ProteinAccession,
			&e.Start, &e.End, &e.Pre, &e.Post, &e.IsDecoy); err != nil {
			return nil, fmt.Errorf("scan evidence: %w", err)
		}
		evidence = append(evidence, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evidence: %w", err)
	}
	if evidence == nil {
		evidence = []Evidence{}
	}
	return evidence, nil
}

// Matches returns all match rows with their scores. Results are grouped by
// spectrum and ordered by spectrum id, then rank, then match id, so the
// exporter can stream one SpectrumIdentificationResult per contiguous run of
// spectrum ids.
func (s *Store) Matches(ctx context.Context) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, spectrum_id, peptide_id, evidence_id, charge, experimental_mz, calculated_mz, rank, pass_threshold
		FROM matches
		ORDER BY spectrum_id COLLATE BINARY ASC, rank ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	index := make(map[string]int)
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.SpectrumID, &m.PeptideID, &m.EvidenceID,
			&m.Charge, &m.ExperimentalMZ, &m.CalculatedMZ, &m.Rank, &m.PassThreshold); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		index[m.ID] = len(matches)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}

	scoreRows, err := s.db.QueryContext(ctx, `
		SELECT match_id, name, value
		FROM scores
		ORDER BY match_id COLLATE BINARY ASC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer scoreRows.Close()

	for scoreRows.Next() {
		var matchID, name string
		var value float64
		if err := scoreRows.Scan(&matchID, &name, &value); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		i, ok := index[matchID]
		if !ok {
			return nil, fmt.Errorf("score references unknown match %s", matchID)
		}
		if matches[i].Scores == nil {
			matches[i].Scores = make(map[string]float64)
		}
		matches[i].Scores[name] = value
	}
	if err := scoreRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}

	if matches == nil {
		matches = []Match{}
	}
	return matches, nil
}
