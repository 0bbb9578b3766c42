package resultstore

import (
	"context"
	"fmt"
)

// AddProtein inserts one protein row.
func (s *Store) AddProtein(ctx context.Context, p Protein) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO proteins (accession, description, sequence)
		VALUES (?, ?, ?)
	`, p.Accession, p.Description, p.Sequence)
	if err != nil {
		return fmt.Errorf("insert protein %s: %w", p.Accession, err)
	}
	return nil
}

// AddPeptide inserts one peptide row and its modifications.
func (s *Store) AddPeptide(ctx context.Context, p Peptide) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO peptides (id, sequence) VALUES (?, ?)
	`, p.ID, p.Sequence); err != nil {
		return fmt.Errorf("insert peptide %s: %w", p.ID, err)
	}
	for _, m := range p.Modifications {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO modifications (peptide_id, location, mass_delta, name)
			VALUES (?, ?, ?, ?)
		`, p.ID, m.Location, m.MassDelta, m.Name); err != nil {
			return fmt.Errorf("insert modification for %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// AddEvidence inserts one evidence row.
func (s *Store) AddEvidence(ctx context.Context, e Evidence) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evidence (id, peptide_id, protein_accession, start_pos, end_pos, pre, post, is_decoy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.PeptideID, e.ProteinAccession, e.Start, e.End, e.Pre, e.Post, e.IsDecoy)
	if err != nil {
		return fmt.Errorf("insert evidence %s: %w", e.ID, err)
	}
	return nil
}

// AddMatch inserts one match row and its scores.
func (s *Store) AddMatch(ctx context.Context, m Match) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rank := m.Rank
	if rank == 0 {
		rank = 1
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO matches (id, spectrum_id, peptide_id, evidence_id, charge, experimental_mz, calculated_mz, rank, pass_threshold)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.SpectrumID, m.PeptideID, m.EvidenceID, m.Charge, m.ExperimentalMZ, m.CalculatedMZ, rank, m.PassThreshold); err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	for name, value := range m.Scores {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO scores (match_id, name, value) VALUES (?, ?, ?)
		`, m.ID, name, value); err != nil {
			return fmt.Errorf("insert score %s for %s: %w", name, m.ID, err)
		}
	}
	return tx.Commit()
}
