package sqlite

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.FilterConfigStore = (*FilterConfigRepo)(nil)

// FilterConfigRepo is the SQLite implementation of the filter-configuration
// port. Sections are read in configuration order; ReplaceSections is how the
// host's config sync swaps in a project's rules atomically.
type FilterConfigRepo struct {
	db *DB
}

// NewFilterConfigRepo creates a FilterConfigRepo backed by the given DB.
func NewFilterConfigRepo(db *DB) *FilterConfigRepo {
	return &FilterConfigRepo{db: db}
}

// LoadSections returns the project's filter sections in configured order.
// A project with no rules yields an empty slice.
func (r *FilterConfigRepo) LoadSections(ctx context.Context, project string) ([]model.FilterSection, error) {
	const query = `
		SELECT s.seq, s.filter, COALESCE(rv.specifier, ''), COALESCE(rv.pos, 0)
		FROM filter_sections s
		LEFT JOIN filter_reviewers rv ON rv.project = s.project AND rv.seq = s.seq
		WHERE s.project = ?
		ORDER BY s.seq, rv.pos
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, project)
	if err != nil {
		return nil, fmt.Errorf("load filter sections for %s: %w", project, err)
	}
	defer rows.Close()

	var sections []model.FilterSection
	lastSeq := -1

	for rows.Next() {
		var (
			seq       int
			filter    string
			specifier string
			pos       int
		)
		if err := rows.Scan(&seq, &filter, &specifier, &pos); err != nil {
			return nil, fmt.Errorf("scan filter section: %w", err)
		}

		if seq != lastSeq {
			sections = append(sections, model.FilterSection{Filter: filter})
			lastSeq = seq
		}
		if specifier != "" {
			s := &sections[len(sections)-1]
			s.Reviewers = append(s.Reviewers, specifier)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate filter sections: %w", err)
	}

	return sections, nil
}

// ReplaceSections replaces the project's entire rule set in one transaction.
func (r *FilterConfigRepo) ReplaceSections(ctx context.Context, project string, sections []model.FilterSection) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace sections for %s: %w", project, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM filter_reviewers WHERE project = ?`, project); err != nil {
		return fmt.Errorf("clear filter reviewers for %s: %w", project, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM filter_sections WHERE project = ?`, project); err != nil {
		return fmt.Errorf("clear filter sections for %s: %w", project, err)
	}

	for seq, s := range sections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO filter_sections (project, seq, filter) VALUES (?, ?, ?)`,
			project, seq, s.Filter,
		); err != nil {
			return fmt.Errorf("insert filter section %d for %s: %w", seq, project, err)
		}
		for pos, specifier := range s.Reviewers {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO filter_reviewers (project, seq, pos, specifier) VALUES (?, ?, ?, ?)`,
				project, seq, pos, specifier,
			); err != nil {
				return fmt.Errorf("insert reviewer %q for %s section %d: %w", specifier, project, seq, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace sections for %s: %w", project, err)
	}
	return nil
}
