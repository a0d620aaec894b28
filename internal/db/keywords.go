package db

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"contentradar/internal/models"
)

// keywordColumns is the standard column list for keyword queries.
const keywordColumns = `id, term, strategic_score, matched_app, page_exists, last_seen, created_at`

// scanKeyword scans a row into a Keyword struct.
func scanKeyword(row pgx.Row) (*models.Keyword, error) {
	var kw models.Keyword
	err := row.Scan(
		&kw.ID,
		&kw.Term,
		&kw.StrategicScore,
		&kw.MatchedApp,
		&kw.PageExists,
		&kw.LastSeen,
		&kw.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrKeywordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &kw, nil
}

// scanKeywords scans multiple rows into a slice of Keywords.
func scanKeywords(rows pgx.Rows) ([]models.Keyword, error) {
	defer rows.Close()

	var keywords []models.Keyword
	for rows.Next() {
		var kw models.Keyword
		if err := rows.Scan(
			&kw.ID,
			&kw.Term,
			&kw.StrategicScore,
			&kw.MatchedApp,
			&kw.PageExists,
			&kw.LastSeen,
			&kw.CreatedAt,
		); err != nil {
			return nil, err
		}
		keywords = append(keywords, kw)
	}

	return keywords, rows.Err()
}

// UpdateCoverage sets the page-existence flag on a keyword and advances
// last_seen. GREATEST keeps last_seen monotonically non-decreasing even
// under clock skew between concurrent writers.
func (d *DB) UpdateCoverage(ctx context.Context, id int64, pageExists bool) (*models.Keyword, error) {
	query := `
		UPDATE keywords
		SET page_exists = $1, last_seen = GREATEST(last_seen, NOW())
		WHERE id = $2
		RETURNING ` + keywordColumns
	return scanKeyword(d.Pool.QueryRow(ctx, query, pageExists, id))
}

// GapCandidates returns up to limit keywords that have neither a matched
// app nor a published page, highest strategic score first. Ties are
// broken by ascending id so repeated calls over an unchanged data set
// return the same sequence.
func (d *DB) GapCandidates(ctx context.Context, limit int) ([]models.Keyword, error) {
	query := `
		SELECT ` + keywordColumns + `
		FROM keywords
		WHERE matched_app IS NULL AND page_exists = FALSE
		ORDER BY strategic_score DESC, id ASC
		LIMIT $1
	`
	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return scanKeywords(rows)
}

// UpsertKeyword inserts a keyword or refreshes its externally owned
// attributes (score, matched app) by term. page_exists is never touched
// on conflict: coverage is owned by UpdateCoverage and the verifier.
func (d *DB) UpsertKeyword(ctx context.Context, kw *models.Keyword) error {
	query := `
		INSERT INTO keywords (term, strategic_score, matched_app)
		VALUES ($1, $2, $3)
		ON CONFLICT (term) DO UPDATE SET
			strategic_score = EXCLUDED.strategic_score,
			matched_app = EXCLUDED.matched_app,
			last_seen = GREATEST(keywords.last_seen, NOW())
		RETURNING ` + keywordColumns
	updated, err := scanKeyword(d.Pool.QueryRow(ctx, query, kw.Term, kw.StrategicScore, kw.MatchedApp))
	if err != nil {
		return err
	}
	*kw = *updated
	return nil
}

// GetKeywordByID retrieves a keyword by its ID.
func (d *DB) GetKeywordByID(ctx context.Context, id int64) (*models.Keyword, error) {
	query := `SELECT ` + keywordColumns + ` FROM keywords WHERE id = $1`
	return scanKeyword(d.Pool.QueryRow(ctx, query, id))
}

// ListKeywords returns keywords matching the filter for the admin browse
// view, highest score first.
func (d *DB) ListKeywords(ctx context.Context, filter models.KeywordFilter) ([]models.Keyword, error) {
	builder := sq.Select(keywordColumns).
		From("keywords").
		OrderBy("strategic_score DESC", "id ASC").
		PlaceholderFormat(sq.Dollar)

	if filter.UncoveredOnly {
		builder = builder.Where(sq.Eq{"page_exists": false}).Where("matched_app IS NULL")
	}
	if filter.MinScore > 0 {
		builder = builder.Where(sq.GtOrEq{"strategic_score": filter.MinScore})
	}
	if filter.Term != "" {
		builder = builder.Where(sq.ILike{"term": "%" + filter.Term + "%"})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanKeywords(rows)
}

// MarkCoveredByTerms flips page_exists for every uncovered keyword whose
// term is in the given set. Used by the coverage verifier after a
// published page has been confirmed reachable. Returns the number of
// keywords updated.
func (d *DB) MarkCoveredByTerms(ctx context.Context, terms []string) (int64, error) {
	if len(terms) == 0 {
		return 0, nil
	}
	query := `
		UPDATE keywords
		SET page_exists = TRUE, last_seen = GREATEST(last_seen, NOW())
		WHERE term = ANY($1) AND page_exists = FALSE
	`
	result, err := d.Pool.Exec(ctx, query, terms)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// CountGapKeywords returns the current gap queue depth. Used by the
// metrics collector.
func (d *DB) CountGapKeywords(ctx context.Context) (int64, error) {
	var count int64
	err := d.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM keywords WHERE matched_app IS NULL AND page_exists = FALSE`,
	).Scan(&count)
	return count, err
}
