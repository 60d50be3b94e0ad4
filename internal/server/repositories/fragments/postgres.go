package fragments

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/blobhost/internal/dbx"
	"github.com/dmitrijs2005/blobhost/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InsertMany writes one row per fragment. Callers that need all-or-nothing
// semantics pass a transaction handle to NewPostgresRepository.
func (r *PostgresRepository) InsertMany(ctx context.Context, fs []*models.Fragment) error {
	query :=
		`INSERT INTO fragments (parent_id, idx, data)
		 VALUES ($1, $2, $3)
		 `

	for _, f := range fs {
		if _, err := r.db.ExecContext(ctx, query, f.ParentID, f.Index, f.Data); err != nil {
			return fmt.Errorf("db error: fragment %d: %w", f.Index, err)
		}
	}
	return nil
}

func (r *PostgresRepository) ListByParent(ctx context.Context, parentID string) ([]*models.Fragment, error) {
	query :=
		`SELECT parent_id, idx, data FROM fragments
		 WHERE parent_id = $1
		 ORDER BY idx
		 `

	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var res []*models.Fragment
	for rows.Next() {
		f := &models.Fragment{}
		if err := rows.Scan(&f.ParentID, &f.Index, &f.Data); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		res = append(res, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return res, nil
}

func (r *PostgresRepository) DeleteByParent(ctx context.Context, parentID string) (int64, error) {
	query := `DELETE FROM fragments WHERE parent_id = $1`

	res, err := r.db.ExecContext(ctx, query, parentID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
