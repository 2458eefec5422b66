// AngelaMos | 2026
// store.go

package admin

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/mediacat/internal/core"
)

type Store struct {
	db core.DBTX
}

func NewStore(db core.DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) CatalogCounts(ctx context.Context) (*CatalogStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users)      AS users,
			(SELECT COUNT(*) FROM categories) AS categories,
			(SELECT COUNT(*) FROM genres)     AS genres,
			(SELECT COUNT(*) FROM titles)     AS titles,
			(SELECT COUNT(*) FROM reviews)    AS reviews,
			(SELECT COUNT(*) FROM comments)   AS comments`

	var stats CatalogStats
	if err := s.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("catalog counts: %w", err)
	}

	return &stats, nil
}

var _ CatalogCounter = (*Store)(nil)
