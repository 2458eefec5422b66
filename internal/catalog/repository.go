// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/mediacat/internal/core"
)

type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	ListCategories(ctx context.Context, params ListParams) ([]Category, int, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	DeleteCategoryBySlug(ctx context.Context, slug string) error

	CreateGenre(ctx context.Context, g *Genre) error
	ListGenres(ctx context.Context, params ListParams) ([]Genre, int, error)
	DeleteGenreBySlug(ctx context.Context, slug string) error
	GetGenresBySlugs(ctx context.Context, slugs []string) ([]Genre, error)

	CreateTitle(ctx context.Context, t *Title, genreIDs []int64) error
	GetTitle(ctx context.Context, id int64) (*Title, error)
	UpdateTitle(ctx context.Context, t *Title, genreIDs *[]int64) error
	DeleteTitle(ctx context.Context, id int64) error
	ListTitles(ctx context.Context, filter TitleFilter) ([]Title, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository needs the full sqlx handle rather than core.DBTX because
// title writes touch two tables inside a transaction.
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ratingExpr computes the raw average score per title. Rounding happens in
// the response layer so the stored precision is never lost.
const ratingExpr = `(SELECT AVG(r.score) FROM reviews r
		        WHERE r.title_id = t.id) AS rating`

func (r *repository) CreateCategory(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		RETURNING id`

	err := r.db.GetContext(ctx, &c.ID, query, c.Name, c.Slug)
	if err != nil {
		if constraint, ok := duplicateConstraint(err); ok {
			return fmt.Errorf(
				"create category (%s): %w", constraint, core.ErrDuplicateKey)
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *repository) ListCategories(
	ctx context.Context,
	params ListParams,
) ([]Category, int, error) {
	return listSlugged[Category](ctx, r.db, "categories", params)
}

func (r *repository) GetCategoryBySlug(
	ctx context.Context,
	slug string,
) (*Category, error) {
	var c Category
	err := r.db.GetContext(ctx, &c,
		`SELECT id, name, slug FROM categories WHERE slug = $1`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &c, nil
}

func (r *repository) DeleteCategoryBySlug(
	ctx context.Context,
	slug string,
) error {
	return deleteBySlug(ctx, r.db, "categories", slug)
}

func (r *repository) CreateGenre(ctx context.Context, g *Genre) error {
	query := `
		INSERT INTO genres (name, slug)
		VALUES ($1, $2)
		RETURNING id`

	err := r.db.GetContext(ctx, &g.ID, query, g.Name, g.Slug)
	if err != nil {
		if constraint, ok := duplicateConstraint(err); ok {
			return fmt.Errorf(
				"create genre (%s): %w", constraint, core.ErrDuplicateKey)
		}
		return fmt.Errorf("create genre: %w", err)
	}

	return nil
}

func (r *repository) ListGenres(
	ctx context.Context,
	params ListParams,
) ([]Genre, int, error) {
	return listSlugged[Genre](ctx, r.db, "genres", params)
}

func (r *repository) DeleteGenreBySlug(ctx context.Context, slug string) error {
	return deleteBySlug(ctx, r.db, "genres", slug)
}

func (r *repository) GetGenresBySlugs(
	ctx context.Context,
	slugs []string,
) ([]Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	query, args, err := psql.
		Select("id", "name", "slug").
		From("genres").
		Where(sq.Eq{"slug": slugs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build genres query: %w", err)
	}

	var genres []Genre
	if err := r.db.SelectContext(ctx, &genres, query, args...); err != nil {
		return nil, fmt.Errorf("get genres by slugs: %w", err)
	}

	return genres, nil
}

func (r *repository) CreateTitle(
	ctx context.Context,
	t *Title,
	genreIDs []int64,
) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO titles (name, year, description, category_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id`

		err := tx.GetContext(ctx, &t.ID, query,
			t.Name, t.Year, t.Description, t.CategoryID)
		if err != nil {
			return fmt.Errorf("create title: %w", err)
		}

		return insertGenreLinks(ctx, tx, t.ID, genreIDs)
	})
	if err != nil {
		return err
	}

	return nil
}

func (r *repository) GetTitle(ctx context.Context, id int64) (*Title, error) {
	query := fmt.Sprintf(`
		SELECT t.id, t.name, t.year, t.description, t.category_id,
		       %s
		FROM titles t
		WHERE t.id = $1`, ratingExpr)

	var t Title
	err := r.db.GetContext(ctx, &t, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get title: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get title: %w", err)
	}

	titles := []Title{t}
	if err := r.loadRelations(ctx, titles); err != nil {
		return nil, err
	}

	return &titles[0], nil
}

func (r *repository) UpdateTitle(
	ctx context.Context,
	t *Title,
	genreIDs *[]int64,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE titles
			SET name = $2, year = $3, description = $4, category_id = $5
			WHERE id = $1`,
			t.ID, t.Name, t.Year, t.Description, t.CategoryID)
		if err != nil {
			return fmt.Errorf("update title: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update title: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("update title: %w", core.ErrNotFound)
		}

		if genreIDs == nil {
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`DELETE FROM genre_titles WHERE title_id = $1`, t.ID)
		if err != nil {
			return fmt.Errorf("clear title genres: %w", err)
		}

		return insertGenreLinks(ctx, tx, t.ID, *genreIDs)
	})
}

func (r *repository) DeleteTitle(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete title: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListTitles(
	ctx context.Context,
	filter TitleFilter,
) ([]Title, int, error) {
	filter.Normalize()

	conds := titleConditions(filter)

	countBuilder := psql.Select("COUNT(*)").From("titles t")
	for _, cond := range conds {
		countBuilder = countBuilder.Where(cond)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build title count query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	builder := psql.
		Select("t.id", "t.name", "t.year", "t.description", "t.category_id",
			ratingExpr).
		From("titles t").
		OrderBy("t.id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(filter.Offset()))
	for _, cond := range conds {
		builder = builder.Where(cond)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build title list query: %w", err)
	}

	var titles []Title
	if err := r.db.SelectContext(ctx, &titles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}

	if err := r.loadRelations(ctx, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

// titleConditions builds the conjunctive WHERE set for the title list. The
// category and genre filters use EXISTS so a title with several matching
// genre links still produces one row.
func titleConditions(filter TitleFilter) []sq.Sqlizer {
	var conds []sq.Sqlizer

	if filter.Name != "" {
		conds = append(conds, sq.ILike{
			"t.name": "%" + escapeLike(filter.Name) + "%",
		})
	}
	if filter.Year != nil {
		conds = append(conds, sq.Eq{"t.year": *filter.Year})
	}
	if filter.Category != "" {
		conds = append(conds, sq.Expr(`EXISTS (
			SELECT 1 FROM categories c
			WHERE c.id = t.category_id AND c.slug = ?)`,
			filter.Category))
	}
	if filter.Genre != "" {
		conds = append(conds, sq.Expr(`EXISTS (
			SELECT 1 FROM genre_titles gt
			JOIN genres g ON g.id = gt.genre_id
			WHERE gt.title_id = t.id AND g.slug = ?)`,
			filter.Genre))
	}

	return conds
}

type genreLink struct {
	TitleID int64  `db:"title_id"`
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Slug    string `db:"slug"`
}

// loadRelations fills Category and Genres for a page of titles with two
// batched queries.
func (r *repository) loadRelations(ctx context.Context, titles []Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(titles))
	categoryIDs := make([]int64, 0, len(titles))
	for i := range titles {
		ids = append(ids, titles[i].ID)
		if titles[i].CategoryID != nil {
			categoryIDs = append(categoryIDs, *titles[i].CategoryID)
		}
	}

	categories := make(map[int64]*Category)
	if len(categoryIDs) > 0 {
		query, args, err := psql.
			Select("id", "name", "slug").
			From("categories").
			Where(sq.Eq{"id": categoryIDs}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build categories query: %w", err)
		}

		var rows []Category
		if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return fmt.Errorf("load title categories: %w", err)
		}
		for i := range rows {
			categories[rows[i].ID] = &rows[i]
		}
	}

	query, args, err := psql.
		Select("gt.title_id", "g.id", "g.name", "g.slug").
		From("genre_titles gt").
		Join("genres g ON g.id = gt.genre_id").
		Where(sq.Eq{"gt.title_id": ids}).
		OrderBy("g.slug ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build genre links query: %w", err)
	}

	var links []genreLink
	if err := r.db.SelectContext(ctx, &links, query, args...); err != nil {
		return fmt.Errorf("load title genres: %w", err)
	}

	genresByTitle := make(map[int64][]Genre)
	for _, link := range links {
		genresByTitle[link.TitleID] = append(genresByTitle[link.TitleID], Genre{
			ID:   link.ID,
			Name: link.Name,
			Slug: link.Slug,
		})
	}

	for i := range titles {
		if titles[i].CategoryID != nil {
			titles[i].Category = categories[*titles[i].CategoryID]
		}
		titles[i].Genres = genresByTitle[titles[i].ID]
	}

	return nil
}

func insertGenreLinks(
	ctx context.Context,
	tx *sqlx.Tx,
	titleID int64,
	genreIDs []int64,
) error {
	if len(genreIDs) == 0 {
		return nil
	}

	builder := psql.Insert("genre_titles").Columns("title_id", "genre_id")
	for _, genreID := range genreIDs {
		builder = builder.Values(titleID, genreID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build genre links insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("link title genres: %w", err)
	}

	return nil
}

// listSlugged serves the categories and genres lists, which share the same
// shape: optional name search, ordered by slug.
func listSlugged[T any](
	ctx context.Context,
	db *sqlx.DB,
	table string,
	params ListParams,
) ([]T, int, error) {
	params.Normalize()

	var conds []sq.Sqlizer
	if params.Search != "" {
		conds = append(conds, sq.ILike{
			"name": "%" + escapeLike(params.Search) + "%",
		})
	}

	countBuilder := psql.Select("COUNT(*)").From(table)
	for _, cond := range conds {
		countBuilder = countBuilder.Where(cond)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build %s count query: %w", table, err)
	}

	var total int
	if err := db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", table, err)
	}

	builder := psql.
		Select("id", "name", "slug").
		From(table).
		OrderBy("slug ASC").
		Limit(uint64(params.PageSize)).
		Offset(uint64(params.Offset()))
	for _, cond := range conds {
		builder = builder.Where(cond)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build %s list query: %w", table, err)
	}

	var items []T
	if err := db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", table, err)
	}

	return items, total, nil
}

func deleteBySlug(
	ctx context.Context,
	db *sqlx.DB,
	table string,
	slug string,
) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE slug = $1`, table)

	result, err := db.ExecContext(ctx, query, slug)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}

	if rows == 0 {
		return fmt.Errorf("delete from %s: %w", table, core.ErrNotFound)
	}

	return nil
}

func duplicateConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
