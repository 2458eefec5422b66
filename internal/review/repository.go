// AngelaMos | 2026
// repository.go

package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/mediacat/internal/core"
)

type Repository interface {
	TitleExists(ctx context.Context, titleID int64) (bool, error)

	CreateReview(ctx context.Context, rev *Review) error
	GetReview(ctx context.Context, titleID, reviewID int64) (*Review, error)
	UpdateReview(ctx context.Context, rev *Review) error
	DeleteReview(ctx context.Context, titleID, reviewID int64) error
	ListReviews(
		ctx context.Context,
		titleID int64,
		params ListParams,
	) ([]Review, int, error)
	ReviewExistsByAuthor(
		ctx context.Context,
		titleID int64,
		authorID string,
	) (bool, error)

	CreateComment(ctx context.Context, c *Comment) error
	GetComment(ctx context.Context, reviewID, commentID int64) (*Comment, error)
	UpdateComment(ctx context.Context, c *Comment) error
	DeleteComment(ctx context.Context, reviewID, commentID int64) error
	ListComments(
		ctx context.Context,
		reviewID int64,
		params ListParams,
	) ([]Comment, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const reviewColumns = `r.id, r.title_id, r.author_id, r.text, r.score,
		       r.pub_date, u.username AS author_username`

const commentColumns = `c.id, c.review_id, c.author_id, c.text, c.pub_date,
		       u.username AS author_username`

func (r *repository) TitleExists(
	ctx context.Context,
	titleID int64,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM titles WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, titleID); err != nil {
		return false, fmt.Errorf("check title exists: %w", err)
	}

	return exists, nil
}

func (r *repository) CreateReview(ctx context.Context, rev *Review) error {
	query := `
		INSERT INTO reviews (title_id, author_id, text, score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, pub_date`

	err := r.db.GetContext(ctx, rev, query,
		rev.TitleID, rev.AuthorID, rev.Text, rev.Score)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("create review: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

func (r *repository) GetReview(
	ctx context.Context,
	titleID, reviewID int64,
) (*Review, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.title_id = $1 AND r.id = $2`, reviewColumns)

	var rev Review
	err := r.db.GetContext(ctx, &rev, query, titleID, reviewID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get review: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &rev, nil
}

func (r *repository) UpdateReview(ctx context.Context, rev *Review) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE reviews
		SET text = $2, score = $3
		WHERE id = $1`,
		rev.ID, rev.Text, rev.Score)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update review: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteReview(
	ctx context.Context,
	titleID, reviewID int64,
) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM reviews WHERE title_id = $1 AND id = $2`,
		titleID, reviewID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete review: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListReviews(
	ctx context.Context,
	titleID int64,
	params ListParams,
) ([]Review, int, error) {
	params.Normalize()

	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM reviews WHERE title_id = $1`, titleID)
	if err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.title_id = $1
		ORDER BY r.pub_date DESC, r.id DESC
		LIMIT $2 OFFSET $3`, reviewColumns)

	var reviews []Review
	err = r.db.SelectContext(ctx, &reviews, query,
		titleID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, total, nil
}

func (r *repository) ReviewExistsByAuthor(
	ctx context.Context,
	titleID int64,
	authorID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reviews
			WHERE title_id = $1 AND author_id = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, titleID, authorID)
	if err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}

	return exists, nil
}

func (r *repository) CreateComment(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (review_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, pub_date`

	err := r.db.GetContext(ctx, c, query, c.ReviewID, c.AuthorID, c.Text)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

func (r *repository) GetComment(
	ctx context.Context,
	reviewID, commentID int64,
) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.review_id = $1 AND c.id = $2`, commentColumns)

	var c Comment
	err := r.db.GetContext(ctx, &c, query, reviewID, commentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get comment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return &c, nil
}

func (r *repository) UpdateComment(ctx context.Context, c *Comment) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE comments
		SET text = $2
		WHERE id = $1`,
		c.ID, c.Text)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update comment: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteComment(
	ctx context.Context,
	reviewID, commentID int64,
) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE review_id = $1 AND id = $2`,
		reviewID, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete comment: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListComments(
	ctx context.Context,
	reviewID int64,
	params ListParams,
) ([]Comment, int, error) {
	params.Normalize()

	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM comments WHERE review_id = $1`, reviewID)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.review_id = $1
		ORDER BY c.pub_date DESC, c.id DESC
		LIMIT $2 OFFSET $3`, commentColumns)

	var comments []Comment
	err = r.db.SelectContext(ctx, &comments, query,
		reviewID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	return comments, total, nil
}

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
