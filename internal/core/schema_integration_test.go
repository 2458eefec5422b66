// AngelaMos | 2026
// schema_integration_test.go

//go:build integration
// +build integration

package core

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startSchemaDB brings up a throwaway PostgreSQL container and applies the
// embedded migrations to it.
func startSchemaDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("mediacat_test"),
		postgres.WithUsername("mediacat"),
		postgres.WithPassword("mediacat"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(ctx, db))
	return db
}

func seedUser(t *testing.T, db *sqlx.DB, username string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO users (id, username, email) VALUES ($1, $2, $3)`,
		id, username, username+"@example.com")
	require.NoError(t, err)
	return id
}

func seedTitle(t *testing.T, db *sqlx.DB, name string, categoryID any) int64 {
	t.Helper()

	var id int64
	err := db.Get(&id, `
		INSERT INTO titles (name, year, category_id)
		VALUES ($1, 1982, $2)
		RETURNING id`, name, categoryID)
	require.NoError(t, err)
	return id
}

func TestDeleteActionsFollowSchema(t *testing.T) {
	db := startSchemaDB(t)
	ctx := context.Background()

	var categoryID int64
	require.NoError(t, db.GetContext(ctx, &categoryID,
		`INSERT INTO categories (name, slug) VALUES ('Movies', 'movies')
		 RETURNING id`))

	var genreID int64
	require.NoError(t, db.GetContext(ctx, &genreID,
		`INSERT INTO genres (name, slug) VALUES ('Horror', 'horror')
		 RETURNING id`))

	titleID := seedTitle(t, db, "The Thing", categoryID)
	_, err := db.ExecContext(ctx,
		`INSERT INTO genre_titles (title_id, genre_id) VALUES ($1, $2)`,
		titleID, genreID)
	require.NoError(t, err)

	t.Run("genre delete leaves title intact", func(t *testing.T) {
		_, err := db.ExecContext(ctx,
			`DELETE FROM genres WHERE id = $1`, genreID)
		require.NoError(t, err)

		var titleCount int
		require.NoError(t, db.GetContext(ctx, &titleCount,
			`SELECT COUNT(*) FROM titles WHERE id = $1`, titleID))
		assert.Equal(t, 1, titleCount, "title must survive a genre delete")

		var linkGenre sql.NullInt64
		require.NoError(t, db.GetContext(ctx, &linkGenre,
			`SELECT genre_id FROM genre_titles WHERE title_id = $1`, titleID))
		assert.False(t, linkGenre.Valid, "link keeps the row, genre_id goes NULL")
	})

	t.Run("category delete clears title category", func(t *testing.T) {
		_, err := db.ExecContext(ctx,
			`DELETE FROM categories WHERE id = $1`, categoryID)
		require.NoError(t, err)

		var titleCategory sql.NullInt64
		require.NoError(t, db.GetContext(ctx, &titleCategory,
			`SELECT category_id FROM titles WHERE id = $1`, titleID))
		assert.False(t, titleCategory.Valid)
	})

	t.Run("title delete cascades reviews and comments", func(t *testing.T) {
		authorID := seedUser(t, db, "alice")

		var reviewID int64
		require.NoError(t, db.GetContext(ctx, &reviewID, `
			INSERT INTO reviews (title_id, author_id, text, score)
			VALUES ($1, $2, 'great', 9)
			RETURNING id`, titleID, authorID))

		_, err := db.ExecContext(ctx, `
			INSERT INTO comments (review_id, author_id, text)
			VALUES ($1, $2, 'agreed')`, reviewID, authorID)
		require.NoError(t, err)

		_, err = db.ExecContext(ctx,
			`DELETE FROM titles WHERE id = $1`, titleID)
		require.NoError(t, err)

		var reviewCount, commentCount int
		require.NoError(t, db.GetContext(ctx, &reviewCount,
			`SELECT COUNT(*) FROM reviews WHERE id = $1`, reviewID))
		require.NoError(t, db.GetContext(ctx, &commentCount,
			`SELECT COUNT(*) FROM comments WHERE review_id = $1`, reviewID))
		assert.Zero(t, reviewCount)
		assert.Zero(t, commentCount)
	})
}

func TestReviewConstraints(t *testing.T) {
	db := startSchemaDB(t)
	ctx := context.Background()

	titleID := seedTitle(t, db, "Alien", nil)
	authorID := seedUser(t, db, "bob")

	_, err := db.ExecContext(ctx, `
		INSERT INTO reviews (title_id, author_id, text, score)
		VALUES ($1, $2, 'first', 8)`, titleID, authorID)
	require.NoError(t, err)

	t.Run("one review per title and author", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `
			INSERT INTO reviews (title_id, author_id, text, score)
			VALUES ($1, $2, 'second', 5)`, titleID, authorID)
		require.Error(t, err)

		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		assert.Equal(t, "23505", pgErr.Code)
		assert.Equal(t, "reviews_title_author_key", pgErr.ConstraintName)
	})

	t.Run("score outside range is rejected", func(t *testing.T) {
		otherAuthor := seedUser(t, db, "carol")

		_, err := db.ExecContext(ctx, `
			INSERT INTO reviews (title_id, author_id, text, score)
			VALUES ($1, $2, 'too high', 11)`, titleID, otherAuthor)
		require.Error(t, err)

		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		assert.Equal(t, "reviews_score_check", pgErr.ConstraintName)
	})
}
