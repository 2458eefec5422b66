// AngelaMos | 2026
// service_test.go

package review

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/mediacat/internal/core"
	"github.com/carterperez-dev/mediacat/internal/user"
)

type fakeRepo struct {
	Repository

	titles    map[int64]bool
	reviews   map[int64]*Review
	comments  map[int64]*Comment
	nextID    int64
	duplicate bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		titles:   make(map[int64]bool),
		reviews:  make(map[int64]*Review),
		comments: make(map[int64]*Comment),
		nextID:   1,
	}
}

func (f *fakeRepo) TitleExists(_ context.Context, titleID int64) (bool, error) {
	return f.titles[titleID], nil
}

func (f *fakeRepo) ReviewExistsByAuthor(
	_ context.Context,
	titleID int64,
	authorID string,
) (bool, error) {
	for _, rev := range f.reviews {
		if rev.TitleID == titleID && rev.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CreateReview(_ context.Context, rev *Review) error {
	if f.duplicate {
		return fmt.Errorf("create review: %w", core.ErrDuplicateKey)
	}
	rev.ID = f.nextID
	f.nextID++
	f.reviews[rev.ID] = rev
	return nil
}

func (f *fakeRepo) GetReview(
	_ context.Context,
	titleID, reviewID int64,
) (*Review, error) {
	rev, ok := f.reviews[reviewID]
	if !ok || rev.TitleID != titleID {
		return nil, fmt.Errorf("get review: %w", core.ErrNotFound)
	}
	return rev, nil
}

func (f *fakeRepo) UpdateReview(_ context.Context, rev *Review) error {
	f.reviews[rev.ID] = rev
	return nil
}

func (f *fakeRepo) DeleteReview(
	_ context.Context,
	titleID, reviewID int64,
) error {
	delete(f.reviews, reviewID)
	return nil
}

func (f *fakeRepo) CreateComment(_ context.Context, c *Comment) error {
	c.ID = f.nextID
	f.nextID++
	f.comments[c.ID] = c
	return nil
}

func (f *fakeRepo) GetComment(
	_ context.Context,
	reviewID, commentID int64,
) (*Comment, error) {
	c, ok := f.comments[commentID]
	if !ok || c.ReviewID != reviewID {
		return nil, fmt.Errorf("get comment: %w", core.ErrNotFound)
	}
	return c, nil
}

func (f *fakeRepo) UpdateComment(_ context.Context, c *Comment) error {
	f.comments[c.ID] = c
	return nil
}

func (f *fakeRepo) DeleteComment(
	_ context.Context,
	reviewID, commentID int64,
) error {
	delete(f.comments, commentID)
	return nil
}

func intPtr(n int) *int { return &n }

var (
	author    = Caller{ID: "u1", Username: "alice", Role: user.RoleUser}
	stranger  = Caller{ID: "u2", Username: "bob", Role: user.RoleUser}
	moderator = Caller{ID: "u3", Username: "mia", Role: user.RoleModerator}
	adm       = Caller{ID: "u4", Username: "root", Role: user.RoleAdmin}
)

func seedReview(t *testing.T, svc *Service) *Review {
	t.Helper()

	rev, err := svc.CreateReview(context.Background(), 1, author,
		CreateReviewRequest{Text: "great", Score: intPtr(8)})
	require.NoError(t, err)
	return rev
}

func TestCreateReviewMissingTitle(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreateReview(context.Background(), 99, author,
		CreateReviewRequest{Text: "great", Score: intPtr(8)})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateReviewOncePerAuthor(t *testing.T) {
	repo := newFakeRepo()
	repo.titles[1] = true
	svc := NewService(repo)

	seedReview(t, svc)

	_, err := svc.CreateReview(context.Background(), 1, author,
		CreateReviewRequest{Text: "again", Score: intPtr(3)})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "already reviewed")

	// A different author on the same title is fine.
	_, err = svc.CreateReview(context.Background(), 1, stranger,
		CreateReviewRequest{Text: "meh", Score: intPtr(4)})
	require.NoError(t, err)
}

func TestCreateReviewDuplicateKeyBackstop(t *testing.T) {
	repo := newFakeRepo()
	repo.titles[1] = true
	repo.duplicate = true
	svc := NewService(repo)

	_, err := svc.CreateReview(context.Background(), 1, author,
		CreateReviewRequest{Text: "race", Score: intPtr(5)})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAlreadyExists,
		"constraint violation surfaces as the same conflict")
}

func TestUpdateReviewPermissions(t *testing.T) {
	tests := []struct {
		name      string
		caller    Caller
		forbidden bool
	}{
		{"author may edit", author, false},
		{"stranger may not", stranger, true},
		{"moderator may edit", moderator, false},
		{"admin may edit", adm, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			repo.titles[1] = true
			svc := NewService(repo)
			rev := seedReview(t, svc)

			text := "edited"
			_, err := svc.UpdateReview(context.Background(), 1, rev.ID,
				tt.caller, UpdateReviewRequest{Text: &text})

			if tt.forbidden {
				require.Error(t, err)
				assert.ErrorIs(t, err, core.ErrForbidden)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "edited", repo.reviews[rev.ID].Text)
		})
	}
}

func TestDeleteReviewPermissions(t *testing.T) {
	repo := newFakeRepo()
	repo.titles[1] = true
	svc := NewService(repo)
	rev := seedReview(t, svc)

	err := svc.DeleteReview(context.Background(), 1, rev.ID, stranger)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrForbidden)

	err = svc.DeleteReview(context.Background(), 1, rev.ID, moderator)
	require.NoError(t, err)
	assert.NotContains(t, repo.reviews, rev.ID)
}

func TestCommentsRequireExistingReview(t *testing.T) {
	repo := newFakeRepo()
	repo.titles[1] = true
	svc := NewService(repo)

	_, err := svc.CreateComment(context.Background(), 1, 999, author,
		CreateCommentRequest{Text: "hello"})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCommentOwnerAndModeratorRights(t *testing.T) {
	repo := newFakeRepo()
	repo.titles[1] = true
	svc := NewService(repo)
	rev := seedReview(t, svc)

	c, err := svc.CreateComment(context.Background(), 1, rev.ID, stranger,
		CreateCommentRequest{Text: "hello"})
	require.NoError(t, err)

	text := "edited"
	_, err = svc.UpdateComment(context.Background(), 1, rev.ID, c.ID,
		author, UpdateCommentRequest{Text: &text})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrForbidden,
		"review author has no special rights over others' comments")

	_, err = svc.UpdateComment(context.Background(), 1, rev.ID, c.ID,
		stranger, UpdateCommentRequest{Text: &text})
	require.NoError(t, err)

	err = svc.DeleteComment(context.Background(), 1, rev.ID, c.ID, adm)
	require.NoError(t, err)
}
