// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/mediacat/internal/core"
	"github.com/carterperez-dev/mediacat/internal/user"
)

// Caller identifies who is performing a write. Handlers fill it from the
// verified token claims; services never read the request context themselves.
type Caller struct {
	ID       string
	Username string
	Role     user.Role
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateReview stores one review per author per title. The existence
// pre-check gives the friendly message; the unique constraint in the
// database backstops the race between two concurrent submissions.
func (s *Service) CreateReview(
	ctx context.Context,
	titleID int64,
	caller Caller,
	req CreateReviewRequest,
) (*Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ReviewExistsByAuthor(ctx, titleID, caller.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errAlreadyReviewed()
	}

	rev := &Review{
		TitleID:        titleID,
		AuthorID:       caller.ID,
		AuthorUsername: caller.Username,
		Text:           req.Text,
		Score:          *req.Score,
	}

	if err := s.repo.CreateReview(ctx, rev); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, errAlreadyReviewed()
		}
		return nil, err
	}

	return rev, nil
}

func (s *Service) GetReview(
	ctx context.Context,
	titleID, reviewID int64,
) (*Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	return s.repo.GetReview(ctx, titleID, reviewID)
}

func (s *Service) ListReviews(
	ctx context.Context,
	titleID int64,
	params ListParams,
) ([]Review, int, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}

	return s.repo.ListReviews(ctx, titleID, params)
}

func (s *Service) UpdateReview(
	ctx context.Context,
	titleID, reviewID int64,
	caller Caller,
	req UpdateReviewRequest,
) (*Review, error) {
	rev, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !canModify(rev.AuthorID, caller) {
		return nil, fmt.Errorf("update review: %w", core.ErrForbidden)
	}

	if req.Text != nil {
		rev.Text = *req.Text
	}
	if req.Score != nil {
		rev.Score = *req.Score
	}

	if err := s.repo.UpdateReview(ctx, rev); err != nil {
		return nil, err
	}

	return rev, nil
}

func (s *Service) DeleteReview(
	ctx context.Context,
	titleID, reviewID int64,
	caller Caller,
) error {
	rev, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if !canModify(rev.AuthorID, caller) {
		return fmt.Errorf("delete review: %w", core.ErrForbidden)
	}

	return s.repo.DeleteReview(ctx, titleID, reviewID)
}

func (s *Service) CreateComment(
	ctx context.Context,
	titleID, reviewID int64,
	caller Caller,
	req CreateCommentRequest,
) (*Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	c := &Comment{
		ReviewID:       reviewID,
		AuthorID:       caller.ID,
		AuthorUsername: caller.Username,
		Text:           req.Text,
	}

	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) GetComment(
	ctx context.Context,
	titleID, reviewID, commentID int64,
) (*Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	return s.repo.GetComment(ctx, reviewID, commentID)
}

func (s *Service) ListComments(
	ctx context.Context,
	titleID, reviewID int64,
	params ListParams,
) ([]Comment, int, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	return s.repo.ListComments(ctx, reviewID, params)
}

func (s *Service) UpdateComment(
	ctx context.Context,
	titleID, reviewID, commentID int64,
	caller Caller,
	req UpdateCommentRequest,
) (*Comment, error) {
	c, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !canModify(c.AuthorID, caller) {
		return nil, fmt.Errorf("update comment: %w", core.ErrForbidden)
	}

	if req.Text != nil {
		c.Text = *req.Text
	}

	if err := s.repo.UpdateComment(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) DeleteComment(
	ctx context.Context,
	titleID, reviewID, commentID int64,
	caller Caller,
) error {
	c, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !canModify(c.AuthorID, caller) {
		return fmt.Errorf("delete comment: %w", core.ErrForbidden)
	}

	return s.repo.DeleteComment(ctx, reviewID, commentID)
}

func (s *Service) requireTitle(ctx context.Context, titleID int64) error {
	exists, err := s.repo.TitleExists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("title %d: %w", titleID, core.ErrNotFound)
	}
	return nil
}

// canModify allows the author plus anyone with moderation rights.
func canModify(authorID string, caller Caller) bool {
	return authorID == caller.ID || caller.Role.CanModerate()
}

func errAlreadyReviewed() error {
	return fmt.Errorf(
		"you have already reviewed this title: %w",
		core.ErrAlreadyExists,
	)
}
