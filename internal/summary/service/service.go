package service

import (
	"context"
	"errors"

	"github.com/summaryhub/summaryhub/internal/models"
	"github.com/summaryhub/summaryhub/internal/summary"
	"github.com/summaryhub/summaryhub/internal/summary/repository"
)

var (
	// ErrNotFound also hides summaries the caller must not see; a reader
	// cannot distinguish "absent" from "not yours".
	ErrNotFound = errors.New("summary not found")

	// ErrForbidden means the summary exists and is visible, but the caller
	// may not modify it.
	ErrForbidden = errors.New("access denied")
)

// placeholderText fills the summary body until a real summary is provided.
const placeholderText = "dummy summary"

// Service applies ownership rules on top of the repository: admins see and
// touch everything, everyone else only their own summaries.
type Service struct {
	repo repository.Repository
}

func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, user *models.User, url, text string) (*summary.Summary, error) {
	if text == "" {
		text = placeholderText
	}
	return s.repo.Create(ctx, &summary.Summary{
		URL:     url,
		Summary: text,
		UserID:  user.ID.Hex(),
	})
}

func (s *Service) Get(ctx context.Context, user *models.User, id string) (*summary.Summary, error) {
	sum, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if !visible(user, sum) {
		return nil, ErrNotFound
	}
	return sum, nil
}

func (s *Service) List(ctx context.Context, user *models.User) ([]*summary.Summary, error) {
	owner := ""
	if user.Role != models.RoleAdmin {
		owner = user.ID.Hex()
	}
	return s.repo.List(ctx, owner)
}

func (s *Service) Update(ctx context.Context, user *models.User, id, url, text string) (*summary.Summary, error) {
	if _, err := s.checkOwnership(ctx, user, id); err != nil {
		return nil, err
	}
	sum, err := s.repo.Update(ctx, id, url, text)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return sum, nil
}

// Delete removes a summary and returns it, so callers can echo what was
// deleted.
func (s *Service) Delete(ctx context.Context, user *models.User, id string) (*summary.Summary, error) {
	sum, err := s.checkOwnership(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, mapRepoErr(err)
	}
	return sum, nil
}

// checkOwnership fetches the summary once and returns it; ErrNotFound for
// missing summaries, ErrForbidden for summaries owned by someone else
// (admins pass both).
func (s *Service) checkOwnership(ctx context.Context, user *models.User, id string) (*summary.Summary, error) {
	sum, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if user.Role == models.RoleAdmin || sum.UserID == user.ID.Hex() {
		return sum, nil
	}
	return nil, ErrForbidden
}

func visible(user *models.User, sum *summary.Summary) bool {
	return user.Role == models.RoleAdmin || sum.UserID == user.ID.Hex()
}

func mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
