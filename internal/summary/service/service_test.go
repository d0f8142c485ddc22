package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/summaryhub/summaryhub/internal/models"
	"github.com/summaryhub/summaryhub/internal/summary"
	"github.com/summaryhub/summaryhub/internal/summary/repository"
)

// countingRepo counts reads so tests can pin down how often the service hits
// the store per operation.
type countingRepo struct {
	repository.Repository
	gets int
}

func (c *countingRepo) Get(ctx context.Context, id string) (*summary.Summary, error) {
	c.gets++
	return c.Repository.Get(ctx, id)
}

func serviceUser(role models.Role) *models.User {
	return &models.User{ID: primitive.NewObjectID(), Role: role}
}

func TestDeleteReadsOnce(t *testing.T) {
	repo := &countingRepo{Repository: repository.NewMemoryRepo()}
	svc := New(repo)
	owner := serviceUser(models.RoleWriter)

	created, err := svc.Create(context.Background(), owner, "https://example.com", "text")
	require.NoError(t, err)

	repo.gets = 0
	deleted, err := svc.Delete(context.Background(), owner, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "text", deleted.Summary)
	assert.Equal(t, 1, repo.gets)

	_, err = repo.Get(context.Background(), created.ID.Hex())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteForeignSummary(t *testing.T) {
	repo := &countingRepo{Repository: repository.NewMemoryRepo()}
	svc := New(repo)

	created, err := svc.Create(context.Background(), serviceUser(models.RoleWriter), "https://example.com", "")
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), serviceUser(models.RoleWriter), created.ID.Hex())
	assert.ErrorIs(t, err, ErrForbidden)

	// still there
	_, err = repo.Get(context.Background(), created.ID.Hex())
	assert.NoError(t, err)
}

func TestDeleteMissingSummary(t *testing.T) {
	svc := New(repository.NewMemoryRepo())

	_, err := svc.Delete(context.Background(), serviceUser(models.RoleAdmin), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}
