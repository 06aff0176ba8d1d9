package services_test

import (
	"testing"

	"majalah/internal/apperrors"
	"majalah/internal/models"
	"majalah/internal/repositories"
	"majalah/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentFixture(t *testing.T) (*services.CommentService, *repositories.MockUserRepository) {
	t.Helper()
	commentRepo := repositories.NewMockCommentRepository()
	userRepo := repositories.NewMockUserRepository()
	return services.NewCommentService(commentRepo, userRepo), userRepo
}

func TestCommentService_Add(t *testing.T) {
	service, _ := newCommentFixture(t)

	comment, err := service.Add(subscriber, "mag-1", "  great first issue  ")
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, subscriber.UserID, comment.UserID)
	assert.Equal(t, "mag-1", comment.MagazineID)
	assert.Equal(t, "great first issue", comment.Content)

	_, err = service.Add(subscriber, "mag-1", "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = service.Add(subscriber, "", "hello")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCommentService_List(t *testing.T) {
	service, userRepo := newCommentFixture(t)
	require.NoError(t, userRepo.Create(&models.User{
		ID:    subscriber.UserID,
		Email: "sub-1@example.com",
		Role:  models.RoleSubscriber,
		Name:  "Sam Subscriber",
	}))

	_, err := service.Add(subscriber, "mag-1", "first")
	require.NoError(t, err)
	ghost := models.Principal{UserID: "ghost", Role: models.RoleSubscriber}
	_, err = service.Add(ghost, "mag-1", "second")
	require.NoError(t, err)
	_, err = service.Add(subscriber, "mag-2", "elsewhere")
	require.NoError(t, err)

	views, err := service.List("mag-1")
	require.NoError(t, err)
	require.Len(t, views, 2)

	byContent := make(map[string]models.CommentView, len(views))
	for _, v := range views {
		byContent[v.Content] = v
	}
	// Known author carries the public identity
	assert.Equal(t, "Sam Subscriber", byContent["first"].Author.Name)
	// Unknown author degrades to a bare id
	assert.Equal(t, models.Profile{ID: "ghost"}, byContent["second"].Author)

	views, err = service.List("mag-without-comments")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestCommentService_Update(t *testing.T) {
	service, _ := newCommentFixture(t)
	comment, err := service.Add(subscriber, "mag-1", "original")
	require.NoError(t, err)

	// Strangers may not edit
	_, err = service.Update(publisherA, comment.ID, "hijacked")
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	// The author may
	updated, err := service.Update(subscriber, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	// So may an admin
	updated, err = service.Update(admin, comment.ID, "moderated")
	require.NoError(t, err)
	assert.Equal(t, "moderated", updated.Content)

	_, err = service.Update(subscriber, comment.ID, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = service.Update(subscriber, "missing", "text")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCommentService_Delete(t *testing.T) {
	service, _ := newCommentFixture(t)
	comment, err := service.Add(subscriber, "mag-1", "to be removed")
	require.NoError(t, err)

	// Delete is author-only; even admins go through AdminDelete
	err = service.Delete(publisherA, comment.ID)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	err = service.Delete(admin, comment.ID)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	require.NoError(t, service.Delete(subscriber, comment.ID))
	err = service.Delete(subscriber, comment.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCommentService_AdminDelete(t *testing.T) {
	service, _ := newCommentFixture(t)
	comment, err := service.Add(subscriber, "mag-1", "spam")
	require.NoError(t, err)

	err = service.AdminDelete(subscriber, comment.ID)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	require.NoError(t, service.AdminDelete(admin, comment.ID))
	views, err := service.List("mag-1")
	require.NoError(t, err)
	assert.Empty(t, views)
}
