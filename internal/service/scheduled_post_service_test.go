package service

import (
	"context"
	"testing"
	"time"

	"tidepool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledPostService(t *testing.T) {
	r := setupTestRepos(t)
	userSvc := NewUserService(r.users, r.follows)
	svc := NewScheduledPostService(r.scheduled, r.hashtags)
	ctx := context.Background()

	alice := registerTestUser(t, userSvc, "alice")
	bob := registerTestUser(t, userSvc, "bob")

	dueAt := time.Now().UTC().Add(time.Hour).Truncate(time.Second)

	t.Run("Due time is required", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateScheduledPostInput{UserID: alice.ID, Title: "t", Content: "c"})
		assert.True(t, models.IsCode(err, models.CodeValidation))
	})

	t.Run("Create stores the due time and hashtags", func(t *testing.T) {
		sp, err := svc.Create(ctx, CreateScheduledPostInput{
			UserID: alice.ID, Title: "later", Content: "c",
			Hashtags: []string{"queued"}, DueAt: dueAt,
		})
		require.NoError(t, err)
		assert.WithinDuration(t, dueAt, sp.CreatedAt, time.Second)
		require.Len(t, sp.Hashtags, 1)
		assert.Equal(t, "#queued", sp.Hashtags[0].Name)
	})

	t.Run("Non-authors cannot see or touch the row", func(t *testing.T) {
		mine, err := svc.List(ctx, alice.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, mine, 1)

		theirs, err := svc.List(ctx, bob.ID, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, theirs)

		_, err = svc.Get(ctx, bob.ID, mine[0].ID)
		assert.True(t, models.IsCode(err, models.CodeForbidden))

		_, err = svc.Update(ctx, UpdateScheduledPostInput{UserID: bob.ID, PostID: mine[0].ID, Title: "stolen"})
		assert.True(t, models.IsCode(err, models.CodeForbidden))

		err = svc.Delete(ctx, bob.ID, mine[0].ID)
		assert.True(t, models.IsCode(err, models.CodeForbidden))
	})

	t.Run("Author can reschedule and retag", func(t *testing.T) {
		mine, err := svc.List(ctx, alice.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, mine, 1)

		newDue := dueAt.Add(24 * time.Hour)
		updated, err := svc.Update(ctx, UpdateScheduledPostInput{
			UserID: alice.ID, PostID: mine[0].ID,
			Title: "sooner or later", DueAt: newDue, Hashtags: []string{"retagged"},
		})
		require.NoError(t, err)
		assert.Equal(t, "sooner or later", updated.Title)
		assert.WithinDuration(t, newDue, updated.CreatedAt, time.Second)
		require.Len(t, updated.Hashtags, 1)
		assert.Equal(t, "#retagged", updated.Hashtags[0].Name)
	})

	t.Run("Author delete removes the row", func(t *testing.T) {
		mine, err := svc.List(ctx, alice.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, mine, 1)

		require.NoError(t, svc.Delete(ctx, alice.ID, mine[0].ID))

		remaining, err := svc.List(ctx, alice.ID, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})
}
