package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilhq/coach/core"
)

// combined is the surface both implementations share.
type combined interface {
	core.MemoryStore
	core.MessageStore
}

func openStores(t *testing.T) map[string]combined {
	t.Helper()
	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "coach.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return map[string]combined{
		"sqlite":   sqlite,
		"inmemory": NewInMemory(),
	}
}

func TestMemoryCRUD(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			saved, err := s.Insert(ctx, core.Memory{
				UserID:   "u1",
				Category: core.CategoryAllergy,
				Content:  "Allergic to peanuts",
			})
			require.NoError(t, err)
			assert.NotEmpty(t, saved.ID)
			assert.Equal(t, 1, saved.Importance)
			assert.Equal(t, core.CreatorUser, saved.CreatedBy)
			assert.False(t, saved.CreatedAt.IsZero())

			got, err := s.Get(ctx, saved.ID)
			require.NoError(t, err)
			assert.Equal(t, "Allergic to peanuts", got.Content)

			newContent := "Allergic to all nuts"
			newCategory := core.CategoryDiet
			updated, err := s.Update(ctx, saved.ID, core.MemoryUpdate{
				Content:  &newContent,
				Category: &newCategory,
			})
			require.NoError(t, err)
			assert.Equal(t, newContent, updated.Content)
			assert.Equal(t, newCategory, updated.Category)
			assert.Equal(t, saved.UserID, updated.UserID)

			require.NoError(t, s.Delete(ctx, saved.ID))

			list, err := s.ListByUser(ctx, "u1")
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestMemoryInsertRejectsInvalid(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Insert(ctx, core.Memory{UserID: "u1", Category: "Invalid", Content: "x"})
			assert.ErrorIs(t, err, core.ErrInvalidCategory)

			_, err = s.Insert(ctx, core.Memory{UserID: "u1", Category: core.CategoryGoal})
			assert.ErrorIs(t, err, core.ErrEmptyContent)

			_, err = s.Insert(ctx, core.Memory{Category: core.CategoryGoal, Content: "x"})
			assert.ErrorIs(t, err, core.ErrMissingField)

			list, err := s.ListByUser(ctx, "u1")
			require.NoError(t, err)
			assert.Empty(t, list, "rejected inserts must not write rows")
		})
	}
}

func TestMemoryUpdateValidation(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			saved, err := s.Insert(ctx, core.Memory{
				UserID: "u1", Category: core.CategoryGoal, Content: "Lose 5kg",
			})
			require.NoError(t, err)

			bad := core.Category("Snacks")
			_, err = s.Update(ctx, saved.ID, core.MemoryUpdate{Category: &bad})
			assert.ErrorIs(t, err, core.ErrInvalidCategory)

			empty := ""
			_, err = s.Update(ctx, saved.ID, core.MemoryUpdate{Content: &empty})
			assert.ErrorIs(t, err, core.ErrEmptyContent)

			_, err = s.Update(ctx, "missing", core.MemoryUpdate{Content: &saved.Content})
			assert.ErrorIs(t, err, core.ErrNotFound)
		})
	}
}

func TestMemoryListNewestFirstAndUserScoped(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, content := range []string{"first", "second", "third"} {
				_, err := s.Insert(ctx, core.Memory{
					UserID: "u1", Category: core.CategoryPreference, Content: content,
				})
				require.NoError(t, err)
			}
			_, err := s.Insert(ctx, core.Memory{
				UserID: "u2", Category: core.CategoryGoal, Content: "other user",
			})
			require.NoError(t, err)

			list, err := s.ListByUser(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, "third", list[0].Content)
			assert.Equal(t, "first", list[2].Content)
		})
	}
}

func TestMessageAppendAndHistory(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Append(ctx, core.ChatMessage{UserID: "u1", Content: "hi", Role: core.RoleUser})
			require.NoError(t, err)
			_, err = s.Append(ctx, core.ChatMessage{UserID: "u1", Content: "hello!", Role: core.RoleAssistant})
			require.NoError(t, err)
			_, err = s.Append(ctx, core.ChatMessage{UserID: "u2", Content: "elsewhere", Role: core.RoleUser})
			require.NoError(t, err)

			history, err := s.History(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, history, 2)
			assert.Equal(t, core.RoleUser, history[0].Role)
			assert.Equal(t, core.RoleAssistant, history[1].Role)

			_, err = s.Append(ctx, core.ChatMessage{UserID: "u1", Content: "x", Role: "tool"})
			assert.Error(t, err)
		})
	}
}

func TestConcurrentInserts(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			const workers, perWorker = 8, 25

			var wg sync.WaitGroup
			errs := make(chan error, workers*perWorker)
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < perWorker; i++ {
						_, err := s.Insert(ctx, core.Memory{
							UserID: "u1", Category: core.CategoryPreference, Content: "likes tea",
						})
						if err != nil {
							errs <- err
						}
						_, err = s.Append(ctx, core.ChatMessage{
							UserID: "u1", Content: "hi", Role: core.RoleUser,
						})
						if err != nil {
							errs <- err
						}
					}
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Errorf("concurrent write failed: %v", err)
			}

			list, err := s.ListByUser(ctx, "u1")
			require.NoError(t, err)
			require.Len(t, list, workers*perWorker)
			seen := make(map[string]struct{}, len(list))
			for _, m := range list {
				seen[m.ID] = struct{}{}
			}
			assert.Len(t, seen, workers*perWorker, "memory ids must be unique")

			history, err := s.History(ctx, "u1")
			require.NoError(t, err)
			assert.Len(t, history, workers*perWorker)
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "coach.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	saved, err := s.Insert(ctx, core.Memory{
		UserID: "u1", Category: core.CategoryExercise, Content: "Runs every morning",
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Runs every morning", got.Content)
	assert.Equal(t, core.CategoryExercise, got.Category)
}
