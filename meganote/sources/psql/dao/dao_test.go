package dao

import (
	"context"
	"errors"
	"sync"
	"testing"

	"meganote/meganote/sources/psql/models"
	"meganote/meganote/sources/psql/psqltest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserDAO(t *testing.T) {
	db := psqltest.NewDatabase(t)
	users := NewUserDAO(db.DB)
	ctx := context.Background()

	u, err := users.CreateUser(ctx, "alice", "digest")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	_, err = users.CreateUser(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrDuplicateKey)

	// usernames are case-sensitive
	_, err = users.CreateUser(ctx, "Alice", "digest")
	require.NoError(t, err)

	got, err := users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "digest", got.PasswordDigest)

	got, err = users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)

	got, err = users.GetUserByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = users.GetUserByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNoteDAO(t *testing.T) {
	db := psqltest.NewDatabase(t)
	ctx := context.Background()
	alice, err := NewUserDAO(db.DB).CreateUser(ctx, "alice", "d")
	require.NoError(t, err)
	bob, err := NewUserDAO(db.DB).CreateUser(ctx, "bob", "d")
	require.NoError(t, err)

	notes := NewNoteDAO(db.DB)
	for _, code := range []string{"c1", "c2", "c3"} {
		require.NoError(t, notes.CreateNote(ctx, &models.Note{UserID: alice.ID, Code: code}))
	}
	require.NoError(t, notes.CreateNote(ctx, &models.Note{UserID: bob.ID, Code: "b1"}))

	err = notes.CreateNote(ctx, &models.Note{UserID: bob.ID, Code: "c1"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	list, err := notes.GetAllNotesByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c3", list[0].Code)
	assert.Equal(t, "c1", list[2].Code)

	list, err = notes.GetAllNotesByUser(ctx, 4242)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	n, err := notes.GetNoteByCode(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, bob.ID, n.UserID)

	n, err = notes.GetNoteByCode(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestMessageDAO_OrderAndCascade(t *testing.T) {
	db := psqltest.NewDatabase(t)
	ctx := context.Background()
	u, err := NewUserDAO(db.DB).CreateUser(ctx, "alice", "d")
	require.NoError(t, err)
	note := &models.Note{UserID: u.ID, Code: "code"}
	require.NoError(t, NewNoteDAO(db.DB).CreateNote(ctx, note))

	msgs := NewMessageDAO(db.DB)
	for _, c := range []string{"a", "b", "c"} {
		require.NoError(t, msgs.CreateMessage(ctx, &models.Message{NoteID: note.ID, Content: c}))
	}

	got, err := msgs.GetMessagesByNote(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Content, got[1].Content, got[2].Content})

	// unknown note ids violate the foreign key
	assert.Error(t, msgs.CreateMessage(ctx, &models.Message{NoteID: note.ID + 100, Content: "x"}))

	require.NoError(t, db.DB.WithContext(ctx).Delete(&models.User{}, u.ID).Error)
	got, err = msgs.GetMessagesByNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
	n, err := NewNoteDAO(db.DB).GetNoteByCode(ctx, "code")
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestMessageDAO_ConcurrentAppends(t *testing.T) {
	db := psqltest.NewDatabase(t)
	ctx := context.Background()
	u, err := NewUserDAO(db.DB).CreateUser(ctx, "alice", "d")
	require.NoError(t, err)
	note := &models.Note{UserID: u.ID, Code: "code"}
	require.NoError(t, NewNoteDAO(db.DB).CreateNote(ctx, note))

	msgs := NewMessageDAO(db.DB)
	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- msgs.CreateMessage(ctx, &models.Message{NoteID: note.ID, Content: "hi"})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := msgs.GetMessagesByNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Len(t, got, n)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
