// meganote/controllers/notes.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"meganote/meganote/sources/psql/dao"
	"meganote/meganote/sources/psql/models"
	"meganote/meganote/types"
	"meganote/meganote/utils/apperrors"
	"meganote/meganote/utils/logging"
	"meganote/meganote/utils/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxCodeAttempts bounds regeneration after a code collision.
const maxCodeAttempts = 5

type NoteStore interface {
	CreateNote(ctx context.Context, note *models.Note) error
	GetNoteByCode(ctx context.Context, code string) (*models.Note, error)
	GetAllNotesByUser(ctx context.Context, userID int) ([]models.Note, error)
}

type NoteRef struct {
	Code      string    `json:"noteCode"`
	ShareURL  string    `json:"shareUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type NoteSummary struct {
	Code      string    `json:"noteCode"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotesController is the note registry.
type NotesController struct {
	dao     NoteStore
	origin  string
	newCode func() (string, error)
}

func NewNotesController(dao NoteStore, publicOrigin string) *NotesController {
	return &NotesController{
		dao:     dao,
		origin:  strings.TrimRight(publicOrigin, "/"),
		newCode: newNoteCode,
	}
}

// newNoteCode draws a random UUIDv4, 122 bits of entropy.
func newNoteCode() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ShareURL is the capability link handed to writers.
func (c *NotesController) ShareURL(code string) string {
	return c.origin + "/?note=" + url.QueryEscape(code)
}

func (c *NotesController) CreateNote(ctx context.Context, ownerID int) (*NoteRef, error) {
	defer logging.LogDuration(ctx, "NotesController.CreateNote")()

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := c.newCode()
		if err != nil {
			return nil, fmt.Errorf("generate note code: %w", err)
		}
		note := &models.Note{UserID: ownerID, Code: code}
		err = c.dao.CreateNote(ctx, note)
		if errors.Is(err, dao.ErrDuplicateKey) {
			metrics.NoteCodeCollisions.Inc()
			logging.AppLogger.Warn("note code collision, regenerating", zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}
		metrics.NotesCreated.Inc()
		return &NoteRef{Code: note.Code, ShareURL: c.ShareURL(note.Code), CreatedAt: note.CreatedAt}, nil
	}
	return nil, fmt.Errorf("create note: no unique code after %d attempts", maxCodeAttempts)
}

// ListNotes returns every note of the owner, newest first.
func (c *NotesController) ListNotes(ctx context.Context, ownerID int) ([]NoteSummary, error) {
	notes, err := c.dao.GetAllNotesByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]NoteSummary, 0, len(notes))
	for _, n := range notes {
		out = append(out, NoteSummary{Code: n.Code, CreatedAt: n.CreatedAt})
	}
	return out, nil
}

func (c *NotesController) FindByCode(ctx context.Context, code string) (*models.Note, error) {
	if code == "" {
		return nil, apperrors.ErrNotFound
	}
	note, err := c.dao.GetNoteByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("note: %w", apperrors.ErrNotFound)
	}
	return note, nil
}

func (c *NotesController) IsOwner(note *models.Note, requester types.Identity) bool {
	return note.UserID == requester.ID
}

// Authorize permits only the note's owner.
func (c *NotesController) Authorize(note *models.Note, requester types.Identity) error {
	if !c.IsOwner(note, requester) {
		return apperrors.ErrForbidden
	}
	return nil
}
