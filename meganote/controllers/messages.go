package controllers

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"meganote/meganote/sources/psql/models"
	"meganote/meganote/types"
	"meganote/meganote/utils/apperrors"
	"meganote/meganote/utils/logging"
	"meganote/meganote/utils/metrics"
)

type MessageStore interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessagesByNote(ctx context.Context, noteID int64) ([]models.Message, error)
}

type MessageRef struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessagesController is the append-only message ledger.
type MessagesController struct {
	dao       MessageStore
	notes     *NotesController
	maxLength int
}

func NewMessagesController(dao MessageStore, notes *NotesController, maxLength int) *MessagesController {
	return &MessagesController{dao: dao, notes: notes, maxLength: maxLength}
}

// Append needs no identity: holding the code is the permission to write.
func (c *MessagesController) Append(ctx context.Context, code, content string) (*MessageRef, error) {
	defer logging.LogDuration(ctx, "MessagesController.Append")()

	note, err := c.notes.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", apperrors.ErrInvalidInput)
	}
	if c.maxLength > 0 && utf8.RuneCountInString(content) > c.maxLength {
		return nil, fmt.Errorf("%w: content exceeds %d characters", apperrors.ErrInvalidInput, c.maxLength)
	}
	msg := &models.Message{NoteID: note.ID, Content: content}
	if err := c.dao.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	metrics.MessagesAppended.Inc()
	return &MessageRef{ID: msg.ID, CreatedAt: msg.CreatedAt}, nil
}

// List returns the note's messages oldest first. Callers must have checked
// ownership already.
func (c *MessagesController) List(ctx context.Context, note *models.Note) ([]types.MessageView, error) {
	msgs, err := c.dao.GetMessagesByNote(ctx, note.ID)
	if err != nil {
		return nil, err
	}
	out := make([]types.MessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, types.MessageView{Content: m.Content, CreatedAt: m.CreatedAt})
	}
	return out, nil
}

// ListForOwner resolves the code, checks ownership and lists the messages.
func (c *MessagesController) ListForOwner(ctx context.Context, code string, requester types.Identity) ([]types.MessageView, error) {
	defer logging.LogDuration(ctx, "MessagesController.ListForOwner")()

	note, err := c.notes.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := c.notes.Authorize(note, requester); err != nil {
		return nil, err
	}
	return c.List(ctx, note)
}

// Probe confirms the code exists and reveals messages only to the owner.
func (c *MessagesController) Probe(ctx context.Context, code string, requester *types.Identity) (*types.NoteProbeResponse, error) {
	note, err := c.notes.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := &types.NoteProbeResponse{Code: note.Code}
	if requester != nil && c.notes.IsOwner(note, *requester) {
		msgs, err := c.List(ctx, note)
		if err != nil {
			return nil, err
		}
		resp.Messages = &msgs
	}
	return resp, nil
}
