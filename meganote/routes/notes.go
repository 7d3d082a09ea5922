// meganote/routes/notes.go
package routes

import (
	"net/http"

	"meganote/meganote/controllers"
	"meganote/meganote/middlewares"
	"meganote/meganote/types"

	"github.com/go-chi/chi/v5"
)

// NotesRoutes attaches an explicit access policy to every route. Posting a
// message and probing a note are capability-gated: the code is the credential.
func NotesRoutes(notes *controllers.NotesController, messages *controllers.MessagesController, gate *middlewares.Gate) chi.Router {
	r := chi.NewRouter()
	owner := gate.Guard(middlewares.OwnerGated)
	capability := gate.Guard(middlewares.CapabilityGated)

	// Generate a new note
	r.With(owner).Post("/", handleJSON(func(r *http.Request) (any, int, error) {
		id, err := identity(r)
		if err != nil {
			return nil, 0, err
		}
		ref, err := notes.CreateNote(r.Context(), id.ID)
		if err != nil {
			return nil, 0, err
		}
		return map[string]any{
			"message":   "note created",
			"noteCode":  ref.Code,
			"shareUrl":  ref.ShareURL,
			"createdAt": ref.CreatedAt,
		}, http.StatusCreated, nil
	}))

	// List the caller's notes
	r.With(owner).Get("/", handleJSON(func(r *http.Request) (any, int, error) {
		id, err := identity(r)
		if err != nil {
			return nil, 0, err
		}
		list, err := notes.ListNotes(r.Context(), id.ID)
		if err != nil {
			return nil, 0, err
		}
		return list, http.StatusOK, nil
	}))

	// Probe a code; the owner also sees the messages
	r.With(capability).Get("/{code}", handleJSON(func(r *http.Request) (any, int, error) {
		var requester *types.Identity
		if id, ok := middlewares.IdentityFrom(r.Context()); ok {
			requester = &id
		}
		resp, err := messages.Probe(r.Context(), chi.URLParam(r, "code"), requester)
		if err != nil {
			return nil, 0, err
		}
		return resp, http.StatusOK, nil
	}))

	// Post a message, no account needed
	r.With(capability).Post("/{code}/messages", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.PostMessageRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, 0, err
		}
		ref, err := messages.Append(r.Context(), chi.URLParam(r, "code"), req.Content)
		if err != nil {
			return nil, 0, err
		}
		return map[string]any{
			"message":   "message sent",
			"id":        ref.ID,
			"createdAt": ref.CreatedAt,
		}, http.StatusCreated, nil
	}))

	// Read messages, owner only
	r.With(owner).Get("/{code}/messages", handleJSON(func(r *http.Request) (any, int, error) {
		id, err := identity(r)
		if err != nil {
			return nil, 0, err
		}
		msgs, err := messages.ListForOwner(r.Context(), chi.URLParam(r, "code"), id)
		if err != nil {
			return nil, 0, err
		}
		return msgs, http.StatusOK, nil
	}))
	return r
}
