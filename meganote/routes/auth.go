// meganote/routes/auth.go
package routes

import (
	"net/http"

	"meganote/meganote/controllers"
	"meganote/meganote/middlewares"
	"meganote/meganote/types"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(ctrl *controllers.AuthController, gate *middlewares.Gate) chi.Router {
	r := chi.NewRouter()
	r.Use(gate.Guard(middlewares.Public))

	r.Post("/register", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, 0, err
		}
		user, err := ctrl.Register(r.Context(), req.Username, req.Password)
		if err != nil {
			return nil, 0, err
		}
		return map[string]any{
			"message":  "user registered",
			"id":       user.ID,
			"username": user.Username,
		}, http.StatusCreated, nil
	}))

	r.Post("/login", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, 0, err
		}
		session, err := ctrl.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			return nil, 0, err
		}
		return session, http.StatusOK, nil
	}))
	return r
}
