package routes

import (
	"net/http"

	"meganote/meganote/controllers"
	"meganote/meganote/middlewares"

	"github.com/go-chi/chi/v5"
)

func UserRoutes(ctrl *controllers.UserController, gate *middlewares.Gate) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(gate.Guard(middlewares.OwnerGated))

		gr.Get("/", handleJSON(func(r *http.Request) (any, int, error) {
			id, err := identity(r)
			if err != nil {
				return nil, 0, err
			}
			user, err := ctrl.GetUser(r.Context(), id.ID)
			if err != nil {
				return nil, 0, err
			}
			return user, http.StatusOK, nil
		}))
	})

	return r
}
