// meganote/controllers/user.go
package controllers

import (
	"context"

	"meganote/meganote/utils/apperrors"
)

type UserController struct {
	dao UserStore
}

func NewUserController(dao UserStore) *UserController {
	return &UserController{dao: dao}
}

// GetUser returns the public view of a user.
func (c *UserController) GetUser(ctx context.Context, id int) (*UserRef, error) {
	user, err := c.dao.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrNotFound
	}
	return &UserRef{ID: user.ID, Username: user.Username}, nil
}
