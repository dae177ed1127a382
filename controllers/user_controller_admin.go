package controllers

import (
	"context"
	"net/http"

	"fabstore/models"

	"github.com/gin-gonic/gin"
)

type UserManager interface {
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, externalID, role string) (*models.User, error)
}

type UserController struct {
	users UserManager
}

func NewUserController(users UserManager) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) GetUsersAdmin(c *gin.Context) {
	users, err := uc.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "count": len(users), "data": users})
}

func (uc *UserController) UpdateUserRole(c *gin.Context) {
	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequestBody(c)
		return
	}

	user, err := uc.users.UpdateRole(c.Request.Context(), c.Param("id"), body.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "data": user})
}
