package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"explorer-be/internal/models"
	"explorer-be/internal/repository"
	"explorer-be/internal/service"
	"explorer-be/internal/validation"
)

type UserController struct {
	authService service.AuthService
	userService service.UserService
}

func NewUserController(authService service.AuthService, userService service.UserService) *UserController {
	return &UserController{
		authService: authService,
		userService: userService,
	}
}

// List handles GET /api/users
func (uc *UserController) List(c *gin.Context) {
	users, err := uc.userService.List(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create handles POST /api/users
func (uc *UserController) Create(c *gin.Context) {
	var req models.RegisterRequest
	if errs := validation.Bind(c, &req); errs != nil {
		respondValidation(c, errs)
		return
	}

	user, err := uc.authService.Register(c.Request.Context(), &req)
	if errors.Is(err, service.ErrEmailTaken) {
		respondError(c, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		respondInternal(c, err, "Could not create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Authenticate handles POST /api/users/authenticate
func (uc *UserController) Authenticate(c *gin.Context) {
	var req models.LoginRequest
	if errs := validation.Bind(c, &req); errs != nil {
		respondValidation(c, errs)
		return
	}

	response, err := uc.authService.IssueToken(c.Request.Context(), &req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		respondInternal(c, err, "Could not authenticate user")
		return
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/users/:id
func (uc *UserController) Get(c *gin.Context) {
	user, err := uc.userService.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "No User with this id")
		return
	}
	if err != nil {
		respondInternal(c, err, "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /api/users/:id
func (uc *UserController) Delete(c *gin.Context) {
	err := uc.userService.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondInternal(c, err, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteAll handles DELETE /api/users
func (uc *UserController) DeleteAll(c *gin.Context) {
	if err := uc.userService.DeleteAll(c.Request.Context()); err != nil {
		respondInternal(c, err, "Failed to delete users")
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleFavourite handles POST /api/users/:id/favourites/:poiId
func (uc *UserController) ToggleFavourite(c *gin.Context) {
	favourites, err := uc.userService.ToggleFavourite(c.Request.Context(), c.Param("id"), c.Param("poiId"))
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondInternal(c, err, "Failed to toggle favourite")
		return
	}
	c.JSON(http.StatusOK, models.FavouritesResponse{Favourites: favourites})
}

// Favourites handles GET /api/users/:id/favourites
func (uc *UserController) Favourites(c *gin.Context) {
	places, err := uc.userService.Favourites(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondInternal(c, err, "Failed to fetch favourites")
		return
	}
	c.JSON(http.StatusOK, places)
}
