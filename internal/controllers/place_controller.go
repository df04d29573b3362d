package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"explorer-be/internal/entities"
	"explorer-be/internal/middleware"
	"explorer-be/internal/models"
	"explorer-be/internal/repository"
	"explorer-be/internal/service"
	"explorer-be/internal/validation"
)

type PlaceController struct {
	placeService service.PlaceService
}

func NewPlaceController(placeService service.PlaceService) *PlaceController {
	return &PlaceController{placeService: placeService}
}

func bindFilter(c *gin.Context) (repository.PlaceFilter, bool) {
	var query models.PlaceQuery
	if errs := validation.BindQuery(c, &query); errs != nil {
		respondValidation(c, errs)
		return repository.PlaceFilter{}, false
	}
	return repository.PlaceFilter{Category: entities.Category(query.Category)}, true
}

// List handles GET /api/pois
func (pc *PlaceController) List(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	places, err := pc.placeService.List(c.Request.Context(), filter)
	if err != nil {
		respondInternal(c, err, "Failed to fetch POIs")
		return
	}
	c.JSON(http.StatusOK, places)
}

// Create handles POST /api/pois
func (pc *PlaceController) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req models.CreatePlaceRequest
	if errs := validation.Bind(c, &req); errs != nil {
		respondValidation(c, errs)
		return
	}

	place, err := pc.placeService.Create(c.Request.Context(), user.ID, &req)
	if errors.Is(err, service.ErrOwnerNotFound) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		respondInternal(c, err, "Could not create POI")
		return
	}
	c.JSON(http.StatusCreated, place)
}

// DeleteAll handles DELETE /api/pois
func (pc *PlaceController) DeleteAll(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	if err := pc.placeService.DeleteAll(c.Request.Context(), filter); err != nil {
		respondInternal(c, err, "Failed to delete POIs")
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats handles GET /api/pois/stats
func (pc *PlaceController) Stats(c *gin.Context) {
	stats, err := pc.placeService.Stats(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "Failed to count POIs")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Get handles GET /api/pois/:id and GET /api/added-places/:id
func (pc *PlaceController) Get(c *gin.Context) {
	place, err := pc.placeService.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "POI not found")
		return
	}
	if err != nil {
		respondInternal(c, err, "Failed to fetch POI")
		return
	}
	c.JSON(http.StatusOK, place)
}

// Delete handles DELETE /api/pois/:id
func (pc *PlaceController) Delete(c *gin.Context) {
	_, err := pc.placeService.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "POI not found")
		return
	}
	if err != nil {
		respondInternal(c, err, "Failed to delete POI")
		return
	}
	c.Status(http.StatusNoContent)
}
