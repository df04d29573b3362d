package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"explorer-be/internal/entities"
	"explorer-be/internal/repository"
	"explorer-be/internal/service"
)

const qrCodeSize = 256

type QRCodeController struct {
	placeService service.PlaceService
}

func NewQRCodeController(placeService service.PlaceService) *QRCodeController {
	return &QRCodeController{placeService: placeService}
}

// MapLink is the map URL encoded in a place's QR code.
func MapLink(p *entities.Place) string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.6f&mlon=%.6f#map=15/%.6f/%.6f",
		p.Latitude, p.Longitude, p.Latitude, p.Longitude)
}

// GenerateQRCode handles GET /api/pois/:id/qrcode
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	place, err := qc.placeService.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "POI not found")
		return
	}
	if err != nil {
		respondInternal(c, err, "Failed to fetch POI")
		return
	}

	qrCode, err := qrcode.New(MapLink(place), qrcode.Medium)
	if err != nil {
		respondInternal(c, err, "Failed to generate QR code")
		return
	}

	pngData, err := qrCode.PNG(qrCodeSize)
	if err != nil {
		respondInternal(c, err, "Failed to generate QR code image")
		return
	}

	c.Header("Content-Disposition", "inline; filename=place-qrcode.png")
	c.Data(http.StatusOK, "image/png", pngData)
}
