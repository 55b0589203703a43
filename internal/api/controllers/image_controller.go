package controllers

import (
	"github.com/gin-gonic/gin"
	"wayfare/internal/services"
	"wayfare/pkg/utils"
)

type ImageController struct {
	imageService services.ImageServiceInterface
}

func NewImageController(imageService services.ImageServiceInterface) *ImageController {
	return &ImageController{imageService: imageService}
}

// GetImage godoc
// @Summary Get one image for a place
// @Description Always answers; falls back to a placeholder derived from the place name
// @Tags Image
// @Produce json
// @Param place query string true "Place name"
// @Success 200 {object} response_models.ImageResponse
// @Router /images [get]
func (i *ImageController) GetImage(c *gin.Context) {
	image := i.imageService.Lookup(c.Request.Context(), c.Query("place"))
	utils.RespondSuccess(c, image, "")
}
