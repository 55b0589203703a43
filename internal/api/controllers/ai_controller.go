package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	req "wayfare/internal/models/request_models"
	"wayfare/internal/services"
	"wayfare/pkg/utils"
)

const aiKeyHeader = "X-AI-Key"

type AIController struct {
	aiService services.AIServiceInterface
	logger    *zap.Logger
}

func NewAIController(aiService services.AIServiceInterface, logger *zap.Logger) *AIController {
	return &AIController{
		aiService: aiService,
		logger:    logger,
	}
}

// Generate godoc
// @Summary Generate flight or hotel offers with a language model
// @Description The model credential travels in the X-AI-Key header. Unparseable model output yields an empty list marked is_mock.
// @Tags AI
// @Accept json
// @Produce json
// @Param X-AI-Key header string true "Model API key"
// @Param request body request_models.GenerateRequest true "Query"
// @Success 200 {object} response_models.GenerateResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /ai/generate [post]
func (a *AIController) Generate(c *gin.Context) {
	apiKey := c.GetHeader(aiKeyHeader)
	if apiKey == "" {
		utils.RespondError(c, http.StatusUnauthorized, "X-AI-Key header is required")
		return
	}

	var body req.GenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	out, err := a.aiService.GenerateOffers(c.Request.Context(), apiKey, body)
	if err != nil {
		utils.HandleServiceError(c, a.logger, err)
		return
	}

	utils.RespondSuccess(c, out, "Offers generated")
}
