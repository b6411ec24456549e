package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"block-builder-backend/internal/models"
	"block-builder-backend/internal/service"
)

type GeneratorHandler struct {
	generatorService *service.GeneratorService
}

func NewGeneratorHandler(generatorService *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{generatorService: generatorService}
}

// Generate renders a configuration without storing it. Unknown template types
// render the custom template.
func (h *GeneratorHandler) Generate(c *gin.Context) {
	var req models.GenerateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	code := h.generatorService.Generate(req.Config, req.TemplateType)
	c.JSON(http.StatusOK, code)
}

func (h *GeneratorHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.generatorService.Templates()})
}
