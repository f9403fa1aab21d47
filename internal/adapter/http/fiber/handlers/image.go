package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/adapter/ai/gemini"
	"github.com/seu-repo/voicebook/internal/ports"
)

type ImageHandler struct {
	generator ports.ImageGenerator
	uploader  ports.MediaUploader
	log       *zap.Logger
}

// NewImageHandler serves image generation. uploader is optional; without it
// the image is returned inline as a data URI.
func NewImageHandler(generator ports.ImageGenerator, uploader ports.MediaUploader, log *zap.Logger) *ImageHandler {
	return &ImageHandler{generator: generator, uploader: uploader, log: log}
}

type GenerateImageRequest struct {
	Prompt string `json:"prompt"`
}

type GenerateImageResponse struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
}

func (h *ImageHandler) Generate(c *fiber.Ctx) error {
	var req GenerateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return fiber.NewError(fiber.StatusBadRequest, "prompt is required")
	}

	data, mimeType, err := h.generator.GenerateImage(c.UserContext(), req.Prompt)
	if err != nil {
		h.log.Error("Image generation failed", zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "image generation failed")
	}

	if h.uploader == nil {
		return c.JSON(GenerateImageResponse{URL: gemini.DataURI(data, mimeType), MimeType: mimeType})
	}

	up, err := h.uploader.Upload(c.UserContext(), data, "generated.jpg", mimeType)
	if err != nil {
		h.log.Error("Generated image upload failed", zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "image upload failed")
	}

	return c.JSON(GenerateImageResponse{URL: up.URL, MimeType: mimeType})
}
