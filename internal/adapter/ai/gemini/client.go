package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/seu-repo/voicebook/internal/ports"
)

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-3.0-generate-002"
)

var ErrNoImage = errors.New("gemini: no image returned")

type Config struct {
	APIKey     string
	TextModel  string
	ImageModel string
}

// Client talks to the Gemini API. It classifies utterances into JSON and
// generates images.
type Client struct {
	genai      *genai.Client
	textModel  string
	imageModel string
	logger     *zap.Logger
}

var (
	_ ports.LLMClient      = (*Client)(nil)
	_ ports.ImageGenerator = (*Client)(nil)
)

func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}

	logger.Info("Gemini client initialized",
		zap.String("text_model", cfg.TextModel),
		zap.String("image_model", cfg.ImageModel),
	)
	return &Client{
		genai:      c,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		logger:     logger,
	}, nil
}

// GenerateJSON sends the utterance with the given system instruction and
// asks for a JSON response. The raw response text is returned unparsed.
func (c *Client) GenerateJSON(ctx context.Context, systemInstruction, utterance string) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, c.textModel,
		[]*genai.Content{genai.NewContentFromText(utterance, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			Temperature:       genai.Ptr[float32](0),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

// GenerateImage renders one square JPEG for prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	resp, err := c.genai.Models.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
		AspectRatio:    "1:1",
	})
	if err != nil {
		return nil, "", fmt.Errorf("gemini generate images: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, "", ErrNoImage
	}
	img := resp.GeneratedImages[0].Image
	mime := img.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	c.logger.Debug("Image generated", zap.Int("bytes", len(img.ImageBytes)))
	return img.ImageBytes, mime, nil
}

// DataURI encodes an image for inline display.
func DataURI(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

var ErrNotConfigured = errors.New("gemini: no api key configured")

// DisabledImages stands in for the image generator when Gemini is off.
type DisabledImages struct{}

func (DisabledImages) GenerateImage(context.Context, string) ([]byte, string, error) {
	return nil, "", ErrNotConfigured
}
