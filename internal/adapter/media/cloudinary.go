// Package media uploads recorded audio and generated images to Cloudinary.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/observability/telemetry"
	"github.com/seu-repo/voicebook/internal/ports"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

var ErrUploadRejected = errors.New("media upload rejected")

type Config struct {
	CloudName    string
	UploadPreset string
	BaseURL      string
	Timeout      time.Duration
}

// CloudinaryUploader performs unsigned uploads with an upload preset.
type CloudinaryUploader struct {
	cfg    Config
	client *http.Client
	cb     *gobreaker.CircuitBreaker
	log    *zap.Logger
}

var _ ports.MediaUploader = (*CloudinaryUploader)(nil)

func NewCloudinaryUploader(cfg Config, log *zap.Logger) *CloudinaryUploader {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "media-upload",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		// a rejected file says nothing about the service's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUploadRejected)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &CloudinaryUploader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cb:     cb,
		log:    log,
	}
}

// ResourceType picks the Cloudinary endpoint for a MIME type. Audio goes
// to the video endpoint, which is where Cloudinary serves it from.
func ResourceType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"), strings.HasPrefix(contentType, "audio/"):
		return "video"
	}
	return "auto"
}

type uploadResponse struct {
	SecureURL    string `json:"secure_url"`
	ResourceType string `json:"resource_type"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (u *CloudinaryUploader) Upload(ctx context.Context, blob []byte, filename, contentType string) (domain.Upload, error) {
	resource := ResourceType(contentType)

	result, err := u.cb.Execute(func() (interface{}, error) {
		return u.post(ctx, blob, filename, contentType, resource)
	})
	if err != nil {
		telemetry.MediaUploadsTotal.WithLabelValues(resource, "failed").Inc()
		if errors.Is(err, gobreaker.ErrOpenState) {
			u.log.Warn("Circuit breaker open, upload blocked", zap.String("filename", filename))
		}
		return domain.Upload{}, fmt.Errorf("upload %s: %w", filename, err)
	}

	telemetry.MediaUploadsTotal.WithLabelValues(resource, "ok").Inc()
	return result.(domain.Upload), nil
}

func (u *CloudinaryUploader) post(ctx context.Context, blob []byte, filename, contentType, resource string) (domain.Upload, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return domain.Upload{}, err
	}
	if _, err := part.Write(blob); err != nil {
		return domain.Upload{}, err
	}
	if err := w.WriteField("upload_preset", u.cfg.UploadPreset); err != nil {
		return domain.Upload{}, err
	}
	if err := w.Close(); err != nil {
		return domain.Upload{}, err
	}

	url := fmt.Sprintf("%s/%s/%s/upload", u.cfg.BaseURL, u.cfg.CloudName, resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return domain.Upload{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return domain.Upload{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Upload{}, err
	}

	var out uploadResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode >= 500 {
		return domain.Upload{}, fmt.Errorf("server error: %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		msg := string(raw)
		if out.Error != nil {
			msg = out.Error.Message
		}
		u.log.Error("Cloudinary upload error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return domain.Upload{}, fmt.Errorf("%w: %s", ErrUploadRejected, msg)
	}
	if out.SecureURL == "" {
		return domain.Upload{}, fmt.Errorf("%w: response has no url", ErrUploadRejected)
	}

	return domain.Upload{URL: out.SecureURL, ResourceType: out.ResourceType}, nil
}

// InlineUploader embeds blobs as data URIs. Used when no Cloudinary
// account is configured.
type InlineUploader struct{}

var _ ports.MediaUploader = InlineUploader{}

func (InlineUploader) Upload(_ context.Context, blob []byte, _ string, contentType string) (domain.Upload, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	telemetry.MediaUploadsTotal.WithLabelValues("inline", "ok").Inc()
	return domain.Upload{
		URL:          "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(blob),
		ResourceType: ResourceType(contentType),
	}, nil
}
