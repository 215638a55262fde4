package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"scene-studio/internal/image"
)

// HTTPClient talks to the generation service over HTTP. Images travel as
// multipart PNG uploads; responses are JSON with base64-encoded PNG payloads.
type HTTPClient struct {
	cfg    Config
	client *http.Client
}

var _ Generator = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the configured service.
func NewHTTPClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

// serviceResponse is the JSON envelope every endpoint returns.
type serviceResponse struct {
	Image       string `json:"image"`
	DebugImage  string `json:"debug_image,omitempty"`
	DebugPrompt string `json:"debug_prompt,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CompositeScene sends product and scene to the /composite endpoint.
func (c *HTTPClient) CompositeScene(ctx context.Context, req CompositeRequest) (*CompositeResult, error) {
	fields := map[string]string{
		"product_label": req.ProductLabel,
		"scene_label":   req.SceneLabel,
		"position_x":    strconv.FormatFloat(req.Position.X, 'f', 4, 64),
		"position_y":    strconv.FormatFloat(req.Position.Y, 'f', 4, 64),
		"scale":         strconv.FormatFloat(req.Scale, 'f', 4, 64),
		"model":         c.cfg.Model,
	}
	images := map[string]*image.Buffer{
		"product": req.Product,
		"scene":   req.Scene,
	}

	resp, err := c.post(ctx, "/composite", fields, images)
	if err != nil {
		return nil, err
	}

	final, err := decodeImage(resp.Image)
	if err != nil {
		return nil, fmt.Errorf("composite response: %w", err)
	}
	result := &CompositeResult{Image: final, DebugPrompt: resp.DebugPrompt}
	if resp.DebugImage != "" {
		if dbg, err := decodeImage(resp.DebugImage); err == nil {
			result.DebugImage = dbg
		}
	}
	return result, nil
}

// RemoveBackground sends the product to the /remove-background endpoint.
func (c *HTTPClient) RemoveBackground(ctx context.Context, product *image.Buffer) (*image.Buffer, error) {
	resp, err := c.post(ctx, "/remove-background",
		map[string]string{"model": c.cfg.Model},
		map[string]*image.Buffer{"product": product})
	if err != nil {
		return nil, err
	}
	return decodeImage(resp.Image)
}

// RemoveBackgroundWithMask is the masked variant of RemoveBackground.
func (c *HTTPClient) RemoveBackgroundWithMask(ctx context.Context, product, mask *image.Buffer) (*image.Buffer, error) {
	resp, err := c.post(ctx, "/remove-background",
		map[string]string{"model": c.cfg.Model},
		map[string]*image.Buffer{"product": product, "mask": mask})
	if err != nil {
		return nil, err
	}
	return decodeImage(resp.Image)
}

// Inpaint sends the scene and a binary mask to the /inpaint endpoint.
func (c *HTTPClient) Inpaint(ctx context.Context, scene, mask *image.Buffer) (*image.Buffer, error) {
	resp, err := c.post(ctx, "/inpaint",
		map[string]string{"model": c.cfg.Model},
		map[string]*image.Buffer{"scene": scene, "mask": mask})
	if err != nil {
		return nil, err
	}
	return decodeImage(resp.Image)
}

// post builds a multipart request, sends it, and decodes the JSON envelope.
func (c *HTTPClient) post(ctx context.Context, path string, fields map[string]string, images map[string]*image.Buffer) (*serviceResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}
	for name, buf := range images {
		if buf == nil {
			continue
		}
		part, err := writer.CreateFormFile(name, name+".png")
		if err != nil {
			return nil, fmt.Errorf("failed to create part %s: %w", name, err)
		}
		if err := png.Encode(part, buf.ToNRGBA()); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+path, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation service unreachable: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read service response: %w", err)
	}

	var resp serviceResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("service returned status %d with unparseable body", httpResp.StatusCode)
	}
	if httpResp.StatusCode != http.StatusOK {
		if resp.Error != "" {
			return nil, fmt.Errorf("generation service: %s", resp.Error)
		}
		return nil, fmt.Errorf("generation service returned status %d", httpResp.StatusCode)
	}
	if resp.Image == "" {
		return nil, fmt.Errorf("generation service returned no image")
	}
	return &resp, nil
}

// decodeImage converts a base64 PNG payload into a Buffer.
func decodeImage(encoded string) (*image.Buffer, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid PNG image: %w", err)
	}
	return image.FromImage(img), nil
}
