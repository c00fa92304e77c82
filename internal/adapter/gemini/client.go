// Package gemini provides text and image generation backed by the
// Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/agentmesh/agentmesh/internal/resilience"
)

// ErrNoImages is returned when the model produced no image candidates.
var ErrNoImages = errors.New("no images generated")

// Client wraps the genai SDK behind the textgen and imagegen ports.
type Client struct {
	model      string
	imageModel string
	c          *genai.Client
	breaker    *resilience.Breaker
}

// New creates a Gemini client for the given models.
func New(ctx context.Context, apiKey, model, imageModel string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{
		model:      model,
		imageModel: imageModel,
		c:          c,
	}, nil
}

// SetBreaker attaches a circuit breaker to all outgoing API calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// Generate produces text for a prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var text string
	call := func() error {
		contents := []*genai.Content{
			{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
		}
		result, err := c.c.Models.GenerateContent(ctx, c.model, contents, nil)
		if err != nil {
			return fmt.Errorf("generate content: %w", err)
		}
		text = result.Text()
		return nil
	}

	if err := c.execute(call); err != nil {
		return "", err
	}
	return text, nil
}

// GenerateImage renders one image for a prompt and returns the PNG bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	var data []byte
	call := func() error {
		resp, err := c.c.Models.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
			NumberOfImages: 1,
			AspectRatio:    aspectRatio,
		})
		if err != nil {
			return fmt.Errorf("generate images: %w", err)
		}
		if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
			return ErrNoImages
		}
		// The API may return extra candidates; only the first is used.
		data = resp.GeneratedImages[0].Image.ImageBytes
		return nil
	}

	if err := c.execute(call); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) execute(call func() error) error {
	if c.breaker != nil {
		return c.breaker.Execute(call)
	}
	return call()
}

// ImageGen is the imagegen.Generator view of the client; a separate
// type because Generate is already claimed by text generation.
type ImageGen struct {
	c *Client
}

// Images returns the image generation view of the client.
func (c *Client) Images() *ImageGen {
	return &ImageGen{c: c}
}

// Generate implements imagegen.Generator.
func (g *ImageGen) Generate(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	return g.c.GenerateImage(ctx, prompt, aspectRatio)
}
