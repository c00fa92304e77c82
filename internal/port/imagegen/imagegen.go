// Package imagegen defines the port for image generation.
package imagegen

import "context"

// Generator renders one image for a prompt and returns the raw bytes.
// aspectRatio is a model hint such as "16:9", "1:1" or "9:16".
type Generator interface {
	Generate(ctx context.Context, prompt, aspectRatio string) ([]byte, error)
}
