package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agentmesh/agentmesh/internal/domain/capability"
	"github.com/agentmesh/agentmesh/internal/port/artifactstore"
	"github.com/agentmesh/agentmesh/internal/port/imagegen"
)

const (
	defaultImageStyle  = "professional"
	defaultAspectRatio = "16:9"
	imageErrType       = "image_generation_error"
)

// styleEnhancements prefix the user prompt with visual direction per
// style. Unknown styles fall back to professional.
var styleEnhancements = map[string]string{
	"professional": "professional, high-quality, clean composition, corporate style, well-lit",
	"artistic":     "artistic, creative, expressive, unique perspective, dynamic composition",
	"photographic": "photographic, realistic, detailed, sharp focus, natural lighting",
	"minimalist":   "minimalist, clean, simple, uncluttered, modern design",
	"vintage":      "vintage, retro, classic style, warm tones, nostalgic feel",
}

// ImageBackend renders one image per request and persists it.
type ImageBackend struct {
	gen   imagegen.Generator
	store artifactstore.Store
	log   *slog.Logger
}

// NewImageBackend creates the image generation capability.
func NewImageBackend(gen imagegen.Generator, store artifactstore.Store, log *slog.Logger) *ImageBackend {
	return &ImageBackend{gen: gen, store: store, log: log}
}

// Kind implements agentbackend.Backend.
func (b *ImageBackend) Kind() capability.Kind { return capability.KindImage }

// Invoke enhances the prompt, generates a single image and saves it,
// reporting the resulting file metadata.
func (b *ImageBackend) Invoke(ctx context.Context, input string) (*capability.Result, error) {
	prompt := strings.TrimSpace(input)
	if prompt == "" {
		return capability.Failed(capability.KindImage, "empty image prompt", imageErrType), nil
	}

	enhanced := EnhancePrompt(prompt, defaultImageStyle)

	data, err := b.gen.Generate(ctx, enhanced, defaultAspectRatio)
	if err != nil {
		return capability.Failed(capability.KindImage, err.Error(), imageErrType), nil
	}

	saved, err := b.store.SaveImage(ctx, data, prompt, defaultImageStyle)
	if err != nil {
		return capability.Failed(capability.KindImage,
			fmt.Sprintf("failed to save image: %v", err), imageErrType), nil
	}

	out := capability.Succeeded(capability.KindImage)
	out.Image = &capability.ImageResult{
		ImageID:              saved.ID,
		FilePath:             saved.Path,
		FileName:             saved.Name,
		FileSizeKB:           saved.SizeKB,
		Format:               "png",
		GenerationSuccessful: true,
		Prompt:               prompt,
		Style:                defaultImageStyle,
		AspectRatio:          defaultAspectRatio,
	}
	b.log.Info("image generated", "file", saved.Name, "size_kb", saved.SizeKB)
	return out, nil
}

// EnhancePrompt expands a basic prompt with style-specific direction.
func EnhancePrompt(prompt, style string) string {
	enhancement, ok := styleEnhancements[style]
	if !ok {
		enhancement = styleEnhancements[defaultImageStyle]
	}
	return fmt.Sprintf("%s, %s, high resolution, detailed, visually appealing", enhancement, prompt)
}
