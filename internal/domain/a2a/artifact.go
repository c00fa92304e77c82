package a2a

import "time"

// Artifact is the structured output container attached to a completed task.
type Artifact struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
	Parts []Part `json:"parts"`
}

// NewArtifact builds an artifact at index 0 with a timestamped name.
func NewArtifact(parts []Part) Artifact {
	return Artifact{
		Name:  "Result_" + time.Now().UTC().Format("20060102_150405"),
		Index: 0,
		Parts: parts,
	}
}
