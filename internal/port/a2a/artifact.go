package a2a

import (
	"encoding/json"

	a2adomain "github.com/agentmesh/agentmesh/internal/domain/a2a"
	"github.com/agentmesh/agentmesh/internal/domain/capability"
)

// BuildArtifact turns a capability result into the task's artifact.
// Structured results carry a first-class data part with the full record,
// followed by an indented JSON text part kept for human display. Legacy
// untagged results fall back to the ordered shape rules of
// capability.ResultFromMap: plain content becomes a bare text part,
// inline binary images a file part, anything else a single data part.
//
// The construction is a pure function of the result: the same record
// always yields identical parts (the artifact name is timestamped, parts
// are not).
func BuildArtifact(res *capability.Result) a2adomain.Artifact {
	return a2adomain.NewArtifact(buildParts(res))
}

func buildParts(res *capability.Result) []a2adomain.Part {
	switch res.Kind {
	case capability.KindResearch, capability.KindImage,
		capability.KindWriting, capability.KindReport:
		payload := res.Payload()
		return []a2adomain.Part{
			a2adomain.DataPart(payload),
			a2adomain.TextPart(renderJSON(payload)),
		}

	case capability.KindAssistant:
		return assistantParts(res)

	default:
		return legacyParts(res.Raw)
	}
}

// assistantParts emits the final response as text plus the full
// structured record as data. File parts produced by coordinated
// sub-agents are flattened up into this artifact's own part list.
func assistantParts(res *capability.Result) []a2adomain.Part {
	payload := res.Payload()

	final, _ := payload["final_response"].(string)
	parts := []a2adomain.Part{a2adomain.TextPart(final)}

	if res.Assistant != nil {
		for _, step := range res.Assistant.StepResults {
			parts = append(parts, nestedFileParts(step.Artifacts)...)
		}
	}

	return append(parts, a2adomain.DataPart(payload))
}

// nestedFileParts extracts file parts from raw sub-agent artifacts.
func nestedFileParts(raw []any) []a2adomain.Part {
	var out []a2adomain.Part
	for _, entry := range raw {
		data, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		var artifact a2adomain.Artifact
		if err := json.Unmarshal(data, &artifact); err != nil {
			continue
		}
		for _, p := range artifact.Parts {
			if p.Kind == a2adomain.PartFile && p.File != nil {
				out = append(out, p)
			}
		}
	}
	return out
}

// legacyParts applies the historical ordered rules to an untagged record.
func legacyParts(raw map[string]any) []a2adomain.Part {
	if raw == nil {
		raw = map[string]any{}
	}

	if content, ok := raw["content"].(string); ok {
		return []a2adomain.Part{a2adomain.TextPart(content)}
	}

	if imageData, ok := raw["image_data"].(string); ok {
		imageID, _ := raw["image_id"].(string)
		if imageID == "" {
			imageID = "unknown"
		}
		return []a2adomain.Part{a2adomain.FilePart(a2adomain.FilePayload{
			Name:     "generated_image_" + imageID + ".png",
			MimeType: "image/png",
			Bytes:    imageData,
		})}
	}

	return []a2adomain.Part{a2adomain.DataPart(raw)}
}

func renderJSON(payload map[string]any) string {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
