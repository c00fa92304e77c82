package capability

import (
	"encoding/json"
	"time"
)

// ResultFromMap classifies an untagged structured record into a tagged
// Result using ordered shape rules. Result shapes are distinguished
// structurally, not by a type tag, so rule order is the disambiguation
// mechanism: research (summary + total_results) before image (file_path +
// generation_successful) before writing (content + word_count) before the
// legacy plain-content and inline-image forms, then assistant
// (final_response), then unknown.
func ResultFromMap(m map[string]any) *Result {
	r := &Result{
		Success:   boolField(m, "success"),
		Timestamp: time.Now().UTC(),
		Raw:       m,
	}
	if errText, ok := m["error"].(string); ok {
		r.Error = errText
	}

	switch {
	case hasKeys(m, "summary", "total_results"):
		r.Kind = KindResearch
		r.Research = decodeInto[ResearchResult](m)
	case hasKeys(m, "file_path", "generation_successful"):
		r.Kind = KindImage
		r.Image = decodeInto[ImageResult](m)
	case hasKeys(m, "content", "word_count"):
		if hasKeys(m, "report_id") || hasKeys(m, "report_type") {
			r.Kind = KindReport
			r.Report = decodeInto[ReportResult](m)
			return r
		}
		r.Kind = KindWriting
		r.Writing = decodeInto[WritingResult](m)
	case hasKeys(m, "content"), hasKeys(m, "image_data"):
		// Legacy plain-content and inline-binary forms stay untagged;
		// the artifact builder renders them from Raw.
		r.Kind = ""
	case hasKeys(m, "final_response"):
		r.Kind = KindAssistant
		r.Assistant = decodeInto[AssistantResult](m)
	default:
		r.Kind = ""
	}
	return r
}

func hasKeys(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func decodeInto[T any](m map[string]any) *T {
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return &v
}
