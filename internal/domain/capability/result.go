package capability

import (
	"encoding/json"
	"time"
)

// Result is the tagged outcome of a capability invocation. Kind is the
// explicit discriminant; exactly one of the typed payloads matching Kind
// is set. Raw carries untagged legacy payloads that only ResultFromMap
// could classify.
type Result struct {
	Kind      Kind      `json:"kind"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	ErrorType string    `json:"error_type,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	Research  *ResearchResult  `json:"research,omitempty"`
	Writing   *WritingResult   `json:"writing,omitempty"`
	Image     *ImageResult     `json:"image,omitempty"`
	Report    *ReportResult    `json:"report,omitempty"`
	Assistant *AssistantResult `json:"assistant,omitempty"`

	Raw map[string]any `json:"-"`
}

// ResearchResult aggregates web research over a topic.
type ResearchResult struct {
	ResearchID    string         `json:"research_id"`
	Topic         string         `json:"topic"`
	SearchQueries []string       `json:"search_queries"`
	TotalResults  int            `json:"total_results"`
	Results       []SearchItem   `json:"results"`
	Summary       string         `json:"summary"`
	Knowledge     map[string]any `json:"knowledge_graph,omitempty"`
}

// SearchItem is one web search hit.
type SearchItem struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position,omitempty"`
}

// WritingResult is a generated article.
type WritingResult struct {
	ArticleID string `json:"article_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
	Style     string `json:"style"`
	Topic     string `json:"topic"`
}

// ImageResult describes an image persisted to disk.
type ImageResult struct {
	ImageID              string `json:"image_id"`
	FilePath             string `json:"file_path"`
	FileName             string `json:"file_name"`
	FileSizeKB           int64  `json:"file_size_kb"`
	Format               string `json:"image_format"`
	GenerationSuccessful bool   `json:"generation_successful"`
	Prompt               string `json:"prompt"`
	Style                string `json:"style"`
	AspectRatio          string `json:"aspect_ratio"`
}

// ReportResult is a structured research report.
type ReportResult struct {
	ReportID   string `json:"report_id"`
	Content    string `json:"content"`
	ReportType string `json:"report_type"`
	WordCount  int    `json:"word_count"`
	Sections   int    `json:"sections"`
}

// AssistantResult is the orchestrator's own top-level outcome: the final
// synthesized response plus the per-step record of the executed plan.
type AssistantResult struct {
	RequestID     string       `json:"request_id"`
	UserInput     string       `json:"user_input"`
	Analysis      Plan         `json:"analysis"`
	StepResults   []StepResult `json:"agent_results"`
	FinalResponse string       `json:"final_response"`
}

// StepResult records one executed plan step, successful or not.
type StepResult struct {
	Capability Kind           `json:"capability"`
	AgentName  string         `json:"agent_name,omitempty"`
	Input      string         `json:"input"`
	Success    bool           `json:"success"`
	Output     map[string]any `json:"output,omitempty"`
	Artifacts  []any          `json:"artifacts,omitempty"`
	Error      string         `json:"error,omitempty"`
	Attempts   int            `json:"attempts"`
}

// Succeeded builds a successful result of the given kind. The caller
// sets the matching payload field.
func Succeeded(kind Kind) *Result {
	return &Result{Kind: kind, Success: true, Timestamp: time.Now().UTC()}
}

// Failed builds a failed result carrying the error text.
func Failed(kind Kind, errText, errType string) *Result {
	return &Result{
		Kind:      kind,
		Success:   false,
		Error:     errText,
		ErrorType: errType,
		Timestamp: time.Now().UTC(),
	}
}

// Payload returns the structured record of the kind-matching payload as
// a generic map, the form embedded into artifacts. For legacy results it
// returns Raw unchanged.
func (r *Result) Payload() map[string]any {
	var v any
	switch r.Kind {
	case KindResearch:
		v = r.Research
	case KindWriting:
		v = r.Writing
	case KindImage:
		v = r.Image
	case KindReport:
		v = r.Report
	case KindAssistant:
		v = r.Assistant
	}
	if v == nil || isNilPointer(v) {
		if r.Raw != nil {
			return r.Raw
		}
		return map[string]any{}
	}
	return toMap(v)
}

func toMap(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{}
	}
	return m
}

func isNilPointer(v any) bool {
	switch t := v.(type) {
	case *ResearchResult:
		return t == nil
	case *WritingResult:
		return t == nil
	case *ImageResult:
		return t == nil
	case *ReportResult:
		return t == nil
	case *AssistantResult:
		return t == nil
	}
	return false
}
