package a2a

// WellKnownPath is the discovery endpoint every agent serves.
const WellKnownPath = "/.well-known/agent-descriptor"

// AgentDescriptor is the self-published metadata document describing an
// agent's identity and capabilities. It is immutable once published and
// regenerated from static metadata on every discovery fetch.
type AgentDescriptor struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	EndpointURL string   `json:"endpointURL"`
	Version     string   `json:"version"`
	Skills      []Skill  `json:"skills"`
	InputModes  []string `json:"inputModes"`
	OutputModes []string `json:"outputModes"`
}

// Skill describes one advertised capability. Purely descriptive; the
// server never consults skills for routing.
type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Examples    []string `json:"examples"`
}
