// Package capability defines capability kinds, their tagged result
// variants and the execution plan produced by request classification.
package capability

// Kind identifies a capability a mesh agent can perform.
type Kind string

const (
	KindResearch  Kind = "research"
	KindWriting   Kind = "writing"
	KindImage     Kind = "image"
	KindReport    Kind = "report"
	KindAssistant Kind = "assistant"
)

// Known reports whether k names a capability the mesh understands.
func (k Kind) Known() bool {
	switch k {
	case KindResearch, KindWriting, KindImage, KindReport, KindAssistant:
		return true
	}
	return false
}
