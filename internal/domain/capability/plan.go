package capability

// Plan is the ordered list of capabilities chosen for one request, plus
// the classifier's description of the primary task. Steps are executed
// strictly in order because later steps consume earlier results.
type Plan struct {
	Capabilities []Kind `json:"required_agents"`
	PrimaryTask  string `json:"primary_task"`
	Strategy     string `json:"coordination_strategy,omitempty"`
}

// Valid reports whether the plan carries both a non-empty capability
// list of known kinds and a primary-task description.
func (p Plan) Valid() bool {
	if len(p.Capabilities) == 0 || p.PrimaryTask == "" {
		return false
	}
	for _, k := range p.Capabilities {
		if !k.Known() {
			return false
		}
	}
	return true
}
