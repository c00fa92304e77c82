package a2a

import (
	"github.com/agentmesh/agentmesh/internal/domain/a2a"
	"github.com/agentmesh/agentmesh/internal/domain/capability"
)

// AgentMeta is the static configuration an agent descriptor is generated
// from. Primary is the capability this server invokes for tasks/send.
type AgentMeta struct {
	Name        string
	Description string
	BaseURL     string
	Primary     capability.Kind
}

// BuildDescriptor generates the agent descriptor on demand. It is a pure
// function of the metadata: no server state is consulted and nothing is
// cached. The endpoint URL advertised here is authoritative for clients
// and may differ from the URL they discovered against.
func BuildDescriptor(meta AgentMeta, kinds []capability.Kind) a2a.AgentDescriptor {
	return a2a.AgentDescriptor{
		Name:        meta.Name,
		Description: meta.Description,
		EndpointURL: meta.BaseURL + "/a2a",
		Version:     "1.0.0",
		Skills:      capability.SkillsFor(kinds),
		InputModes:  []string{"text/plain", "application/json"},
		OutputModes: []string{"text/plain", "application/json", "image/png"},
	}
}
