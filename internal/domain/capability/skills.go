package capability

import "github.com/agentmesh/agentmesh/internal/domain/a2a"

// skillCatalog maps each capability kind to its fixed descriptor skill
// record. The catalog is the only source of skill metadata; it is never
// consulted for routing.
var skillCatalog = map[Kind]a2a.Skill{
	KindImage: {
		ID:          "generate_image",
		Name:        "Image Generation",
		Description: "Generate images from text descriptions",
		Tags:        []string{"image", "generation", "ai"},
		Examples:    []string{"Generate a sunset landscape", "Create a robot illustration"},
	},
	KindWriting: {
		ID:          "write_article",
		Name:        "Article Writing",
		Description: "Write articles and content on any topic",
		Tags:        []string{"writing", "content", "articles"},
		Examples:    []string{"Write about climate change", "Create a tech article"},
	},
	KindResearch: {
		ID:          "research_topic",
		Name:        "Web Research",
		Description: "Search the web, gather information and summarize findings",
		Tags:        []string{"research", "search", "facts"},
		Examples:    []string{"Research renewable energy trends", "Find recent AI developments"},
	},
	KindReport: {
		ID:          "write_report",
		Name:        "Report Writing",
		Description: "Turn research data into structured reports",
		Tags:        []string{"report", "analysis", "documents"},
		Examples:    []string{"Create a comprehensive report on climate change"},
	},
	KindAssistant: {
		ID:          "process_request",
		Name:        "Request Processing",
		Description: "Analyze and coordinate complex user requests",
		Tags:        []string{"coordination", "analysis", "orchestration"},
		Examples:    []string{"Create article and image", "Coordinate multiple tasks"},
	},
}

// SkillsFor maps capability names to skill records. Unknown names are
// silently omitted, not an error.
func SkillsFor(kinds []Kind) []a2a.Skill {
	skills := make([]a2a.Skill, 0, len(kinds))
	for _, k := range kinds {
		if s, ok := skillCatalog[k]; ok {
			skills = append(skills, s)
		}
	}
	return skills
}
