package system

import "net/http"

type Service struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Features    []string `json:"features"`
}

// catalog is served as-is by ServicesHandler. Ids are 1..6 in order.
var catalog = []Service{
	{
		ID:          1,
		Name:        "Custom Software Development",
		Description: "Tailored applications built around the way your business actually works.",
		Icon:        "code",
		Features:    []string{"Requirements workshops", "Agile delivery", "Legacy modernization", "Long-term maintenance"},
	},
	{
		ID:          2,
		Name:        "Web Application Development",
		Description: "Fast, accessible web applications from landing page to full platform.",
		Icon:        "globe",
		Features:    []string{"Single-page applications", "Progressive web apps", "API design", "Performance tuning"},
	},
	{
		ID:          3,
		Name:        "Mobile App Development",
		Description: "Native and cross-platform apps for iOS and Android.",
		Icon:        "smartphone",
		Features:    []string{"iOS and Android", "Cross-platform frameworks", "Offline support", "App store releases"},
	},
	{
		ID:          4,
		Name:        "Cloud & DevOps",
		Description: "Infrastructure that scales with you and deploys without drama.",
		Icon:        "cloud",
		Features:    []string{"Cloud migration", "CI/CD pipelines", "Infrastructure as code", "Monitoring and alerting"},
	},
	{
		ID:          5,
		Name:        "AI & Machine Learning",
		Description: "Put your data to work with models that ship to production.",
		Icon:        "cpu",
		Features:    []string{"Data pipelines", "Model development", "LLM integration", "MLOps"},
	},
	{
		ID:          6,
		Name:        "IT Consulting",
		Description: "Independent advice on architecture, security and technology strategy.",
		Icon:        "briefcase",
		Features:    []string{"Architecture reviews", "Security audits", "Technology roadmaps", "Team coaching"},
	},
}

// Catalog returns a copy of the service catalog.
func Catalog() []Service {
	out := make([]Service, len(catalog))
	copy(out, catalog)
	return out
}

func (s *System) ServicesHandler(w http.ResponseWriter, r *http.Request) {
	s.serveJSON(w, catalog, http.StatusOK)
}
