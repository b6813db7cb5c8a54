package domain

// Project is read-only reference data used to group tickets.
type Project struct {
	ID     string        `json:"id"`
	Key    string        `json:"key"`
	Status ProjectStatus `json:"status"`
	Title  string        `json:"title"`
	Color  string        `json:"color"`
}

// IsActive reports whether new tickets may be filed under the project.
func (p *Project) IsActive() bool {
	return p.Status == "" || p.Status == ProjectActive
}

// ProjectIndex maps project ids to projects for grouping lookups.
func ProjectIndex(projects []Project) map[string]Project {
	idx := make(map[string]Project, len(projects))
	for _, p := range projects {
		idx[p.ID] = p
	}
	return idx
}

// GroupByProject buckets tickets by project id. Tickets without a project
// land under the empty key.
func GroupByProject(tickets []Ticket) map[string][]Ticket {
	groups := make(map[string][]Ticket)
	for _, t := range tickets {
		groups[t.ProjectID] = append(groups[t.ProjectID], t)
	}
	return groups
}
