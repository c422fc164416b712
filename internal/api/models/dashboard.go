package models

// Nav is the dashboard shell: the current page and the sidebar entries.
type Nav struct {
	Current string    `json:"current"`
	Items   []NavItem `json:"items"`
}

// NavItem is one sidebar entry. In-app entries carry Page; external links carry Href.
type NavItem struct {
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Page   string `json:"page,omitempty"`
	Href   string `json:"href,omitempty"`
	Active bool   `json:"active"`
}
