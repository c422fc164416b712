// Package dashboard holds the dashboard's view state: the page shell, the main
// page view model, and the forecast page state machine.
package dashboard

import (
	"errors"
	"fmt"
)

// ErrUnknownPage is returned by ParsePage for identifiers other than main and forecast.
var ErrUnknownPage = errors.New("unknown page")

// Page identifies one of the two in-app pages.
type Page string

const (
	PageMain     Page = "main"
	PageForecast Page = "forecast"
)

// ParsePage validates a page identifier. An empty string selects the main page.
func ParsePage(s string) (Page, error) {
	switch Page(s) {
	case "", PageMain:
		return PageMain, nil
	case PageForecast:
		return PageForecast, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
	}
}

// NavItem is one sidebar entry. In-app entries carry a Page; external entries carry an Href.
type NavItem struct {
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Page   Page   `json:"page,omitempty"`
	Href   string `json:"href,omitempty"`
	Active bool   `json:"active"`
}

// externalLinks are plain hyperlinks outside the shell's state.
var externalLinks = []NavItem{
	{Label: "History", Icon: "fas fa-history", Href: "/history"},
	{Label: "Datasource", Icon: "fas fa-database", Href: "/datasource"},
	{Label: "Profile", Icon: "fas fa-user", Href: "/profile"},
	{Label: "Sign In", Icon: "fas fa-sign-in-alt", Href: "/signin"},
}

// Shell toggles between the main and forecast pages. The zero value is not
// usable; create one with NewShell.
type Shell struct {
	current Page
}

// NewShell creates a shell showing the main page.
func NewShell() *Shell {
	return &Shell{current: PageMain}
}

// Current returns the page being shown.
func (s *Shell) Current() Page {
	return s.current
}

// Select switches to page.
func (s *Shell) Select(page Page) {
	s.current = page
}

// Nav returns the sidebar: the two in-app entries followed by the external links.
func (s *Shell) Nav() []NavItem {
	items := []NavItem{
		{Label: "Main Page", Icon: "fas fa-home", Page: PageMain, Active: s.current == PageMain},
		{Label: "Forecast", Icon: "fas fa-chart-line", Page: PageForecast, Active: s.current == PageForecast},
	}
	return append(items, externalLinks...)
}
