package content

import (
	"errors"
	"log/slog"
	"maps"
	"slices"
)

// ErrProjectNotFound is returned for a slug that matches no item.
var ErrProjectNotFound = errors.New("project not found")

// Project is a resolved project page.
type Project struct {
	Item   Item
	Medias map[string]string
}

// SortedMedias returns the media paths in lexical order.
func (p Project) SortedMedias() []string {
	return slices.Sorted(maps.Keys(p.Medias))
}

// LoadProject resolves slug to the item with the same route ID and collects
// its media. Matching is exact; media matching is not.
func LoadProject(p *Portfolio, medias map[string]string, slug string) (Project, error) {
	for _, it := range p.Items() {
		if it.RouteID != "" && it.RouteID == slug {
			slog.Debug("project", "route_id", slug, "title", it.Title)
			return Project{Item: it, Medias: FilterMedias(slug, medias)}, nil
		}
	}
	return Project{}, ErrProjectNotFound
}

// Routes returns the route IDs of every item that has a project page.
func Routes(p *Portfolio) []string {
	var ids []string
	for _, it := range p.Items() {
		if it.RouteID != "" {
			ids = append(ids, it.RouteID)
		}
	}
	return ids
}
