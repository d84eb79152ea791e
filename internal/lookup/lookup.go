// Package lookup resolves foreign keys to display strings for tables and reports.
package lookup

import (
	"fmt"
	"strings"

	"assetdesk/internal/models"
)

// NotAvailable is shown for references that are not set.
const NotAvailable = "N/A"

// MissingID is shown for references whose entity is not in the lookup collections.
func MissingID(id int64) string {
	return fmt.Sprintf("ID: %d", id)
}

// Index maps asset, user and site ids to their entities. A nil *Index
// resolves every reference to its fallback.
type Index struct {
	assets map[int64]models.Asset
	users  map[int64]models.User
	sites  map[int64]models.Site
}

func New(assets []models.Asset, users []models.User, sites []models.Site) *Index {
	idx := &Index{
		assets: make(map[int64]models.Asset, len(assets)),
		users:  make(map[int64]models.User, len(users)),
		sites:  make(map[int64]models.Site, len(sites)),
	}
	for _, a := range assets {
		idx.assets[a.ID] = a
	}
	for _, u := range users {
		idx.users[u.ID] = u
	}
	for _, s := range sites {
		idx.sites[s.ID] = s
	}
	return idx
}

// Asset returns "<tag> - <serial>" for a known asset.
func (i *Index) Asset(id int64) string {
	if i == nil {
		return MissingID(id)
	}
	a, ok := i.assets[id]
	if !ok {
		return MissingID(id)
	}
	if a.Serial == "" {
		return a.Tag
	}
	return a.Tag + " - " + a.Serial
}

func (i *Index) User(id int64) string {
	if i == nil {
		return MissingID(id)
	}
	u, ok := i.users[id]
	if !ok {
		return MissingID(id)
	}
	return u.FullName()
}

func (i *Index) UserRef(id *int64) string {
	if id == nil {
		return NotAvailable
	}
	return i.User(*id)
}

// Users joins the names of several responsible parties.
func (i *Index) Users(ids []int64) string {
	if len(ids) == 0 {
		return NotAvailable
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, i.User(id))
	}
	return strings.Join(names, ", ")
}

func (i *Index) Site(id int64) string {
	if i == nil {
		return MissingID(id)
	}
	s, ok := i.sites[id]
	if !ok {
		return MissingID(id)
	}
	return s.Name
}

func (i *Index) SiteRef(id *int64) string {
	if id == nil {
		return NotAvailable
	}
	return i.Site(*id)
}
