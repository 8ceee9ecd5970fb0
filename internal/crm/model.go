package crm

import "time"

// StatusActive is the only user status that takes part in performance scoring.
const StatusActive = "ativo"

// Stage is one tenant-defined pipeline step.
type Stage struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	Order     int    `json:"order"`
	Active    bool   `json:"active"`
	LegacyKey string `json:"legacyKey,omitempty"` // Stable identifier that predates free-form renaming
}

// Tag is a free-form label attached to leads.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagRelation links a lead to a tag. Tag is nil when the relation points at a deleted tag.
type TagRelation struct {
	Tag *Tag `json:"tag,omitempty"`
}

// UserRef is the owner projection embedded in a lead row.
type UserRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TeamID string `json:"teamId,omitempty"`
}

// Lead is a single prospect as the engine sees it.
// Newer leads carry CurrentStageName, older ones only LegacyStage.
type Lead struct {
	ID               string        `json:"id"`
	CreatedAt        time.Time     `json:"createdAt"`
	CurrentStageName string        `json:"currentStageName,omitempty"`
	LegacyStage      string        `json:"legacyStage,omitempty"`
	OwnerUserID      string        `json:"ownerUserId,omitempty"`
	FirstContactAt   *time.Time    `json:"firstContactAt,omitempty"`
	FirstOpenedAt    *time.Time    `json:"firstOpenedAt,omitempty"`
	TagIDs           []string      `json:"tagIds,omitempty"`
	User             *UserRef      `json:"user,omitempty"`
	TagRelations     []TagRelation `json:"tagRelations,omitempty"`
}

// Owner returns the owning user ID, falling back to the embedded user reference.
func (l Lead) Owner() string {
	if l.OwnerUserID != "" {
		return l.OwnerUserID
	}
	if l.User != nil {
		return l.User.ID
	}
	return ""
}

// Tags returns the tags carried by the lead. Joined relations take precedence over
// bare tag IDs unless none of them carries a tag; IDs missing from the catalog are skipped.
func (l Lead) Tags(catalog map[string]Tag) []Tag {
	var tags []Tag
	for _, rel := range l.TagRelations {
		if rel.Tag == nil || rel.Tag.Name == "" {
			continue
		}
		tags = append(tags, *rel.Tag)
	}
	if len(tags) > 0 {
		return tags
	}

	for _, id := range l.TagIDs {
		if t, ok := catalog[id]; ok && t.Name != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// User is a broker.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TeamID string `json:"teamId,omitempty"`
	Status string `json:"status"`
}

// IsActive reports whether the user takes part in performance scoring.
func (u User) IsActive() bool {
	return u.Status == StatusActive
}

// Team groups users through User.TeamID.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Snapshot is one consistent, already-fetched view of a tenant's data.
type Snapshot struct {
	TenantID  string    `json:"tenantId"`
	Stages    []Stage   `json:"stages"`
	Leads     []Lead    `json:"leads,omitempty"`
	Users     []User    `json:"users"`
	Teams     []Team    `json:"teams"`
	Tags      []Tag     `json:"tags,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// TagCatalog indexes the snapshot's tags by ID.
func (s Snapshot) TagCatalog() map[string]Tag {
	catalog := make(map[string]Tag, len(s.Tags))
	for _, t := range s.Tags {
		catalog[t.ID] = t
	}
	return catalog
}

// ActiveUsers returns the users with the active status, preserving input order.
func (s Snapshot) ActiveUsers() []User {
	var active []User
	for _, u := range s.Users {
		if u.IsActive() {
			active = append(active, u)
		}
	}
	return active
}
