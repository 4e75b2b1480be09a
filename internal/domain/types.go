package domain

import "time"

// Kind names an entity kind. It doubles as the audit entity_type value.
type Kind string

const (
	KindObject Kind = "object"
	KindPlace  Kind = "place"
	KindTag    Kind = "tag"
	KindLog    Kind = "log"
	KindAudit  Kind = "audit"
)

// Plural is used for upload directories and log attributes.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// Audit actions.
const (
	ActionCreated          = "created"
	ActionUpdated          = "updated"
	ActionDeleted          = "deleted"
	ActionDeleteAllObjects = "delete_all_objects"
)

type Object struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Images      []string   `json:"images"`
	ImagesPhoto []string   `json:"images_photo"`
	Tags        []string   `json:"tags"`
	PlaceID     string     `json:"place_id"`
	PutAt       *time.Time `json:"put_at"`
}

type Place struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Images      []string   `json:"images"`
	ImagesPhoto []string   `json:"images_photo"`
	Tags        []string   `json:"tags"`
	PutAt       *time.Time `json:"put_at"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LogEntry records an object being put somewhere, or a tag change on it.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	ObjectID  string    `json:"object_id"`
	PlaceID   string    `json:"place_id"`
	Notes     string    `json:"notes"`
}

type AuditEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	EntityType Kind      `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
}

// HasTag reports whether the object carries tagID.
func (o *Object) HasTag(tagID string) bool {
	return containsTag(o.Tags, tagID)
}

// HasTag reports whether the place carries tagID.
func (p *Place) HasTag(tagID string) bool {
	return containsTag(p.Tags, tagID)
}
