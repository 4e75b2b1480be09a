package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/azzam2912/xseon-real/internal/domain"
)

// ListSeparator joins multi-valued fields. Values containing it are rejected.
const ListSeparator = "|"

// TimeLayout is fixed-width UTC so encoded timestamps sort lexically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// Layouts accepted on read, after TimeLayout. The naive ISO forms are what
// rows written by the earlier Python tool contain; they are read as UTC.
var readLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	for _, layout := range readLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatTime(*t)
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// JoinList encodes a multi-valued field. Empty values are dropped, so an
// empty or all-blank list encodes as "" and reads back as nil.
func JoinList(field string, values []string) (string, error) {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if strings.Contains(v, ListSeparator) {
			return "", fmt.Errorf("%w: %s value %q contains %q", domain.ErrInvalidValue, field, v, ListSeparator)
		}
		if v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ListSeparator), nil
}

// SplitList decodes a multi-valued field, dropping empty segments. An empty
// field decodes as nil.
func SplitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ListSeparator) {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func requireID(kind domain.Kind, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s id is empty", domain.ErrInvalidValue, kind)
	}
	return nil
}

func EncodeObject(o domain.Object) (Row, error) {
	if err := requireID(domain.KindObject, o.ID); err != nil {
		return nil, err
	}
	images, err := JoinList("images", o.Images)
	if err != nil {
		return nil, err
	}
	photos, err := JoinList("images_photo", o.ImagesPhoto)
	if err != nil {
		return nil, err
	}
	tags, err := JoinList("tags", o.Tags)
	if err != nil {
		return nil, err
	}
	return Row{
		"id":           o.ID,
		"name":         o.Name,
		"description":  o.Description,
		"images":       images,
		"images_photo": photos,
		"tags":         tags,
		"place_id":     o.PlaceID,
		"put_at":       formatOptionalTime(o.PutAt),
	}, nil
}

func DecodeObject(r Row) (domain.Object, error) {
	id := r["id"]
	if id == "" {
		return domain.Object{}, fmt.Errorf("%w: object row without id", domain.ErrMalformedRecord)
	}
	putAt, err := parseOptionalTime(r["put_at"])
	if err != nil {
		return domain.Object{}, fmt.Errorf("%w: object %s put_at: %v", domain.ErrMalformedRecord, id, err)
	}
	return domain.Object{
		ID:          id,
		Name:        r["name"],
		Description: r["description"],
		Images:      SplitList(r["images"]),
		ImagesPhoto: SplitList(r["images_photo"]),
		Tags:        SplitList(r["tags"]),
		PlaceID:     r["place_id"],
		PutAt:       putAt,
	}, nil
}

func EncodePlace(p domain.Place) (Row, error) {
	if err := requireID(domain.KindPlace, p.ID); err != nil {
		return nil, err
	}
	images, err := JoinList("images", p.Images)
	if err != nil {
		return nil, err
	}
	photos, err := JoinList("images_photo", p.ImagesPhoto)
	if err != nil {
		return nil, err
	}
	tags, err := JoinList("tags", p.Tags)
	if err != nil {
		return nil, err
	}
	return Row{
		"id":           p.ID,
		"name":         p.Name,
		"description":  p.Description,
		"images":       images,
		"images_photo": photos,
		"tags":         tags,
		"put_at":       formatOptionalTime(p.PutAt),
	}, nil
}

func DecodePlace(r Row) (domain.Place, error) {
	id := r["id"]
	if id == "" {
		return domain.Place{}, fmt.Errorf("%w: place row without id", domain.ErrMalformedRecord)
	}
	putAt, err := parseOptionalTime(r["put_at"])
	if err != nil {
		return domain.Place{}, fmt.Errorf("%w: place %s put_at: %v", domain.ErrMalformedRecord, id, err)
	}
	return domain.Place{
		ID:          id,
		Name:        r["name"],
		Description: r["description"],
		Images:      SplitList(r["images"]),
		ImagesPhoto: SplitList(r["images_photo"]),
		Tags:        SplitList(r["tags"]),
		PutAt:       putAt,
	}, nil
}

func EncodeTag(t domain.Tag) (Row, error) {
	if err := requireID(domain.KindTag, t.ID); err != nil {
		return nil, err
	}
	return Row{"id": t.ID, "name": t.Name}, nil
}

func DecodeTag(r Row) (domain.Tag, error) {
	if r["id"] == "" {
		return domain.Tag{}, fmt.Errorf("%w: tag row without id", domain.ErrMalformedRecord)
	}
	return domain.Tag{ID: r["id"], Name: r["name"]}, nil
}

func EncodeLog(e domain.LogEntry) Row {
	return Row{
		"timestamp": FormatTime(e.Timestamp),
		"object_id": e.ObjectID,
		"place_id":  e.PlaceID,
		"notes":     e.Notes,
	}
}

func DecodeLog(r Row) (domain.LogEntry, error) {
	ts, err := ParseTime(r["timestamp"])
	if err != nil {
		return domain.LogEntry{}, fmt.Errorf("%w: log timestamp: %v", domain.ErrMalformedRecord, err)
	}
	return domain.LogEntry{
		Timestamp: ts,
		ObjectID:  r["object_id"],
		PlaceID:   r["place_id"],
		Notes:     r["notes"],
	}, nil
}

func EncodeAudit(e domain.AuditEntry) Row {
	return Row{
		"timestamp":   FormatTime(e.Timestamp),
		"entity_type": string(e.EntityType),
		"entity_id":   e.EntityID,
		"action":      e.Action,
		"details":     e.Details,
	}
}

func DecodeAudit(r Row) (domain.AuditEntry, error) {
	ts, err := ParseTime(r["timestamp"])
	if err != nil {
		return domain.AuditEntry{}, fmt.Errorf("%w: audit timestamp: %v", domain.ErrMalformedRecord, err)
	}
	return domain.AuditEntry{
		Timestamp:  ts,
		EntityType: domain.Kind(r["entity_type"]),
		EntityID:   r["entity_id"],
		Action:     r["action"],
		Details:    r["details"],
	}, nil
}
