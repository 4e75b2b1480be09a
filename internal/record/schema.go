// Package record holds the column contract shared by every backend and the
// conversions between typed entities and field-mapped string rows.
package record

import "github.com/azzam2912/xseon-real/internal/domain"

// Table describes how one entity kind is laid out on disk and in a sheet.
// Column order is part of the compatibility surface.
type Table struct {
	Kind    domain.Kind
	File    string
	Sheet   string
	Columns []string
}

var (
	Objects = Table{
		Kind:    domain.KindObject,
		File:    "objects.csv",
		Sheet:   "Objects",
		Columns: []string{"id", "name", "description", "images", "images_photo", "tags", "place_id", "put_at"},
	}
	Places = Table{
		Kind:    domain.KindPlace,
		File:    "places.csv",
		Sheet:   "Places",
		Columns: []string{"id", "name", "description", "images", "images_photo", "tags", "put_at"},
	}
	Tags = Table{
		Kind:    domain.KindTag,
		File:    "tags.csv",
		Sheet:   "Tags",
		Columns: []string{"id", "name"},
	}
	Logs = Table{
		Kind:    domain.KindLog,
		File:    "logs.csv",
		Sheet:   "Logs",
		Columns: []string{"timestamp", "object_id", "place_id", "notes"},
	}
	Audit = Table{
		Kind:    domain.KindAudit,
		File:    "audit.csv",
		Sheet:   "Audit",
		Columns: []string{"timestamp", "entity_type", "entity_id", "action", "details"},
	}
)

// All lists every table in creation order.
var All = []Table{Objects, Places, Tags, Logs, Audit}

// Row is a record keyed by column name.
type Row map[string]string

// ID returns the row's id column, empty for append-only tables.
func (r Row) ID() string {
	return r["id"]
}

// RowFrom maps values onto header names. Values beyond the header are
// ignored and missing trailing values read as empty.
func RowFrom(header, values []string) Row {
	r := make(Row, len(header))
	for i, name := range header {
		if i < len(values) {
			r[name] = values[i]
		} else {
			r[name] = ""
		}
	}
	return r
}

// Values lays the row out in the table's column order.
func (t Table) Values(r Row) []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = r[c]
	}
	return out
}

// HeaderMatches reports whether header equals the table's columns exactly.
func (t Table) HeaderMatches(header []string) bool {
	if len(header) != len(t.Columns) {
		return false
	}
	for i, c := range t.Columns {
		if header[i] != c {
			return false
		}
	}
	return true
}
