package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/azzam2912/xseon-real/internal/domain"
)

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes rows as aligned columns under a header.
func (a *app) table(header []string, rows [][]string) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	return w.Flush()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func (a *app) printObjects(objects []domain.Object) error {
	if a.jsonOut {
		return a.printJSON(objects)
	}
	rows := make([][]string, 0, len(objects))
	for _, o := range objects {
		rows = append(rows, []string{o.ID, o.Name, o.PlaceID, formatTime(o.PutAt), strings.Join(o.Tags, ",")})
	}
	return a.table([]string{"ID", "NAME", "PLACE", "PUT AT", "TAGS"}, rows)
}

func (a *app) printObject(o *domain.Object) error {
	if a.jsonOut {
		return a.printJSON(o)
	}
	return a.table([]string{"FIELD", "VALUE"}, [][]string{
		{"id", o.ID},
		{"name", o.Name},
		{"description", o.Description},
		{"images", strings.Join(o.Images, " ")},
		{"photos", strings.Join(o.ImagesPhoto, " ")},
		{"tags", strings.Join(o.Tags, ",")},
		{"place", o.PlaceID},
		{"put at", formatTime(o.PutAt)},
	})
}

func (a *app) printPlaces(places []domain.Place) error {
	if a.jsonOut {
		return a.printJSON(places)
	}
	rows := make([][]string, 0, len(places))
	for _, p := range places {
		rows = append(rows, []string{p.ID, p.Name, strings.Join(p.Tags, ",")})
	}
	return a.table([]string{"ID", "NAME", "TAGS"}, rows)
}

// placeDetail is a place with the objects currently in it.
type placeDetail struct {
	*domain.Place
	Objects []domain.Object `json:"objects"`
}

func (a *app) printPlace(p *domain.Place, objects []domain.Object) error {
	if a.jsonOut {
		return a.printJSON(placeDetail{Place: p, Objects: objects})
	}
	names := make([]string, 0, len(objects))
	for _, o := range objects {
		names = append(names, o.Name+" ("+o.ID+")")
	}
	return a.table([]string{"FIELD", "VALUE"}, [][]string{
		{"id", p.ID},
		{"name", p.Name},
		{"description", p.Description},
		{"images", strings.Join(p.Images, " ")},
		{"photos", strings.Join(p.ImagesPhoto, " ")},
		{"tags", strings.Join(p.Tags, ",")},
		{"objects", strings.Join(names, ", ")},
	})
}

func (a *app) printTags(tags []domain.Tag) error {
	if a.jsonOut {
		return a.printJSON(tags)
	}
	rows := make([][]string, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, []string{t.ID, t.Name})
	}
	return a.table([]string{"ID", "NAME"}, rows)
}

func (a *app) printLogs(logs []domain.LogEntry) error {
	if a.jsonOut {
		return a.printJSON(logs)
	}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{formatTime(&l.Timestamp), l.ObjectID, l.PlaceID, l.Notes})
	}
	return a.table([]string{"TIME", "OBJECT", "PLACE", "NOTES"}, rows)
}

func (a *app) printAudit(entries []domain.AuditEntry) error {
	if a.jsonOut {
		return a.printJSON(entries)
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{formatTime(&e.Timestamp), string(e.EntityType), e.EntityID, e.Action, e.Details})
	}
	return a.table([]string{"TIME", "KIND", "ID", "ACTION", "DETAILS"}, rows)
}
