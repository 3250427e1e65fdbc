package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"github.com/johnwards/professionals/internal/domain"
	"github.com/johnwards/professionals/internal/views"
	"github.com/johnwards/professionals/web"
)

// placeholder stands in for empty optional values in the table.
const placeholder = "—"

type option struct {
	Value    string
	Label    string
	Selected bool
}

type row struct {
	FullName    string
	Email       string
	Phone       string
	JobTitle    string
	CompanyName string
	Source      string
	CreatedAt   string
}

type listPage struct {
	Filters []option
	Loading bool
	Failed  bool
	Rows    []row
}

type input struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Required bool
}

type addPage struct {
	Inputs        []input
	Sources       []option
	SubmitEnabled bool
	Status        string
	Errors        []string
}

type page struct {
	Active  views.View
	Refresh bool
	List    *listPage
	Add     *addPage
}

func parseTemplates() (*template.Template, error) {
	sub, err := fs.Sub(web.Assets, "templates")
	if err != nil {
		return nil, fmt.Errorf("open templates: %w", err)
	}
	tmpl, err := template.ParseFS(sub, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// dateFormatter renders created_at values in a fixed layout and zone.
type dateFormatter struct {
	layout string
	loc    *time.Location
}

func (d dateFormatter) format(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return t.In(d.loc).Format(d.layout)
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func newListPage(snap views.ListingSnapshot, dates dateFormatter) *listPage {
	p := &listPage{
		Loading: snap.Loading,
		Failed:  snap.Failed,
		Filters: []option{{Value: "", Label: "All", Selected: snap.Filter == ""}},
	}
	for _, s := range domain.Sources {
		p.Filters = append(p.Filters, option{Value: string(s), Label: string(s), Selected: snap.Filter == s})
	}

	for _, rec := range snap.Records {
		p.Rows = append(p.Rows, row{
			FullName:    rec.FullName,
			Email:       orPlaceholder(rec.Email),
			Phone:       orPlaceholder(rec.Phone),
			JobTitle:    orPlaceholder(rec.JobTitle),
			CompanyName: orPlaceholder(rec.CompanyName),
			Source:      string(rec.Source),
			CreatedAt:   dates.format(rec.CreatedAt),
		})
	}
	return p
}

var inputLabels = map[domain.Field]string{
	domain.FieldFullName:    "Full Name",
	domain.FieldEmail:       "Email",
	domain.FieldPhone:       "Phone",
	domain.FieldJobTitle:    "Job Title",
	domain.FieldCompanyName: "Company Name",
}

var inputTypes = map[domain.Field]string{
	domain.FieldEmail: "email",
	domain.FieldPhone: "tel",
}

func newAddPage(snap views.CreationSnapshot) *addPage {
	p := &addPage{
		SubmitEnabled: snap.SubmitEnabled,
		Status:        snap.Status,
		Errors:        snap.Errors,
	}
	for _, f := range domain.Fields {
		if f == domain.FieldSource {
			continue
		}
		typ := inputTypes[f]
		if typ == "" {
			typ = "text"
		}
		p.Inputs = append(p.Inputs, input{
			Name:     f.String(),
			Label:    inputLabels[f],
			Type:     typ,
			Value:    snap.Draft.Get(f),
			Required: f.Required(),
		})
	}
	for _, s := range domain.Sources {
		p.Sources = append(p.Sources, option{Value: string(s), Label: s.Label(), Selected: snap.Draft.Source == s})
	}
	return p
}
