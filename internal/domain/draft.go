package domain

import (
	"errors"
	"fmt"
)

// Field names one editable attribute of a Draft.
type Field int

// Editable draft fields, in form order.
const (
	FieldFullName Field = iota
	FieldEmail
	FieldPhone
	FieldJobTitle
	FieldCompanyName
	FieldSource
)

// Fields lists every editable field in form order.
var Fields = []Field{
	FieldFullName,
	FieldEmail,
	FieldPhone,
	FieldJobTitle,
	FieldCompanyName,
	FieldSource,
}

// ErrUnknownField is returned by ParseField for names outside Fields.
var ErrUnknownField = errors.New("unknown field")

var fieldNames = map[Field]string{
	FieldFullName:    "full_name",
	FieldEmail:       "email",
	FieldPhone:       "phone",
	FieldJobTitle:    "job_title",
	FieldCompanyName: "company_name",
	FieldSource:      "source",
}

// String returns the wire name of the field.
func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Required reports whether the form marks the field as required.
func (f Field) Required() bool {
	return f == FieldFullName || f == FieldSource
}

// ParseField resolves a wire name such as "job_title" to its Field.
func ParseField(name string) (Field, error) {
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Draft is the not-yet-submitted form state for creating a professional.
type Draft struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	JobTitle    string `json:"job_title"`
	CompanyName string `json:"company_name"`
	Source      Source `json:"source"`
}

// NewDraft returns an empty draft with the default source.
func NewDraft() Draft {
	return Draft{Source: SourceDirect}
}

// Get returns the current value of f.
func (d Draft) Get(f Field) string {
	switch f {
	case FieldFullName:
		return d.FullName
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	case FieldJobTitle:
		return d.JobTitle
	case FieldCompanyName:
		return d.CompanyName
	case FieldSource:
		return string(d.Source)
	}
	return ""
}

// Set replaces the value of f and leaves every other field untouched. Source
// values are stored as given; the remote API rejects unknown ones.
func (d *Draft) Set(f Field, value string) {
	switch f {
	case FieldFullName:
		d.FullName = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldJobTitle:
		d.JobTitle = value
	case FieldCompanyName:
		d.CompanyName = value
	case FieldSource:
		d.Source = Source(value)
	}
}
