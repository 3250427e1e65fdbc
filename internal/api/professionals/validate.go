package professionals

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/johnwards/professionals/internal/api"
	"github.com/johnwards/professionals/internal/domain"
	"github.com/johnwards/professionals/internal/store"
)

const (
	msgRequired     = "This field is required."
	msgBlank        = "This field may not be blank."
	msgEmail        = "Enter a valid email address."
	msgContactRule  = "At least one of email or phone must be provided."
	msgNotAnObject  = "Invalid data. Expected a dictionary."
	msgUniqueFormat = "professional with this %s already exists."
)

// request is the JSON body of a create or a bulk item. Pointers tell a
// missing key from an empty value.
type request struct {
	FullName    *string `json:"full_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	JobTitle    *string `json:"job_title"`
	CompanyName *string `json:"company_name"`
	Source      *string `json:"source"`
}

// fields is the validated shape of a request.
type fields struct {
	FullName    string `json:"full_name" validate:"required,max=255"`
	Email       string `json:"email" validate:"omitempty,email,max=254"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	JobTitle    string `json:"job_title" validate:"omitempty,max=255"`
	CompanyName string `json:"company_name" validate:"omitempty,max=255"`
	Source      string `json:"source" validate:"required,oneof=direct partner internal"`
}

func (f fields) input() store.ProfessionalInput {
	return store.ProfessionalInput{
		FullName:    f.FullName,
		Email:       f.Email,
		Phone:       f.Phone,
		JobTitle:    f.JobTitle,
		CompanyName: f.CompanyName,
		Source:      domain.Source(f.Source),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// validateRequest runs the field checks, the uniqueness checks against records
// other than self, and finally the cross-field contact rule, which only runs
// when every field is valid. Pass self = 0 on create.
func (h *Handler) validateRequest(ctx context.Context, req request, self int64) (fields, api.FieldErrors, error) {
	f, errs := check(h.validate, req)
	if err := checkUnique(ctx, h.store, f, self, errs); err != nil {
		return f, nil, err
	}
	if len(errs) == 0 && f.Email == "" && f.Phone == "" {
		errs.Add(api.NonFieldErrors, msgContactRule)
	}
	return f, errs, nil
}

// check validates req field by field.
func check(v *validator.Validate, req request) (fields, api.FieldErrors) {
	f := fields{
		FullName:    deref(req.FullName),
		Email:       deref(req.Email),
		Phone:       deref(req.Phone),
		JobTitle:    deref(req.JobTitle),
		CompanyName: deref(req.CompanyName),
		Source:      deref(req.Source),
	}

	errs := api.FieldErrors{}
	if req.FullName == nil {
		errs.Add("full_name", msgRequired)
	}
	if req.Source == nil {
		errs.Add("source", msgRequired)
	}

	if err := v.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.Add(api.NonFieldErrors, err.Error())
			return f, errs
		}
		for _, fe := range verrs {
			if errs.Has(fe.Field()) {
				continue
			}
			errs.Add(fe.Field(), message(fe))
		}
	}

	return f, errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == "source" {
			return `"" is not a valid choice.`
		}
		return msgBlank
	case "email":
		return msgEmail
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fe.Value())
	}
	return fmt.Sprintf("Failed the %s check.", fe.Tag())
}

// checkUnique reports fields whose value is already taken by a record other
// than self.
func checkUnique(ctx context.Context, s store.ProfessionalStore, f fields, self int64, errs api.FieldErrors) error {
	lookups := []struct {
		field string
		value string
		find  func(context.Context, string) (*store.Professional, error)
	}{
		{"email", f.Email, s.FindByEmail},
		{"phone", f.Phone, s.FindByPhone},
	}

	for _, l := range lookups {
		if l.value == "" || errs.Has(l.field) {
			continue
		}
		p, err := l.find(ctx, l.value)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("check unique %s: %w", l.field, err)
		}
		if p.ID != self {
			errs.Add(l.field, fmt.Sprintf(msgUniqueFormat, l.field))
		}
	}
	return nil
}

// conflictErrors converts a store conflict into field errors.
func conflictErrors(err error) (api.FieldErrors, bool) {
	var ce *store.ConflictError
	if !errors.As(err, &ce) {
		return nil, false
	}
	errs := api.FieldErrors{}
	errs.Add(ce.Field, fmt.Sprintf(msgUniqueFormat, ce.Field))
	return errs, true
}
