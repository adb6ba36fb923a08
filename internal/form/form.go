// Package form validates user submissions for ads and exchange proposals and
// reports problems per field, the way an HTML form would redisplay them.
package form

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MsgRequired      = "This field is required."
	MsgInvalidURL    = "Enter a valid URL."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// FieldErrors maps a field name to its error messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("web_url", isWebURL)
	return v
}

// webSchemes are the schemes accepted for links that end up in markup.
var webSchemes = map[string]bool{"http": true, "https": true, "ftp": true, "ftps": true}

// isWebURL accepts absolute http(s)/ftp(s) URLs with a host.
func isWebURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return webSchemes[strings.ToLower(u.Scheme)] && u.Host != "" && !strings.ContainsAny(u.Host, " \t")
}

// check runs struct validation and converts the result into FieldErrors.
func check(s any) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(s)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("__all__", err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "url", "http_url", "web_url":
		return MsgInvalidURL
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), len([]rune(fmt.Sprint(fe.Value()))))
	}
	return fmt.Sprintf("Invalid value (%s).", fe.Tag())
}

// View is what a handler renders for a form: the bound values, their errors
// and, for choice fields, the selectable set.
type View struct {
	Values  any         `json:"values"`
	Errors  FieldErrors `json:"errors"`
	Choices []Choice    `json:"choices,omitempty"`
}

func NewView(values any, errs FieldErrors) View {
	if errs == nil {
		errs = FieldErrors{}
	}
	return View{Values: values, Errors: errs}
}
