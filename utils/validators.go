package utils

import (
	"net/url"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("coverurl", ValidateCoverRule)
}

// InitValidator registers the custom rules on gin's binding engine.
func InitValidator() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return RegisterCustomValidators(v)
	}
	return nil
}

func ValidateCoverRule(fl validator.FieldLevel) bool {
	return ValidateCover(fl.Field().String())
}

// ValidateCover accepts the empty string (no cover) or an absolute http(s) URL.
func ValidateCover(cover string) bool {
	if cover == "" {
		return true
	}
	u, err := url.Parse(cover)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
