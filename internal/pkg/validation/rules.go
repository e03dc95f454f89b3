package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// College codes double as object-path components, so they stay short and
	// free of separators.
	CollegeCodePattern = `^[A-Za-z0-9_-]{1,10}$`

	EmailPattern = `^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	CollegeCode *regexp.Regexp
	Email       *regexp.Regexp
}{
	CollegeCode: regexp.MustCompile(CollegeCodePattern),
	Email:       regexp.MustCompile(EmailPattern),
}

// ValidCollegeCode reports whether code is a well formed college code.
func ValidCollegeCode(code string) bool {
	return CompiledPatterns.CollegeCode.MatchString(code)
}

// NormalizeCollegeCode trims surrounding whitespace; codes are case sensitive.
func NormalizeCollegeCode(code string) string {
	return strings.TrimSpace(code)
}

// RegisterValidators adds the custom binding tags used by request DTOs.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("collegecode", func(fl validator.FieldLevel) bool {
		return ValidCollegeCode(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("optemail", func(fl validator.FieldLevel) bool {
		value := strings.TrimSpace(fl.Field().String())
		return value == "" || CompiledPatterns.Email.MatchString(value)
	})
}
