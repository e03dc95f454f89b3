package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/hirelytics/internal/app/models/dto"
	"github.com/yigit/hirelytics/internal/pkg/validation"
)

// RegisterBindingValidators installs the custom tags on gin's validator and
// reports fields by their json or form name.
func RegisterBindingValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterTagNameFunc(fieldName)
	return validation.RegisterValidators(v)
}

func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

// RespondValidationError writes a 400 for a failed bind.
func RespondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
