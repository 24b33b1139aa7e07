package model

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("multiple_of", multipleOf)
}

func multipleOf(fl validator.FieldLevel) bool {
	step, err := strconv.ParseInt(fl.Param(), 10, 64)
	if err != nil || step == 0 {
		return false
	}
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fl.Field().Int()%step == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fl.Field().Uint()%uint64(step) == 0
	}
	return false
}

// ValidationReport splits binding failures into missing and invalid fields.
type ValidationReport struct {
	Missing []string
	Invalid []string
}

func (r ValidationReport) Empty() bool {
	return len(r.Missing) == 0 && len(r.Invalid) == 0
}

// Message renders the report for the caller; missing fields take priority.
func (r ValidationReport) Message() string {
	if len(r.Missing) > 0 {
		return "Missing required fields: " + strings.Join(r.Missing, ", ")
	}
	return "Invalid field values: " + strings.Join(r.Invalid, "; ")
}

// Validate turns a bind error plus the semantic checks the tags cannot
// express into a report. ok is false when err is not a validation error.
func Validate(request *GenerationRequest, err error) (report ValidationReport, ok bool) {
	missing := make(map[string]bool)
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return report, false
		}
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				missing[fe.Field()] = true
				continue
			}
			report.Invalid = append(report.Invalid, describe(fe))
		}
	}
	if strings.TrimSpace(request.Prompt) == "" {
		missing["prompt"] = true
	}
	report.Missing = lo.Filter(RequiredFields, func(name string, _ int) bool {
		return missing[name]
	})
	return report, true
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "multiple_of":
		return fmt.Sprintf("%s must be a multiple of %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
