package validator

import (
	"fmt"
	"moviecatalog/proj/internal/domain/fields"
	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/utils"
	"reflect"
	"slices"
	"strings"

	govalidator "github.com/go-playground/validator/v10"
)

// New returns a validator with the catalog specific rules registered.
func New() *govalidator.Validate {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	v.RegisterValidation("sortbymoviefield", ValidateSortByMovieField)
	v.RegisterValidation("runningtime", ValidateRunningTime)
	return v
}

// structField finds the struct field for errors reported on slice elements too ("Genres[1]").
func structField(obj any, name string) reflect.StructField {
	name, _, _ = strings.Cut(name, "[")
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	field, found := t.FieldByName(name)
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", name, t.Name()))
	}
	return field
}

func getFieldName(obj any, origFieldName string) (fieldName string) {
	field := structField(obj, origFieldName)
	if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
		jsonName := strings.Split(tag, ",")[0]
		if jsonName != "" {
			return jsonName
		}
	}
	return utils.CamelToSnake(field.Name)
}

func ProcessValidationErrors(obj any, errs govalidator.ValidationErrors) map[string]string {
	processedErrors := make(map[string]string)
	for _, e := range errs {
		processedErrors[getFieldName(obj, e.StructField())] = GetErrorMsgForField(obj, e)
	}
	return processedErrors
}

func ValidateStruct(validator *govalidator.Validate, obj any) (validationErrs map[string]string) {
	if err := validator.Struct(obj); err != nil {
		validationErrs = ProcessValidationErrors(obj, err.(govalidator.ValidationErrors))
	}
	return
}

func GetErrorMsgForField(obj any, err govalidator.FieldError) (errorMsg string) {
	errorMsg = structField(obj, err.StructField()).Tag.Get("errorMsg")
	if errorMsg == "" {
		switch err.Tag() {
		case "required":
			errorMsg = "This field is required"
		case "max":
			errorMsg = fmt.Sprintf("The maximum value is %s", err.Param())
		case "min":
			errorMsg = fmt.Sprintf("The minimum value is %s", err.Param())
		case "gte":
			errorMsg = fmt.Sprintf("Value should be greater than or equal to %s", err.Param())
		case "lte":
			errorMsg = fmt.Sprintf("Value should be less than or equal to %s", err.Param())
		case "lt":
			errorMsg = fmt.Sprintf("Value should be less than %s", err.Param())
		case "gt":
			errorMsg = fmt.Sprintf("Value should be greater than %s", err.Param())
		case "oneof":
			errorMsg = fmt.Sprintf("Value should be one of %s", err.Param())
		case "len":
			errorMsg = fmt.Sprintf("Length should be equal to %s", err.Param())
		case "numeric":
			errorMsg = "Value must be numeric"
		case "unique":
			errorMsg = "Value must not contain duplicate values"
		case "url":
			errorMsg = "Value must be a valid URL"
		case "sortbymoviefield":
			errorMsg = fmt.Sprintf(
				"Value must be one of %s, optionally prefixed with '-' for descending order",
				strings.Join(filters.MovieSortSafelist, ", "),
			)
		case "runningtime":
			errorMsg = "Value must look like '2시간 15분'"
		default:
			errorMsg = "This field is invalid"
		}
	}
	return
}

// CUSTOM VALIDATORS

func ValidateSortByMovieField(fl govalidator.FieldLevel) bool {
	sort := strings.TrimPrefix(fl.Field().String(), "-")
	return slices.Contains(filters.MovieSortSafelist, sort)
}

func ValidateRunningTime(fl govalidator.FieldLevel) bool {
	_, err := fields.RunningTime(fl.Field().String()).Minutes()
	return err == nil
}
