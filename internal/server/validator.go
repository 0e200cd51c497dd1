package server

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	trans     ut.Translator
	setupOnce sync.Once
)

// SetupValidator makes gin's validator report JSON field names with English
// messages. Safe to call more than once.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*govalidator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)
	})
}

// TranslateErrors maps each failing field to a readable message. Errors that
// are not validation errors are reported under "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var validationErrors govalidator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			if trans != nil {
				fields[fieldPath(fieldError)] = fieldError.Translate(trans)
			} else {
				fields[fieldPath(fieldError)] = fieldError.Error()
			}
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// fieldPath drops the struct name from a namespace such as
// "BatchRequest.documents[0].content".
func fieldPath(fieldError govalidator.FieldError) string {
	namespace := fieldError.Namespace()
	if _, path, ok := strings.Cut(namespace, "."); ok {
		return path
	}
	return namespace
}

// Bind decodes and validates the JSON body into dst. On failure it writes a
// 400 response and returns false.
func Bind(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var validationErrors govalidator.ValidationErrors
	if errors.As(err, &validationErrors) {
		FailWithFields(c, http.StatusBadRequest, ErrValidation, TranslateErrors(err))
	} else {
		FailWithFields(c, http.StatusBadRequest, ErrInvalidPayload, TranslateErrors(err))
	}
	return false
}
