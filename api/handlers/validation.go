package handlers

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

func init() {
	RegisterValidators()
}

// RegisterValidators добавляет в валидатор gin теги notblank и nospaces
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		log.Printf("ERROR: Failed to register notblank validator: %v", err)
	}
	if err := v.RegisterValidation("nospaces", noSpaces); err != nil {
		log.Printf("ERROR: Failed to register nospaces validator: %v", err)
	}
}

// noSpaces - строка без пробельных символов (логин)
func noSpaces(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), " \t\r\n")
}
