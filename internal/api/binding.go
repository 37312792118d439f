package api

import (
	"errors"
	"io"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/userdir/userdir/internal/users"
)

var registerOnce sync.Once

// RegisterValidators adds the nohangul and hasat tags to gin's validator engine.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("api: gin validator engine is not go-playground/validator")
		}
		if err := v.RegisterValidation("nohangul", func(fl validator.FieldLevel) bool {
			return users.IsValidName(fl.Field().String())
		}); err != nil {
			panic(err)
		}
		if err := v.RegisterValidation("hasat", func(fl validator.FieldLevel) bool {
			return users.IsValidEmail(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	})
}

// bindingMessage maps a bind error to the client message. A missing field wins
// over a bad name, which wins over a bad email.
func bindingMessage(err error, missing string) string {
	if errors.Is(err, io.EOF) {
		return missing
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}

	tags := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		tags[fe.Tag()] = true
	}
	switch {
	case tags["required"]:
		return missing
	case tags["nohangul"]:
		return users.MessageKoreanName
	case tags["hasat"]:
		return users.MessageInvalidEmail
	default:
		return "Invalid request body"
	}
}
