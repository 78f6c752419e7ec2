package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// digitsOf strips everything that is not a decimal digit.
func digitsOf(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// IsCPFCNPJ reports whether s, ignoring punctuation, has the shape of a CPF
// (11 digits) or CNPJ (14 digits).
func IsCPFCNPJ(s string) bool {
	n := len(digitsOf(s))
	return n == 11 || n == 14
}

// Register installs custom validations on gin's binding engine. Must be called
// once at startup before any request is bound.
func Register() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("cpfcnpj", func(fl validator.FieldLevel) bool {
		return IsCPFCNPJ(fl.Field().String())
	})
}
