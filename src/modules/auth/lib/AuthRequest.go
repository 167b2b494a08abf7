package auth

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,4}$`)
	passwordPattern = regexp.MustCompile(`^[A-Za-z\d@$!%*#?&]{8,}$`)
	letterPattern   = regexp.MustCompile(`[A-Za-z]`)
	digitPattern    = regexp.MustCompile(`\d`)
	specialPattern  = regexp.MustCompile(`[@$!%*#?&]`)
	phonePattern    = regexp.MustCompile(`^\d{10}$`)
)

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email_format"`
	Password string `json:"password" form:"password" binding:"required"`
}

type SignupRequest struct {
	Name            string `json:"name" form:"name" binding:"required,max=100"`
	Email           string `json:"email" form:"email" binding:"required,email_format"`
	Password        string `json:"password" form:"password" binding:"required,strong_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required,eqfield=Password"`
	MobileNumber    string `json:"mobile_number" form:"mobile_number" binding:"required,phone10"`
}

func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// ValidPassword requires eight or more characters drawn from letters, digits
// and @$!%*#?&, with at least one of each kind.
func ValidPassword(s string) bool {
	return passwordPattern.MatchString(s) &&
		letterPattern.MatchString(s) &&
		digitPattern.MatchString(s) &&
		specialPattern.MatchString(s)
}

func ValidPhone(s string) bool {
	return phonePattern.MatchString(strings.TrimSpace(s))
}

// RegisterValidators adds the email_format, strong_password and phone10 tags.
func RegisterValidators(v *validator.Validate) error {
	rules := map[string]func(string) bool{
		"email_format":    ValidEmail,
		"strong_password": ValidPassword,
		"phone10":         ValidPhone,
	}
	for tag, fn := range rules {
		check := fn
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(fl.Field().String())
		}); err != nil {
			return err
		}
	}
	return nil
}

// RegisterBindingValidators installs the tags on gin's shared validator.
func RegisterBindingValidators() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return RegisterValidators(v)
	}
	return nil
}
