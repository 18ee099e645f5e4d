package validation

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Result struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error"`
}

type FormErrors struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type FormResult struct {
	IsValid bool       `json:"isValid"`
	Errors  FormErrors `json:"errors"`
}

func ValidateEmail(email string) Result {
	if strings.TrimSpace(email) == "" {
		return Result{IsValid: false, Error: "Email cannot be empty"}
	}
	if !emailRegex.MatchString(email) {
		return Result{IsValid: false, Error: "Please enter a valid email address"}
	}
	return Result{IsValid: true}
}

// ValidatePassword only rejects empty input, there is no strength check.
func ValidatePassword(password string) Result {
	if strings.TrimSpace(password) == "" {
		return Result{IsValid: false, Error: "Password cannot be empty"}
	}
	return Result{IsValid: true}
}

func ValidateLoginForm(email string, password string) FormResult {
	e := ValidateEmail(email)
	p := ValidatePassword(password)
	return FormResult{
		IsValid: e.IsValid && p.IsValid,
		Errors: FormErrors{
			Email:    e.Error,
			Password: p.Error,
		},
	}
}
