package service

import (
	"regexp"

	"github.com/streamtube/streamtube-server/internal/model"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// requireAll rejects the request when any mandatory field is blank.
func requireAll(fields ...string) error {
	for _, f := range fields {
		if f == "" {
			return model.NewRequiredFieldsError()
		}
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return model.NewValidationError("please provide valid email")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return model.NewValidationError("password length should be 8-20 characters only")
	}
	return nil
}
