package validation

import "errors"

var ErrTermsNotAccepted = errors.New("error.terms.not_accepted")

// SignIn validates the credential form shared by the user and admin sign-in pages.
func SignIn(email, password string) Errors {
	errs := Errors{}
	errs.Add("email", ValidateEmail(email))
	errs.Add("password", ValidatePassword(password))
	return errs
}

func SignUp(email, password, confirmation, terms string) Errors {
	errs := SignIn(email, password)
	errs.Add("passwordConfirmation", ValidatePasswordConfirmation(password, confirmation))
	if terms != "checked" {
		errs.Add("terms", ErrTermsNotAccepted)
	}
	return errs
}

func Recovery(email string) Errors {
	errs := Errors{}
	errs.Add("email", ValidateEmail(email))
	return errs
}

func Recovered(password, confirmation string) Errors {
	errs := Errors{}
	errs.Add("password", ValidatePassword(password))
	errs.Add("passwordConfirmation", ValidatePasswordConfirmation(password, confirmation))
	return errs
}

// Admin validates the warp admin form. Admin passwords only carry a length rule.
func Admin(email, password string) Errors {
	errs := Errors{}
	errs.Add("email", ValidateEmail(email))
	switch {
	case password == "":
		errs.Add("password", ErrPasswordRequired)
	case len([]rune(password)) < PasswordMinLength:
		errs.Add("password", ErrPasswordTooShort)
	}
	return errs
}
