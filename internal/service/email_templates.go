package service

import "fmt"

func confirmationEmailTemplate(confirmURL, appName string) (string, string) {
	subject := fmt.Sprintf("Confirm your email for %s", appName)
	body := fmt.Sprintf(`Thanks for signing up! Please confirm your email address by opening this link:
%s

You won't be able to sign in with your password until the address is confirmed.

If you didn't create an account, you can safely ignore this email.

Best,
The %s Team`, confirmURL, appName)

	return subject, body
}

func recoveryEmailTemplate(resetURL, appName string) (string, string) {
	subject := fmt.Sprintf("Reset your password for %s", appName)
	body := fmt.Sprintf(`You requested to reset your password. Choose a new one here:
%s

This link can only be used once. Signing in with your current password cancels it.

If you didn't request this, you can safely ignore this email. Your password won't be changed.

Best,
The %s Team`, resetURL, appName)

	return subject, body
}
