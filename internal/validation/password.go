package validation

import (
	"strings"
	"unicode"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwertyuiop": {}, "qwerty123": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "letmein1": {},
	"abc12345": {}, "trustno1": {}, "passw0rd": {}, "superman": {}, "11111111": {},
}

// PasswordProblems lists every rule the password breaks.
// username and email feed the similarity check and may be empty.
func PasswordProblems(password, username, email string) []string {
	var problems []string

	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	if attr := similarAttribute(password, username, email); attr != "" {
		problems = append(problems, "The password is too similar to the "+attr+".")
	}
	return problems
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// similarAttribute names the first account attribute the password contains or is contained in.
func similarAttribute(password, username, email string) string {
	pw := strings.ToLower(password)
	local, _, _ := strings.Cut(strings.ToLower(email), "@")

	candidates := []struct{ name, value string }{
		{"username", strings.ToLower(username)},
		{"email address", local},
	}
	for _, c := range candidates {
		if len(c.value) < 3 {
			continue
		}
		if strings.Contains(pw, c.value) || strings.Contains(c.value, pw) {
			return c.name
		}
	}
	return ""
}
