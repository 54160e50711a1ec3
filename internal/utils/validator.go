package utils

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
)

// MaxJSONBody batas ukuran body JSON
const MaxJSONBody = 1 << 20

// DecodeJSON decode request body ke struct
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxJSONBody))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// ValidationErrors map field -> pesan error
type ValidationErrors map[string]string

func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

var (
	hasLetter = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit  = regexp.MustCompile(`[0-9]`)
)

func IsValidPassword(password string) bool {
	// Minimal 8 karakter, ada huruf dan angka
	if len(password) < 8 {
		return false
	}
	return hasLetter.MatchString(password) && hasDigit.MatchString(password)
}

// SanitizeString trim spasi dan rapikan spasi ganda di tengah
func SanitizeString(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
