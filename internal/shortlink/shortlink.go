// Package shortlink derives short, URL-safe codes for recipe links.
package shortlink

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// codeBytes is the number of digest bytes kept in a short code. Six bytes
// yield an 8-character code without padding.
const codeBytes = 6

// Code derives the deterministic short code for a recipe.
//
// The code is the URL-safe base64 form of the first bytes of
// SHA-256(secret || recipe id), with padding stripped, so the same recipe
// always maps to the same code for a given secret.
func Code(secret string, recipeID int64) string {
	raw := fmt.Sprintf("%s%d", secret, recipeID)
	digest := sha256.Sum256([]byte(raw))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(digest[:codeBytes]), "=")
}

// DecodeRecipeID interprets a short code as a base36 recipe identifier.
//
// Legacy links encoded the numeric recipe id directly; this is the fallback
// used when a code has no stored mapping.
func DecodeRecipeID(code string) (int64, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.ToLower(code), 36, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
