package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// Secrets are compared byte for byte, so they are never rewritten.
var unsanitizedFields = map[string]bool{
	"password":     true,
	"old_password": true,
	"new_password": true,
}

const maxCleanPasses = 8

// CleanText strips markup from s, including markup sent entity-encoded.
// The result is plain text: entities are decoded, tags are gone.
func CleanText(policy *bluemonday.Policy, s string) string {
	for i := 0; i < maxCleanPasses; i++ {
		next := html.UnescapeString(policy.Sanitize(s))
		if next == s {
			return next
		}
		s = next
	}
	// Still changing: keep the escaped form so nothing renders as markup.
	return policy.Sanitize(s)
}

// SanitizeAndCleanInputMiddleware cleans top-level string fields of JSON and
// urlencoded form bodies using bluemonday.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}
		if c.Request.Body == nil {
			c.Next()
			return
		}

		var clean func([]byte) ([]byte, error)
		switch ct := c.ContentType(); {
		case strings.HasPrefix(ct, "application/json"):
			clean = func(buf []byte) ([]byte, error) { return cleanJSON(policy, buf) }
		case strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
			clean = func(buf []byte) ([]byte, error) { return cleanForm(policy, buf) }
		default:
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		newBody, err := clean(buf)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(newBody))
		c.Request.ContentLength = int64(len(newBody))

		c.Next()
	}
}

func cleanJSON(policy *bluemonday.Policy, buf []byte) ([]byte, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(buf, &body); err != nil {
		return nil, err
	}
	for k, v := range body {
		if unsanitizedFields[k] {
			continue
		}
		if str, ok := v.(string); ok {
			body[k] = CleanText(policy, str)
		}
	}
	return json.Marshal(body)
}

func cleanForm(policy *bluemonday.Policy, buf []byte) ([]byte, error) {
	form, err := url.ParseQuery(string(buf))
	if err != nil {
		return nil, err
	}
	for k, vs := range form {
		if unsanitizedFields[k] {
			continue
		}
		for i, v := range vs {
			vs[i] = CleanText(policy, v)
		}
	}
	return []byte(form.Encode()), nil
}
