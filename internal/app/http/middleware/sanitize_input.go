package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

var markup = bluemonday.StrictPolicy()

// StripMarkup removes HTML tags from every string in a JSON object body,
// nested values included. The result is plain text: entities that
// bluemonday escapes are decoded again, so "Tom & Jerry" or "o'brien@x.com"
// reach the handler unchanged. Empty bodies pass through.
func StripMarkup() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			c.Next()
			return
		}

		var body map[string]interface{}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}

		cleaned, err := json.Marshal(plainText(body))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(cleaned))
		c.Request.ContentLength = int64(len(cleaned))

		c.Next()
	}
}

func plainText(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return html.UnescapeString(markup.Sanitize(t))
	case map[string]interface{}:
		for k, inner := range t {
			t[k] = plainText(inner)
		}
		return t
	case []interface{}:
		for i, inner := range t {
			t[i] = plainText(inner)
		}
		return t
	default:
		return v
	}
}
