package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const VisitorCookie = "pp_visitor"

// Visitor makes sure every gallery request carries a visitor id cookie and
// exposes it as "visitor_id".
func Visitor(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(VisitorCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(
				VisitorCookie,
				id,
				60*60*24*180, // 180 days
				"/",
				"",
				secure,
				true, // httpOnly
			)
		}
		c.Set("visitor_id", id)
		c.Next()
	}
}
