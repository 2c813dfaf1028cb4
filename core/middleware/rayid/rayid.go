// Package rayid assigns a unique ray ID to every incoming request so log
// entries across the request lifecycle can be correlated.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the generated ray ID.
const HeaderName = "X-Ray-ID"

// New returns a middleware that stores a ray ID in the request locals and
// echoes it in the response headers. An inbound X-Ray-ID is honored so
// upstream proxies can propagate their own IDs.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
