package public

import "github.com/thread-next/internal/provider"

// Handler serves the storefront API.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
