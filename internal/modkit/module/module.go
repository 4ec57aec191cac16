// Package module defines the minimal contract for a modkit module
package module

import (
	phttp "zhkh/internal/platform/net/http"
)

// Module is what the API mounts; it sits apart from modkit so port types can import it
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
