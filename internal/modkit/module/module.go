// Package module defines the contract every console module satisfies and a
// small registry for its port sets
package module

import (
	phttp "kycdesk/internal/platform/net/http"
)

// Module mounts routes and exposes the ports other modules consume
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
