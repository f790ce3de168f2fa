package instance

import "os"

// GetID returns the process instance identifier used in startup logs.
// STOREFRONT_INSTANCE_ID wins over the container hostname.
func GetID() string {
	if id := os.Getenv("STOREFRONT_INSTANCE_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "api-0"
}
