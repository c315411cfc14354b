package env

import "os"

// Prefix namespaces the service's environment variables.
const Prefix = "QRSEC_"

// Get returns the value of the given environment variable or a fallback. The
// QRSEC_-prefixed form wins over the bare name, so deployments can scope their
// overrides without clobbering shared shell variables.
func Get(key, fallback string) string {
	if val := os.Getenv(Prefix + key); val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
