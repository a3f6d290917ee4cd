// Package baseurl derives the externally reachable base URL used to build
// the short redirect links handed to players. It is computed once at process
// start; changing it requires a restart.
package baseurl

import (
	"fmt"

	"github.com/alorle/chaos-stream-manager/domain"
)

// Resolve builds scheme://host[:port] from its parts. The port is elided
// when it is empty or equals the conventional default for the scheme
// (80 for http, 443 for https).
func Resolve(scheme, host, port string) (string, error) {
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q (expected http or https)", scheme)
	}
	if host == "" {
		return "", fmt.Errorf("host cannot be empty")
	}

	if port == "" || (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		return fmt.Sprintf("%s://%s", scheme, host), nil
	}
	return fmt.Sprintf("%s://%s:%s", scheme, host, port), nil
}

// RedirectPath returns the public redirect path for a configuration
func RedirectPath(name string, protocol domain.Protocol) string {
	return "/redirect/" + name + protocol.ManifestExtension()
}

// RedirectURL returns the full short URL a player uses for a configuration
func RedirectURL(base, name string, protocol domain.Protocol) string {
	return base + RedirectPath(name, protocol)
}
