package protocutils

import (
	"fmt"
	"strings"
)

// BuildAddress builds the address based on the provided host and port.
// If the port is not provided, the host is returned.
func BuildAddress(host string, port int) (addr string) {
	if host == "" {
		return
	}
	hostParts := strings.Split(host, ":")
	if port > 0 {
		addr = fmt.Sprintf("%s:%d", hostParts[0], port)
		return
	}
	addr = host
	return
}

// BuildEndpoint builds an HTTP endpoint URL from the host and port. A host
// already carrying a scheme keeps it.
func BuildEndpoint(host string, port int, secure bool) (endpoint string) {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	for _, s := range []string{"https", "http"} {
		if strings.HasPrefix(host, s+"://") {
			scheme, host = s, strings.TrimPrefix(host, s+"://")
			break
		}
	}
	var addr string
	if addr = BuildAddress(host, port); addr == "" {
		return
	}
	endpoint = fmt.Sprintf("%s://%s", scheme, addr)
	return
}
