package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// clientIP returns the originating address of a request. Trigger sources and
// callable clients usually arrive through a load balancer, so forwarding
// headers win over the socket address.
func clientIP(c *gin.Context) string {
	for _, header := range []string{"X-Forwarded-For", "X-Real-IP"} {
		first, _, _ := strings.Cut(c.GetHeader(header), ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}
