// Package device turns raw browser user-agent strings into short display
// names for login audit logs.
package device

import (
	"fmt"
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent returns a human-readable "Browser on Platform" label.
func ParseUserAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Unknown Device"
	}

	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	platform := ua.Platform()
	osInfo := ua.OSInfo()

	if browser == "" {
		browser = "Unknown Browser"
	}

	where := osInfo.Name
	if where == "" {
		where = platform
	}
	if where == "" {
		where = "Unknown Platform"
	}

	return strings.TrimSpace(fmt.Sprintf("%s on %s", browser, where))
}
