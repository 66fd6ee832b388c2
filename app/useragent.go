package app

import (
	"github.com/avct/uasurfer"
)

// IsBotUserAgent reports whether the user agent belongs to a crawler or
// another automated client.
func IsBotUserAgent(userAgent string) bool {
	if userAgent == "" {
		return false
	}

	ua := uasurfer.Parse(userAgent)

	return ua.IsBot()
}
