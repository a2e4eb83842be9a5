package enrichment

import (
	"github.com/mssola/user_agent"
)

// UAInfo is the device classification persisted with each click row.
type UAInfo struct {
	Browser    string
	OS         string
	DeviceType string
}

// ParseUserAgent classifies a raw User-Agent header. Bots win over mobile
// so crawler traffic is never counted as a handset; anything unrecognized
// falls back to desktop.
func ParseUserAgent(uaString string) *UAInfo {
	ua := user_agent.New(uaString)
	browser, _ := ua.Browser()

	deviceType := "desktop"
	switch {
	case ua.Bot():
		deviceType = "bot"
	case ua.Mobile():
		deviceType = "mobile"
	}

	return &UAInfo{
		Browser:    browser,
		OS:         ua.OS(),
		DeviceType: deviceType,
	}
}
