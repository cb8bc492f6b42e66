package model

import "strings"

// PlatformFamily collapses a raw platform string ("Android OS 9 API 28",
// "iOS 16.1.2 (iPhone14,5)", "Windows 10 (10.0.19045; x64)") into a small
// OS-family vocabulary so distributions are comparable across providers.
func PlatformFamily(platform string) string {
	if platform == "" {
		return "Unknown"
	}

	p := strings.ToLower(platform)

	switch {
	// Web players report the host OS too ("web_player windows 10"), so
	// this check comes before the OS families.
	case strings.Contains(p, "web"), strings.Contains(p, "websocket"):
		return "Web Player"
	case strings.Contains(p, "ios"), strings.Contains(p, "iphone"), strings.Contains(p, "ipad"):
		return "iOS"
	case strings.Contains(p, "android"):
		return "Android"
	case strings.Contains(p, "osx"), strings.Contains(p, "os x"),
		strings.Contains(p, "macos"), strings.Contains(p, "macintosh"):
		return "macOS"
	case strings.Contains(p, "windows"):
		return "Windows"
	case strings.Contains(p, "tvos"), strings.Contains(p, "apple tv"):
		return "tvOS"
	case strings.Contains(p, "watch"):
		return "Watch"
	case strings.Contains(p, "garmin"):
		return "Garmin"
	case strings.Contains(p, "google"), strings.Contains(p, "cast"):
		return "Google Cast"
	case strings.Contains(p, "partner"):
		return "Partner Device"
	case strings.Contains(p, "unknown"):
		return "Unknown"
	default:
		return "Other"
	}
}
