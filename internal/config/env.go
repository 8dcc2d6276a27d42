// Package config provides environment helpers for go-vtuber commands.
package config

import (
	"os"
	"strconv"
)

// Default runtime settings.
const (
	DefaultCamera   = "0"
	DefaultWebPort  = "8090"
	DefaultLogLevel = "info"
)

// Env returns the value of key, or def when it is unset or empty.
func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvBool parses key as a boolean. Unset or unparsable values yield def.
func EnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Camera returns the capture source from VTUBER_CAMERA.
// A bare integer is a device index; anything else is a file, URL or "blank".
func Camera() string {
	return Env("VTUBER_CAMERA", DefaultCamera)
}

// LandmarksURL returns the landmark service endpoint from VTUBER_LANDMARKS_URL.
// http(s) URLs use one request per frame, ws(s) URLs keep a socket open.
func LandmarksURL() string {
	return os.Getenv("VTUBER_LANDMARKS_URL")
}

// WebPort returns the dashboard port from VTUBER_WEB_PORT.
func WebPort() string {
	return Env("VTUBER_WEB_PORT", DefaultWebPort)
}

// LogLevel returns the log level from VTUBER_LOG_LEVEL.
func LogLevel() string {
	return Env("VTUBER_LOG_LEVEL", DefaultLogLevel)
}

// PrivacyAtStart reports whether VTUBER_PRIVACY asks to start in mesh-only mode.
func PrivacyAtStart() bool {
	return EnvBool("VTUBER_PRIVACY", false)
}
