package config

import "os"

func IsDebug() bool {
	return os.Getenv("ROUTERBOT_DEBUG") == "1"
}

// IsJSONLog selects one JSON object per log line instead of console output.
func IsJSONLog() bool {
	return os.Getenv("ROUTERBOT_LOG_FORMAT") == "json"
}
