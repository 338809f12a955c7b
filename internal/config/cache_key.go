package config

type CacheKeyStruct struct {
	ImportLock       string
	ImportLastReport string
	ImportEvents     string
}

// CacheKey holds the Redis keys and channels shared by every process that
// runs class log imports (server and CLI).
var CacheKey = &CacheKeyStruct{
	ImportLock:       "class_log:import:lock",
	ImportLastReport: "class_log:import:last_report",
	ImportEvents:     "class_log:import:events",
}
