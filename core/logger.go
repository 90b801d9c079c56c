package core

// LogFunc is the sink the application plugs in; logging is disabled until
// one is set.
type LogFunc func(format string, v ...any)

const (
	LOG_DEBUG = 0
	LOG_INFO  = 1
	LOG_WARN  = 2
	LOG_ERROR = 3
)

var (
	logger LogFunc = nil
	level          = LOG_INFO
)

// SetLogger sets the global logger for the core package.
// A nil logger disables logging.
func SetLogger(l LogFunc) {
	logger = l
}

func SetLogLevel(lv int) {
	level = lv
}

func logf(lv int, prefix, format string, v ...any) {
	if logger == nil || lv < level {
		return
	}
	logger(prefix+format, v...)
}

func logDebug(format string, v ...any) {
	logf(LOG_DEBUG, "[DEBUG] ", format, v...)
}

func logInfo(format string, v ...any) {
	logf(LOG_INFO, "[INFO] ", format, v...)
}

func logWarn(format string, v ...any) {
	logf(LOG_WARN, "[WARN] ", format, v...)
}

func logError(format string, v ...any) {
	logf(LOG_ERROR, "[ERROR] ", format, v...)
}
