package ghostline

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// debugEnv names the environment variable holding the path of the debug log.
// Nothing is logged unless it is set.
const debugEnv = "GHOSTLINE_DEBUG"

// debugLog is appended to rather than truncated so that a log can follow
// several runs of a program. Each entry is stamped with the time since the log
// was opened, which is what matters when reading debounce and request traces.
var debugLog struct {
	once  sync.Once
	mu    sync.Mutex
	f     *os.File
	start time.Time
}

func openDebugLog() {
	path := os.Getenv(debugEnv)
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		// The terminal is in raw mode and owned by the renderer, so there is
		// nowhere to report this.
		return
	}
	debugLog.f = f
	debugLog.start = time.Now()
	fmt.Fprintf(f, "--- %s pid %d\n", debugLog.start.Format(time.RFC3339), os.Getpid())
}

// debugPrintf appends to the debug log. It is called from the timer and request
// goroutines as well as the caller's, so writes are serialized.
func debugPrintf(format string, args ...interface{}) {
	debugLog.once.Do(openDebugLog)
	if debugLog.f == nil {
		return
	}
	debugLog.mu.Lock()
	defer debugLog.mu.Unlock()
	fmt.Fprintf(debugLog.f, "%9.3fs ", time.Since(debugLog.start).Seconds())
	fmt.Fprintf(debugLog.f, format, args...)
}
