package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// The service logs one JSON object per line on stdout. Everything that
// emits log output (request logging, audit events) funnels through the
// logger returned here so tests can redirect it in one place.

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the process-wide line logger. Prefix and flags stay
// empty: every line is a self-contained JSON object with its own ts.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// LogRequest marshals the entry to a single JSON line. Entries that
// cannot marshal are reported as a fixed error line rather than dropped
// silently.
func LogRequest(entry map[string]any) {
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Println(`{"level":"error","msg":"unmarshalable log entry"}`)
		return
	}
	Logger().Println(string(data))
}
