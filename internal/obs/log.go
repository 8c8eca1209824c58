package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// The whole service logs through one stdout logger so every line, HTTP
// access, audit or warning, is a single JSON object a collector can parse.
var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the shared process-wide logger. Flags stay zero; each
// entry carries its own timestamp field.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// LogRequest marshals the entry as one JSON line. A marshal failure must
// not take the caller down, so it degrades to a fixed error line.
func LogRequest(entry map[string]any) {
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Println(`{"ts":"error","level":"error","msg":"log marshal failed"}`)
		return
	}
	Logger().Println(string(data))
}
