package logger

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Log is the application logger. The core packages stay log-free; the
// CLI and the data/reporting collaborators log through this instance.
var Log = log.New()

func init() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	Log.SetLevel(log.InfoLevel)
}

// Setup configures the level and an optional log file. When logFile is
// non-empty, entries go to both stdout and the file (appended).
func Setup(level, logFile string) error {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	Log.SetLevel(parsed)

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		Log.SetOutput(io.MultiWriter(os.Stdout, f))
	}
	return nil
}
