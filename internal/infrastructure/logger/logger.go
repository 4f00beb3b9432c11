package logger

import (
	"io"
	"log"
	"os"
	"strings"
)

var (
	Info  *log.Logger
	Error *log.Logger
	Debug *log.Logger
	Warn  *log.Logger
)

var out io.Writer = os.Stdout

const logFlags = log.Ldate | log.Ltime | log.LUTC | log.Lshortfile

func init() {
	Info = log.New(out, "INFO: ", logFlags)
	Error = log.New(out, "ERROR: ", logFlags)
	Debug = log.New(io.Discard, "DEBUG: ", logFlags)
	Warn = log.New(out, "WARN: ", logFlags)
}

// SetLevel gates the loggers by LOG_LEVEL. Unknown levels behave like "info".
func SetLevel(level string) {
	lvl := strings.ToLower(strings.TrimSpace(level))

	Debug.SetOutput(io.Discard)
	Info.SetOutput(io.Discard)
	Warn.SetOutput(io.Discard)
	Error.SetOutput(out)

	switch lvl {
	case "debug":
		Debug.SetOutput(out)
		fallthrough
	case "info", "":
		Info.SetOutput(out)
		fallthrough
	case "warn":
		Warn.SetOutput(out)
	case "error":
	default:
		Info.SetOutput(out)
		Warn.SetOutput(out)
	}
}

// SetOutput redirects every logger, keeping the current level.
func SetOutput(w io.Writer) {
	for _, l := range []*log.Logger{Debug, Info, Warn, Error} {
		if l.Writer() != io.Discard {
			l.SetOutput(w)
		}
	}
	out = w
}
