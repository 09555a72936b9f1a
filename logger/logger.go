// Package logger provides the leveled logger used by all qchem-script
// commands. Messages go to stderr and to an age-limited file under /tmp
// (or QCHEM_SCRIPT_LOGPATH); the threshold comes from
// QCHEM_SCRIPT_LOGLEVEL.
package logger

import (
	"bufio"
	"encoding/json"
	"io"
	"log"
	"os"
	"strconv"
	"time"
)

const (
	LOG_ENABLE          = "QCHEM_SCRIPT_LOGLEVEL"
	LOG_PATH            = "QCHEM_SCRIPT_LOGPATH"
	LOG_TIMEOUT         = "QCHEM_SCRIPT_LOGTIMEOUT"
	LOG_DEFAULT_TIMEOUT = 24
	DEBUG_LOGGING       = 10
	INFO_LOGGING        = 20
	WARNING_LOGGING     = 30
	ERROR_LOGGING       = 40
	CRITICAL_LOGGING    = 50
)

var Log *log.Logger

func init() {
	logPath := "/tmp/"
	if env := os.Getenv(LOG_PATH); len(env) > 0 {
		logPath = env
	}
	logfile := logPath + "qchem-script.log"
	expireLogfile(logfile)

	f, err := os.OpenFile(logfile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("logger cannot open %s: %v", logfile, err)
		Log = log.New(os.Stderr, "", log.LstdFlags)
		return
	}
	if stat, serr := f.Stat(); serr == nil && stat.Size() == 0 {
		// first line tags the file's creation time for expiry
		f.WriteString(time.Now().Format(time.RFC3339) + "\n")
		f.Sync()
	}
	Log = log.New(io.MultiWriter(os.Stderr, f), "", log.LstdFlags)
}

// expireLogfile removes the logfile once its creation tag is older than
// the timeout (hours), so stale runs do not accumulate under /tmp.
func expireLogfile(logfile string) {
	timeout := LOG_DEFAULT_TIMEOUT
	if env := os.Getenv(LOG_TIMEOUT); len(env) > 0 {
		if t, err := strconv.Atoi(env); err == nil {
			timeout = t
		}
	}
	f, err := os.Open(logfile)
	if err != nil {
		return
	}
	scanner := bufio.NewScanner(f)
	scanner.Scan()
	f.Close()
	tag, terr := time.Parse(time.RFC3339, scanner.Text())
	if terr != nil || int(time.Since(tag).Hours()) > timeout {
		os.Remove(logfile)
	}
}

func LogLevel() int {
	if env, err := strconv.Atoi(os.Getenv(LOG_ENABLE)); err == nil {
		return env
	}
	return CRITICAL_LOGGING
}

func levelName(level int) string {
	switch level {
	case DEBUG_LOGGING:
		return "DEBUG"
	case INFO_LOGGING:
		return "INFO"
	case WARNING_LOGGING:
		return "WARNING"
	case ERROR_LOGGING:
		return "ERROR"
	default:
		return "CRITICAL"
	}
}

func logPrintf(level int, format string, a ...interface{}) {
	if LogLevel() <= level {
		Log.Printf(levelName(level)+" "+format, a...)
	}
}

func logObj(level int, name string, v interface{}) {
	if LogLevel() <= level {
		data, _ := json.MarshalIndent(v, "", " ")
		Log.Printf("%s %s:\n%s\n", levelName(level), name, data)
	}
}

func DebugPrintf(format string, a ...interface{}) { logPrintf(DEBUG_LOGGING, format, a...) }

func DebugObj(name string, v interface{}) { logObj(DEBUG_LOGGING, name, v) }

func InfoPrintf(format string, a ...interface{}) { logPrintf(INFO_LOGGING, format, a...) }

func InfoObj(name string, v interface{}) { logObj(INFO_LOGGING, name, v) }

func WarningPrintf(format string, a ...interface{}) { logPrintf(WARNING_LOGGING, format, a...) }

func WarningObj(name string, v interface{}) { logObj(WARNING_LOGGING, name, v) }

func ErrorPrintf(format string, a ...interface{}) { logPrintf(ERROR_LOGGING, format, a...) }

func ErrorObj(name string, v interface{}) { logObj(ERROR_LOGGING, name, v) }

func CriticalPrintf(format string, a ...interface{}) { logPrintf(CRITICAL_LOGGING, format, a...) }

func CriticalObj(name string, v interface{}) { logObj(CRITICAL_LOGGING, name, v) }
