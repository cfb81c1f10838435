package logger

import (
	"log"
	"os"
	"strconv"
)

var debugEnabled bool

// Initialize logging flags (called once from main). Debug lines are gated
// on LOG_DEBUG so the per-call executor chatter stays out of production logs.
func Init() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if value, exists := os.LookupEnv("LOG_DEBUG"); exists {
		if enabled, err := strconv.ParseBool(value); err == nil {
			debugEnabled = enabled
		}
	}
}

func Infof(format string, v ...any) {
	log.Printf("[INFO] "+format, v...)
}

func Warnf(format string, v ...any) {
	log.Printf("[WARN] "+format, v...)
}

func Errorf(format string, v ...any) {
	log.Printf("[ERROR] "+format, v...)
}

func Debugf(format string, v ...any) {
	if !debugEnabled {
		return
	}
	log.Printf("[DEBUG] "+format, v...)
}

func Fatalf(format string, v ...any) {
	log.Fatalf("[FATAL] "+format, v...)
}
