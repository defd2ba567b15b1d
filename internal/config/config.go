package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHelperRelPath  = ".config/agents-plane/gmail.py"
	defaultJournalRelPath = ".local/state/qrmail/journal.db"
	defaultImagePath      = "/tmp/whatsapp-qr.png"
	defaultPythonBinary   = "python3"
	defaultSendTimeoutSec = 15
)

// Config holds runtime configuration for the delivery run.
type Config struct {
	HelperPath      string
	PythonBinary    string
	ImagePath       string
	SendTimeoutSec  int
	JournalPath     string
	JournalDisabled bool
	LogLevel        string
}

// LoadConfig reads from environment variables, falling back to the
// defaults the mail helper contract assumes.
func LoadConfig() Config {
	homeDirectory, homeErr := os.UserHomeDir()
	if homeErr != nil {
		homeDirectory = "."
	}
	return Config{
		HelperPath:      getStr("QRMAIL_HELPER_PATH", filepath.Join(homeDirectory, defaultHelperRelPath)),
		PythonBinary:    getStr("QRMAIL_PYTHON", defaultPythonBinary),
		ImagePath:       getStr("QRMAIL_IMAGE_PATH", defaultImagePath),
		SendTimeoutSec:  getInt("QRMAIL_SEND_TIMEOUT_SEC", defaultSendTimeoutSec),
		JournalPath:     getStr("QRMAIL_JOURNAL_PATH", filepath.Join(homeDirectory, defaultJournalRelPath)),
		JournalDisabled: parseDisabledEnv("QRMAIL_DISABLE_JOURNAL"),
		LogLevel:        getStr("LOG_LEVEL", "INFO"),
	}
}

// SendTimeout returns the subprocess wait budget as a duration.
func (configuration Config) SendTimeout() time.Duration {
	return time.Duration(configuration.SendTimeoutSec) * time.Second
}

func getStr(key, defaultVal string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	return val
}

func getInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	valInt, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return valInt
}

func parseDisabledEnv(environmentKey string) bool {
	rawValue := strings.TrimSpace(os.Getenv(environmentKey))
	if rawValue == "" {
		return false
	}
	switch strings.ToLower(rawValue) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
