package logging

import (
	"os"

	"github.com/op/go-logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bnb-chain/da-syncer/config"
)

const module = "da-syncer"

var (
	// Logger instance for quick declarative logging levels
	Logger = logging.MustGetLogger(module)

	format = logging.MustStringFormatter(
		`%{time:2006-01-02T15:04:05.000} %{shortfile} %{level:.4s} %{message}`,
	)
)

// InitLogger sets up the console and rotating file backends according to the log config.
func InitLogger(cfg *config.LogConfig) {
	var backends []logging.Backend

	if cfg.UseConsoleLogger {
		consoleBackend := logging.NewLogBackend(os.Stdout, "", 0)
		backends = append(backends, logging.NewBackendFormatter(consoleBackend, format))
	}
	if cfg.UseFileLogger {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxFileSizeInMB,
			MaxBackups: cfg.MaxBackupsOfLogFiles,
			MaxAge:     cfg.MaxAgeToRetainLogFilesInDays,
			Compress:   cfg.Compress,
		}
		fileBackend := logging.NewLogBackend(fileWriter, "", 0)
		backends = append(backends, logging.NewBackendFormatter(fileBackend, format))
	}
	if len(backends) == 0 {
		backends = append(backends, logging.NewBackendFormatter(logging.NewLogBackend(os.Stdout, "", 0), format))
	}

	leveled := logging.MultiLogger(backends...)
	level, err := logging.LogLevel(cfg.Level)
	if err != nil {
		level = logging.INFO
	}
	leveled.SetLevel(level, module)
	logging.SetBackend(leveled)
}
