package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/shiena/ansicolor"
	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&nested.Formatter{
		HideKeys:        true,
		ShowFullLevel:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	l.SetOutput(ansicolor.NewAnsiColorWriter(os.Stdout))
	return l
}

// L returns the shared logger
func L() *logrus.Logger {
	return logger
}

// Init configures the shared logger output and level. With a non-empty
// logDir a date-named log file is written in addition to the terminal.
func Init(logDir string, terminal bool, level string) error {
	writers := make([]io.Writer, 0, 2)

	if logDir != "" {
		if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
			return err
		}
		filename := filepath.Join(logDir, time.Now().Format("2006-01-02.log"))
		file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		writers = append(writers, file)
	}

	if terminal || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	logger.SetOutput(ansicolor.NewAnsiColorWriter(io.MultiWriter(writers...)))

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(parsed)
	}

	return nil
}
