package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func InitLogger() {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	InfoLogger.SetLevel(logrus.InfoLevel)

	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	ErrorLogger.SetLevel(logrus.WarnLevel)
}

// SyncLog returns an entry carrying the tenant context every sync and order
// log line must have.
func SyncLog(clientID string, stream string) *logrus.Entry {
	if InfoLogger == nil {
		InitLogger()
	}
	return InfoLogger.WithFields(logrus.Fields{
		"client_id": clientID,
		"stream":    stream,
	})
}
