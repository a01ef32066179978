package main

import (
	"github.com/sirupsen/logrus"
)

func NewLogger(domain string) *logrus.Entry {
	return logrus.WithField("group", domain)
}

// setUpLogger maps the number of -v flags to a logrus level. Logs go
// to stderr, stdout belongs to the table.
func setUpLogger(verbosity int) {
	switch verbosity {
	case 0:
		logrus.SetLevel(logrus.InfoLevel)
	case 1:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.TraceLevel)
	}
}
