// Package logconfig holds the shared logrus setup for the host tools.
package logconfig

import (
	"flag"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"
)

var loglevel *int

// InitParam registers the -loglevel flag. Call it before flag.Parse.
func InitParam() {
	loglevel = flag.Int("loglevel", int(logrus.InfoLevel), "The loglevel to use. Valid values are from 0 to 6. Higher values output more information")
}

// GetLogger builds a logger at the given level, or at the -loglevel
// flag's value when InitParam was used.
func GetLogger(level logrus.Level) *logrus.Entry {
	logrus.ErrorKey = "$error"
	logger := logrus.New()
	if loglevel == nil {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(logrus.Level(*loglevel))
	}
	customFormatter := new(prefixed.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	customFormatter.PrefixPadding = 16
	customFormatter.SpacePadding = 40
	logger.SetFormatter(customFormatter)
	return logrus.NewEntry(logger)
}
