package testutil

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

func init() {
	logrus.SetLevel(logrus.TraceLevel)

	for _, arg := range os.Args {
		if arg == "-test.v=true" {
			return
		}
	}

	logrus.StandardLogger().Out = io.Discard
}

// DisableLogging silences the standard logger until the returned reset
// function is called. Useful for tests that intentionally exercise noisy
// error paths.
func DisableLogging() (reset func()) {
	originalLogOutput := logrus.StandardLogger().Out
	logrus.StandardLogger().Out = io.Discard
	return func() {
		logrus.StandardLogger().Out = originalLogOutput
	}
}
