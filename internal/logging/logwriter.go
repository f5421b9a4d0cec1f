package logging

import (
	"fmt"
	"github.com/sirupsen/logrus"
	"strings"
)

// ChiLogWriter forwards chi's default request log lines to logrus at debug level
type ChiLogWriter struct {
}

func (lw *ChiLogWriter) Print(a ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprint(a...))
	if strings.HasPrefix(msg, "[") && strings.HasSuffix(msg, "]") {
		msg = msg[1 : len(msg)-1]
	}
	logrus.Debug(msg)
}
