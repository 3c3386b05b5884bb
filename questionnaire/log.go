package questionnaire

import (
	"io"

	"github.com/sirupsen/logrus"
)

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
