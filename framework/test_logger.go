package framework

import "sync"

// TestLogger receives progress notifications while a suite runs.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}

// EventRecordingTestLogger keeps a line per notification, such as "finished catalog/x failed".
type EventRecordingTestLogger struct {
	events []string
	lock   sync.Mutex
}

func (l *EventRecordingTestLogger) add(event string) {
	l.lock.Lock()
	l.events = append(l.events, event)
	l.lock.Unlock()
}

func (l *EventRecordingTestLogger) TestStarted(id TestID) { l.add("started " + id.String()) }

func (l *EventRecordingTestLogger) TestError(id TestID, err error) {
	l.add("error " + id.String() + ": " + err.Error())
}

func (l *EventRecordingTestLogger) TestFinished(id TestID, failed bool, _ CapturedOutput) {
	if failed {
		l.add("finished " + id.String() + " failed")
	} else {
		l.add("finished " + id.String() + " ok")
	}
}

func (l *EventRecordingTestLogger) TestSkipped(id TestID, reason string) {
	l.add("skipped " + id.String() + ": " + reason)
}

// Events returns the recorded lines in order.
func (l *EventRecordingTestLogger) Events() []string {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append([]string(nil), l.events...)
}
