package logger

import (
	"github.com/stretchr/testify/mock"
)

// MockLogger is a testify mock of Logger, used to assert that the driver
// reports specific diagnostics.
//
// Every logging method is recorded as a call of its own name with two
// arguments: the message and the key-value slice.
type MockLogger struct {
	mock.Mock
}

var _ Logger = (*MockLogger)(nil)

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// ExpectWarn expects a warning with msg and any key-values.
func (m *MockLogger) ExpectWarn(msg string) *mock.Call {
	return m.On("Warn", msg, mock.Anything)
}

// ExpectError expects an error record with msg and any key-values.
func (m *MockLogger) ExpectError(msg string) *mock.Call {
	return m.On("Error", msg, mock.Anything)
}

// Ignore accepts any number of records of the named methods, for example
// Ignore("Debug", "Info").
func (m *MockLogger) Ignore(methods ...string) {
	for _, name := range methods {
		m.On(name, mock.Anything, mock.Anything).Maybe()
	}
}

func (m *MockLogger) record(method, msg string, keysAndValues []any) {
	m.MethodCalled(method, msg, keysAndValues)
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) { m.record("Debug", msg, keysAndValues) }
func (m *MockLogger) Info(msg string, keysAndValues ...any)  { m.record("Info", msg, keysAndValues) }
func (m *MockLogger) Warn(msg string, keysAndValues ...any)  { m.record("Warn", msg, keysAndValues) }
func (m *MockLogger) Error(msg string, keysAndValues ...any) { m.record("Error", msg, keysAndValues) }
func (m *MockLogger) Fatal(msg string, keysAndValues ...any) { m.record("Fatal", msg, keysAndValues) }

func (m *MockLogger) SetLevel(level Level) {
	m.MethodCalled("SetLevel", level)
}

func (m *MockLogger) Level() Level {
	level, _ := m.MethodCalled("Level").Get(0).(Level)
	return level
}

// With records the key-values and returns the mock itself, so that
// expectations set on the parent also cover records of the child.
func (m *MockLogger) With(keyValues ...any) Logger {
	m.MethodCalled("With", keyValues)
	return m
}
