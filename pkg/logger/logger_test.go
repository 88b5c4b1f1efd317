package logger

import "testing"

func TestSafeWithoutInit(t *testing.T) {
	// Library code logs unconditionally, so the package must work before
	// Init has configured anything.
	Debug("debug message", "key", "value")
	Info("info message")
	Warn("warn message", "key", "value")
	Error("error message")
	Sync()
}

func TestInitConfiguresLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	Init()

	if log == nil {
		t.Fatal("Init must leave a usable logger")
	}
	Debug("after init")
	Sync()
}
