package logging

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

func reset(t *testing.T) {
	t.Helper()
	mu.Lock()
	logger = nil
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		logger = nil
		mu.Unlock()
	})
}

func TestGetLoggerConcurrentFirstUse(t *testing.T) {
	reset(t)

	const n = 16
	got := make([]*logrus.Logger, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = GetLogger()
		}(i)
	}
	wg.Wait()

	for i, l := range got {
		if l == nil || l != got[0] {
			t.Fatalf("call %d returned a different logger", i)
		}
	}
	if got[0] != GetLogger() {
		t.Fatalf("logger replaced after first use")
	}
	if got[0].GetLevel() != logrus.InfoLevel {
		t.Fatalf("unexpected default level: %s", got[0].GetLevel())
	}
}

func TestInitLoggerReplacesGlobal(t *testing.T) {
	reset(t)

	l := InitLogger(logrus.DebugLevel, "text")
	if GetLogger() != l {
		t.Fatalf("GetLogger did not return the installed logger")
	}
	if l.GetLevel() != logrus.DebugLevel {
		t.Fatalf("unexpected level: %s", l.GetLevel())
	}
	if _, ok := l.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("unexpected formatter: %T", l.Formatter)
	}
}

func TestConfigure(t *testing.T) {
	reset(t)

	l, err := Configure("warn", "json")
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if l.GetLevel() != logrus.WarnLevel {
		t.Fatalf("unexpected level: %s", l.GetLevel())
	}
	if _, ok := l.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("unexpected formatter: %T", l.Formatter)
	}
	if GetLogger() != l {
		t.Fatalf("configured logger not installed")
	}

	if _, err := Configure("loud", "text"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if GetLogger() != l {
		t.Fatalf("failed configure replaced the logger")
	}
}
