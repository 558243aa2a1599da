package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew_WhenDevelopmentEnvironment_ThenReturnsLogger(t *testing.T) {
	// Arrange & Act
	logger, err := New("development", "debug")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
	_ = logger.Sync()
}

func TestNew_WhenProductionEnvironment_ThenReturnsLogger(t *testing.T) {
	// Arrange & Act
	logger, err := New("production", "info")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
	_ = logger.Sync()
}

func TestNew_WhenInvalidLogLevel_ThenDefaultsToInfo(t *testing.T) {
	// Arrange & Act
	logger, err := New("production", "not-a-level")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
	_ = logger.Sync()
}

func TestWith_WhenFieldsAttached_ThenReturnsChildLogger(t *testing.T) {
	// Arrange
	logger, err := New("development", "debug")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act
	child := logger.With(zap.String("component", "test"))

	// Assert
	if child == nil {
		t.Fatal("expected child logger to be non-nil")
	}
	child.Debug("child logger works")
	_ = child.Sync()
}

func TestUnwrap_WhenZapBackedLogger_ThenReturnsUnderlyingLogger(t *testing.T) {
	// Arrange
	logger, err := New("production", "info")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act
	underlying := Unwrap(logger)

	// Assert
	if underlying == nil {
		t.Fatal("expected non-nil zap logger")
	}
}

func TestUnwrap_WhenNoOpLogger_ThenReturnsNopZapLogger(t *testing.T) {
	// Arrange & Act
	underlying := Unwrap(NewNoOpLogger())

	// Assert
	if underlying == nil {
		t.Fatal("expected non-nil zap logger")
	}
	underlying.Info("nop logger should swallow this")
}

func TestNoOpLogger_WhenUsed_ThenDoesNothing(t *testing.T) {
	// Arrange
	logger := NewNoOpLogger()

	// Act & Assert - none of these should panic
	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")
	if err := logger.Sync(); err != nil {
		t.Errorf("expected nil sync error, got %v", err)
	}
	if logger.With(zap.String("k", "v")) == nil {
		t.Error("expected With to return a logger")
	}
}
