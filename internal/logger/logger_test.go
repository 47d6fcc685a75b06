package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_BuildsForEveryEnv(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		log, err := New(env)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", env, err)
		}
		if !log.Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("New(%q) should log at info", env)
		}
		_ = log.Sync()
	}
}

func TestNewForCLI_LevelFollowsVerbose(t *testing.T) {
	quiet, err := NewForCLI(false)
	if err != nil {
		t.Fatalf("NewForCLI(false) failed: %v", err)
	}
	if quiet.Core().Enabled(zapcore.InfoLevel) {
		t.Error("quiet CLI logger should not log at info")
	}
	if !quiet.Core().Enabled(zapcore.WarnLevel) {
		t.Error("quiet CLI logger should log warnings")
	}

	verbose, err := NewForCLI(true)
	if err != nil {
		t.Fatalf("NewForCLI(true) failed: %v", err)
	}
	if !verbose.Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose CLI logger should log at debug")
	}
}

func TestNewWithDefaults_NeverNil(t *testing.T) {
	t.Setenv("SERVER_ENV", "production")
	if NewWithDefaults() == nil {
		t.Fatal("logger should not be nil")
	}
}

func TestNewWithDefaults_FollowsServerEnv(t *testing.T) {
	t.Setenv("SERVER_ENV", "")
	if !NewWithDefaults().Core().Enabled(zapcore.DebugLevel) {
		t.Error("unset SERVER_ENV should fall back to a development logger")
	}

	t.Setenv("SERVER_ENV", "production")
	if NewWithDefaults().Core().Enabled(zapcore.DebugLevel) {
		t.Error("production logger should not log at debug")
	}
}

// Property 1: ledger log entries are structured JSON carrying their fields
func TestProperty_LedgerFieldsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("bill and product fields survive JSON encoding", prop.ForAll(
		func(message string, billID int64, productName string) bool {
			var buf bytes.Buffer

			encoderConfig := zap.NewProductionEncoderConfig()
			encoderConfig.TimeKey = "timestamp"
			encoderConfig.MessageKey = "message"

			core := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(&buf),
				zapcore.DebugLevel,
			)
			log := zap.New(core).Named("ledger")

			log.Info(message,
				zap.Int64("bill_id", billID),
				zap.String("product_name", productName),
			)

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}

			if entry["message"] != message || entry["logger"] != "ledger" {
				return false
			}
			if entry["product_name"] != productName {
				return false
			}
			// JSON numbers decode as float64
			if id, ok := entry["bill_id"].(float64); !ok || int64(id) != billID {
				return false
			}
			_, hasLevel := entry["level"]
			_, hasTimestamp := entry["timestamp"]
			return hasLevel && hasTimestamp
		},
		gen.AlphaString(),
		gen.Int64Range(1, 1<<40),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
