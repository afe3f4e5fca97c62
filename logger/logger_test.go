package logger

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(fn func()) string {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	fn()
	return buf.String()
}

func TestFormatFieldsIsSorted(t *testing.T) {
	got := formatFields(Fields{"b": 2, "a": "x", "c": 1.5})
	assert.Equal(t, "{a=x, b=2, c=1.50}", got)
	assert.Equal(t, "", formatFields(nil))
}

func TestLevelsArePrefixed(t *testing.T) {
	assert := assert.New(t)

	out := captureLog(func() { Warn("missing layer", Fields{"measure": "3"}) })
	assert.Contains(out, "[WARN] missing layer {measure=3}")

	out = captureLog(func() { Error("parse failed", errors.New("boom"), Fields{"file": "a.mei"}) })
	assert.Contains(out, "[ERROR] parse failed: boom {file=a.mei}")

	out = captureLog(func() { Info("indexed", nil) })
	assert.Contains(out, "[INFO] indexed")
}

func TestInitSentryWithoutDSN(t *testing.T) {
	flush := InitSentry("", "development", "dev")
	assert.NotNil(t, flush)
	flush()
}
