package logging

import (
	"bytes"
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Lvl
	}{
		{"debug", log.DEBUG},
		{"INFO", log.INFO},
		{" warn ", log.WARN},
		{"warning", log.WARN},
		{"error", log.ERROR},
		{"off", log.OFF},
		{"", log.INFO},
		{"verbose", log.INFO},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})

	l.Infof("hidden %d", 1)
	assert.Empty(t, buf.String())

	l.Warnf("route not found: %s", "/x")
	assert.Contains(t, buf.String(), "route not found: /x")
	assert.Contains(t, buf.String(), "suar")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.Equal(t, log.OFF, l.Level())
	l.Errorf("nothing %s", "here")
}
