// MIT License
//
// Copyright (c) 2026 Coriolis Labs
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coriolis-labs/meshbox/log"
)

func TestDiscardLogger(t *testing.T) {
	l := log.DiscardLogger
	l.Debug("noop")
	l.Infof("noop %d", 1)
	assert.Equal(t, log.PanicLevel, l.LogLevel())
	assert.Equal(t, log.DiscardLogger, l.With("k", "v"))
}

func TestZapLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewZap(log.InfoLevel, &buf)
	logger.Info("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Equal(t, log.InfoLevel, logger.LogLevel())

	withLogger := logger.With("key", "value")
	withLogger.Warn("with fields")
	assert.Contains(t, buf.String(), "\"key\":\"value\"")
}
