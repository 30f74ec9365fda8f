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

package log

// DiscardLogger is a no-op Logger that discards all messages. It is the
// default logger for constructors that accept no explicit WithLogger
// option, matching the teacher's convention of "silent by default,
// opt into noise."
var DiscardLogger Logger = discardLogger{}

type discardLogger struct{}

func (discardLogger) Debug(...any)                 {}
func (discardLogger) Debugf(string, ...any)        {}
func (discardLogger) Info(...any)                  {}
func (discardLogger) Infof(string, ...any)         {}
func (discardLogger) Warn(...any)                  {}
func (discardLogger) Warnf(string, ...any)         {}
func (discardLogger) Error(...any)                 {}
func (discardLogger) Errorf(string, ...any)        {}
func (discardLogger) Fatal(...any)                 {}
func (discardLogger) Fatalf(string, ...any)        {}
func (discardLogger) Panic(...any)                 {}
func (discardLogger) Panicf(string, ...any)        {}
func (discardLogger) LogLevel() Level              { return PanicLevel }
func (discardLogger) With(keyValues ...any) Logger { return DiscardLogger }
