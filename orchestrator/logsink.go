// Copyright 2025 BrandForge
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orchestrator

// LogSink receives the run's human-readable progress lines. Emit is
// fire-and-forget; implementations must never block or fail the run.
type LogSink interface {
	Emit(line string)
}

// LogSinkFunc adapts a function to the LogSink interface.
type LogSinkFunc func(line string)

// Emit calls f. A nil function discards the line.
func (f LogSinkFunc) Emit(line string) {
	if f != nil {
		f(line)
	}
}

// NopSink discards all lines.
var NopSink = LogSinkFunc(nil)
