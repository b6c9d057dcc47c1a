// Copyright 2025 Poiesic Systems
//
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


package ingestion

import "errors"

var (
	// ErrNoStages is returned when a pipeline is created without stages.
	ErrNoStages = errors.New("at least one stage required")

	// ErrNilStage is returned when a nil stage is passed to NewPipeline.
	ErrNilStage = errors.New("nil stage")

	// ErrPipelineNotOpen is returned when records are processed before Open.
	ErrPipelineNotOpen = errors.New("pipeline not open")

	// ErrPipelineOpened is returned when Open is called on a pipeline that
	// is already open or was closed.
	ErrPipelineOpened = errors.New("pipeline already opened")

	// ErrNilRecord is returned when a stage yields no record and no error.
	ErrNilRecord = errors.New("stage returned nil record")

	// ErrMalformedRecord indicates an input line that is not a JSON record.
	ErrMalformedRecord = errors.New("malformed record")
)
