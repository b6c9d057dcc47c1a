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


package config

import "errors"

var (
	// ErrInvalidSettings indicates settings that cannot drive a pipeline.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrUnknownStage indicates an ITEM_PIPELINES entry with no matching stage.
	ErrUnknownStage = errors.New("unknown pipeline stage")

	// ErrDuplicateStage indicates a stage listed twice in ITEM_PIPELINES.
	ErrDuplicateStage = errors.New("duplicate pipeline stage")

	// ErrMissingSetting indicates an enabled stage without its required setting.
	ErrMissingSetting = errors.New("missing setting")
)
