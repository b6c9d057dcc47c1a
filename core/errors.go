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


package core

import "errors"

var (
	// ErrInvalidRecord indicates a Record failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrInvalidRole indicates a Role value outside director/actor.
	ErrInvalidRole = errors.New("invalid role")

	// ErrListTooLong indicates an encoded list longer than MaxListLength.
	ErrListTooLong = errors.New("list too long")

	// ErrDropItem signals that a stage rejected the record.
	// Stages wrap it with the reason; the host stops processing the record
	// and reports it as dropped rather than failed.
	ErrDropItem = errors.New("drop item")
)
