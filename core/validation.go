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

import (
	"fmt"
	"strings"
)

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - Name must not be empty or whitespace
//
// NOT validated (scraped as-is):
//   - Score range
//   - Person image URLs (a bad URL only fails its own fetch)
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyName)
	}

	return nil
}

// ValidateRole validates that a Role has a known value.
func ValidateRole(role Role) error {
	if role != RoleDirector && role != RoleActor {
		return fmt.Errorf("%w: %q", ErrInvalidRole, string(role))
	}
	return nil
}

// MaxListLength bounds every list field of a stored record.
const MaxListLength = 4096

// ValidateListLength rejects encoded list lengths above MaxListLength.
// Decoders call it before allocating the list.
func ValidateListLength(length int) error {
	if length > MaxListLength {
		return fmt.Errorf("%w: %d elements", ErrListTooLong, length)
	}
	return nil
}
