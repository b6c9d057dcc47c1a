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


package storage

import "errors"

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrInvalidConfig indicates missing or malformed connection settings.
	ErrInvalidConfig = errors.New("invalid document store config")

	// ErrUnsupportedScheme indicates a connection string no backend can serve.
	ErrUnsupportedScheme = errors.New("unsupported connection string scheme")

	// ErrSinkNotOpen is returned when Process is called before Open.
	ErrSinkNotOpen = errors.New("document store sink is not open")

	// ErrSinkOpened is returned when Open is called a second time.
	ErrSinkOpened = errors.New("document store sink already opened")

	// ErrOpenerRequired is returned when a sink is built without an opener.
	ErrOpenerRequired = errors.New("repository opener required")
)
