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


package media

import (
	"errors"
	"fmt"

	"github.com/poiesic/itempipe/core"
)

var (
	// ErrNoMedia is returned when none of a record's images could be stored.
	// It wraps core.ErrDropItem so the host drops the record.
	ErrNoMedia = fmt.Errorf("%w: image download failed", core.ErrDropItem)

	// ErrImagesStoreRequired is returned when no images root directory is configured.
	ErrImagesStoreRequired = errors.New("images store required")

	// ErrFetcherRequired is returned when a nil fetcher is configured.
	ErrFetcherRequired = errors.New("fetcher required")

	// ErrStageNotOpen is returned when Process is called before Open or after Close.
	ErrStageNotOpen = errors.New("media stage not open")

	// ErrStageOpened is returned when Open is called a second time.
	ErrStageOpened = errors.New("media stage already opened")

	// ErrUnexpectedStatus indicates a non-2xx answer from the image host.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrUnsafePath indicates a storage path that would leave the images root.
	ErrUnsafePath = errors.New("unsafe media path")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
