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


// Package media downloads the director and actor images of a movie record.
//
// For every credited person with an image URL the Stage derives one fetch
// request, downloads it with a Fetcher and stores the body under the images
// root at {movie}/{role}/{person}.jpg. Failed downloads are logged and
// tolerated as long as at least one image was stored; otherwise the record
// is dropped with ErrNoMedia.
package media
