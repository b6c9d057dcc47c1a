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


// Package storage provides the document-store sink and its storage abstraction.
//
// The Sink is a pipeline stage that upserts every record into a document
// collection keyed by the record name. It talks to the store through the
// MovieRepository interface so that different backends (MongoDB, an embedded
// BadgerDB store) can be used interchangeably.
//
// # Lifecycle
//
// The sink follows the host's open/process/close contract:
//
//	sink, err := storage.NewSink(cfg, mongo.Open)
//	if err := sink.Open(ctx); err != nil {
//	    return err // unreachable store: fatal, never retried
//	}
//	defer sink.Close(ctx)
//
//	rec, err = sink.Process(ctx, rec)
//
// Close releases the repository exactly once, even if Process failed.
//
// # Backends
//
//   - storage/mongo: "mongodb://" and "mongodb+srv://" connection strings
//   - storage/badger: "badger://<dir>" or "badger://:memory:"
//
// # Thread Safety
//
// All repository implementations must be thread-safe; Process may be called
// concurrently for different records.
package storage
