package badger

import "encoding/binary"

// Key prefixes for different data types
const (
	movieRecordPrefix = "movrec"
)

// makeMovieNamespace generates the key prefix shared by one collection.
// Format: prefix uvarint(len(database)) database uvarint(len(collection)) collection
//
// Length prefixes keep namespaces disjoint whatever bytes the names contain.
func makeMovieNamespace(database, collection string) []byte {
	buf := make([]byte, 0, len(movieRecordPrefix)+len(database)+len(collection)+2*binary.MaxVarintLen64)
	buf = append(buf, movieRecordPrefix...)
	buf = binary.AppendUvarint(buf, uint64(len(database)))
	buf = append(buf, database...)
	buf = binary.AppendUvarint(buf, uint64(len(collection)))
	return append(buf, collection...)
}

// makeMovieKey generates the key of a movie document by name.
// Format: namespace name
func makeMovieKey(database, collection, name string) []byte {
	return append(makeMovieNamespace(database, collection), name...)
}
