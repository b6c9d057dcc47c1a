package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strconv"

	"github.com/go-crypt/x/blake2b"
)

// ID is a deterministic identifier derived from content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// String returns the decimal form of the ID.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Role identifies how a person is credited on a movie.
type Role string

const (
	// RoleDirector marks a person from the directors list.
	RoleDirector Role = "director"
	// RoleActor marks a person from the actors list.
	RoleActor Role = "actor"
)

// Person is a director or actor credited on a movie.
// It has no identity outside the Record that owns it.
type Person struct {
	Name  string `json:"name" bson:"name"`
	Image string `json:"image" bson:"image"`
}

// Record is one scraped movie.
// Name is the business key used by every sink.
type Record struct {
	Name       string   `json:"name" bson:"name"`
	Categories []string `json:"categories" bson:"categories"`
	Drama      string   `json:"drama" bson:"drama"`
	Score      float64  `json:"score" bson:"score"`
	Directors  []Person `json:"directors" bson:"directors"`
	Actors     []Person `json:"actors" bson:"actors"`
}

// People returns the record's credited people for a role.
func (r *Record) People(role Role) []Person {
	switch role {
	case RoleDirector:
		return r.Directors
	case RoleActor:
		return r.Actors
	default:
		return nil
	}
}
