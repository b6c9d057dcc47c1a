package media

import (
	"fmt"
	"iter"

	"github.com/poiesic/itempipe/core"
)

// Meta identifies whose image a request fetches.
type Meta struct {
	MovieName  string
	Role       core.Role
	PersonName string
}

// Request is one image to fetch.
type Request struct {
	URL  string
	Meta Meta
}

// Result is the outcome of one Request.
type Result struct {
	Request Request
	// Path is the stored file path relative to the images root. Empty on failure.
	Path string
	Err  error
}

// OK reports whether the image was fetched and stored.
func (r Result) OK() bool {
	return r.Err == nil
}

// Requests yields one Request per credited person with an image URL,
// directors first, then actors, each in input order.
// The sequence can be ranged over any number of times.
func Requests(record *core.Record) iter.Seq[Request] {
	return func(yield func(Request) bool) {
		for _, role := range []core.Role{core.RoleDirector, core.RoleActor} {
			for _, person := range record.People(role) {
				if person.Image == "" {
					continue
				}
				req := Request{
					URL: person.Image,
					Meta: Meta{
						MovieName:  record.Name,
						Role:       role,
						PersonName: person.Name,
					},
				}
				if !yield(req) {
					return
				}
			}
		}
	}
}

// FilePath returns the slash-separated storage path of an image
// relative to the images root. The role becomes a directory name, so only
// director and actor are accepted.
func FilePath(meta Meta) (string, error) {
	if err := core.ValidateRole(meta.Role); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s.jpg", meta.MovieName, meta.Role, meta.PersonName), nil
}

// Completed decides the fate of a record once all of its requests finished.
// The record passes unchanged when at least one result succeeded.
func Completed(record *core.Record, results []Result) (*core.Record, error) {
	for _, r := range results {
		if r.OK() {
			return record, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoMedia, record.Name)
}
