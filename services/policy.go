package services

import "github.com/postly/postly/models"

// Actor is the identity attached to a request after authentication. A nil
// *Actor means the request is anonymous.
type Actor struct {
	ID       uint
	Username string
}

// Policy decides whether an actor may perform an action on a resource. All
// decisions are pure: no state is read or written beyond the arguments.
type Policy struct{}

// CanRead reports whether the actor may read the post. Posts are public.
func (Policy) CanRead(actor *Actor, post *models.Post) bool {
	return true
}

// CanWrite reports whether the actor may mutate or delete the post. Only the
// author may.
func (Policy) CanWrite(actor *Actor, post *models.Post) bool {
	return actor != nil && actor.ID == post.AuthorID
}

// CanCreate reports whether the actor may create posts.
func (Policy) CanCreate(actor *Actor) bool {
	return actor != nil
}
