package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/postly/postly/models"
)

func TestPolicy(t *testing.T) {
	policy := Policy{}
	post := &models.Post{ID: 1, AuthorID: 7}
	author := &Actor{ID: 7, Username: "alice"}
	other := &Actor{ID: 8, Username: "bob"}

	// Reads are public.
	assert.True(t, policy.CanRead(nil, post))
	assert.True(t, policy.CanRead(other, post))

	// Writes are author-only.
	assert.True(t, policy.CanWrite(author, post))
	assert.False(t, policy.CanWrite(other, post))
	assert.False(t, policy.CanWrite(nil, post))

	// Creation only needs authentication.
	assert.True(t, policy.CanCreate(other))
	assert.False(t, policy.CanCreate(nil))
}
