package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/postly/postly/models"
	"github.com/postly/postly/store"
)

// CredentialHasher is the external collaborator that owns password hashing.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// UserDirectory handles account creation and lookup.
type UserDirectory struct {
	store  *store.Store
	hasher CredentialHasher
}

// NewUserDirectory creates a UserDirectory.
func NewUserDirectory(st *store.Store, hasher CredentialHasher) *UserDirectory {
	return &UserDirectory{store: st, hasher: hasher}
}

// Register creates an account. Usernames are matched case-sensitively, so
// "Alice" and "alice" are distinct accounts.
func (d *UserDirectory) Register(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if fields := validateCredentials(username, password); len(fields) > 0 {
		return nil, errValidation(fields)
	}

	hash, err := d.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := d.store.CreateUser(username, hash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return nil, errDuplicateUsername()
		}
		return nil, err
	}
	return user, nil
}

// FindByID resolves a user by identifier.
func (d *UserDirectory) FindByID(id uint) (*models.User, error) {
	user, err := d.store.GetUser(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

// FindByUsername resolves a user by exact username.
func (d *UserDirectory) FindByUsername(username string) (*models.User, error) {
	user, err := d.store.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errNotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies a username/password pair. The same error is returned
// for an unknown user and a wrong password.
func (d *UserDirectory) Authenticate(username, password string) (*models.User, error) {
	user, err := d.store.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &Error{Kind: KindUnauthenticated, Message: "invalid username or password"}
		}
		return nil, err
	}
	if !d.hasher.Compare(user.PasswordHash, password) {
		return nil, &Error{Kind: KindUnauthenticated, Message: "invalid username or password"}
	}
	return user, nil
}

func validateCredentials(username, password string) map[string]string {
	fields := map[string]string{}
	switch {
	case username == "":
		fields["username"] = "username cannot be empty"
	case len(username) < 3 || len(username) > 64:
		fields["username"] = "username must be 3-64 characters"
	case !usernamePattern.MatchString(username):
		fields["username"] = "username may only contain letters, digits, '-' and '_'"
	}
	if len(password) < 6 || len(password) > 72 {
		fields["password"] = "password must be 6-72 characters"
	}
	return fields
}
