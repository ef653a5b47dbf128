package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"trackifyr/models"
	"trackifyr/storage"
)

// StorageKey is the only key the gate touches in a client's storage.
const StorageKey = "user"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrCorruptRecord      = errors.New("malformed user record")
)

// Gate is the authentication state of one client. It is either
// unauthenticated (no user) or authenticated with the stored user.
type Gate struct {
	part           *storage.Partition
	user           *models.User
	verifyPassword bool
}

// Load builds a gate whose initial state reflects the stored record. A
// malformed record leaves the gate unauthenticated and returns
// ErrCorruptRecord alongside it.
func Load(ctx context.Context, part *storage.Partition, verifyPassword bool) (*Gate, error) {
	g := &Gate{part: part, verifyPassword: verifyPassword}
	u, err := g.stored(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return g, nil
		}
		return g, err
	}
	g.user = u
	return g, nil
}

func (g *Gate) stored(ctx context.Context) (*models.User, error) {
	raw, err := g.part.GetItem(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	u := &models.User{}
	if err := json.Unmarshal([]byte(raw), u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return u, nil
}

func (g *Gate) persist(ctx context.Context, u *models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return g.part.SetItem(ctx, StorageKey, string(raw))
}

func (g *Gate) IsAuthenticated() bool { return g.user != nil }

// Client is the id of the browser whose storage the gate reads.
func (g *Gate) Client() string { return g.part.Client() }

// User returns a copy of the signed in user, or nil.
func (g *Gate) User() *models.User {
	if g.user == nil {
		return nil
	}
	u := *g.user
	return &u
}

// Signup stores u, replacing any previous record, and signs it in. A
// plaintext password is stored as its bcrypt hash.
func (g *Gate) Signup(ctx context.Context, u models.User) error {
	if u.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
	}
	if err := g.persist(ctx, &u); err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	g.user = &u
	return nil
}

// Signin succeeds when email equals the stored record's email. The password
// is only checked when password verification is enabled.
func (g *Gate) Signin(ctx context.Context, email, password string) error {
	u, err := g.stored(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if u.Email != email {
		return ErrInvalidCredentials
	}
	if g.verifyPassword {
		if u.Password == "" {
			return ErrInvalidCredentials
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
	}
	g.user = u
	return nil
}

func (g *Gate) Signout(ctx context.Context) error {
	if err := g.part.RemoveItem(ctx, StorageKey); err != nil {
		return fmt.Errorf("signout: %w", err)
	}
	g.user = nil
	return nil
}

// UpdateProfile merges the editable fields into the stored record.
func (g *Gate) UpdateProfile(ctx context.Context, fullName, email, role string) error {
	if g.user == nil {
		return ErrNotAuthenticated
	}
	u := *g.user
	u.FullName = strings.TrimSpace(fullName)
	u.Email = strings.TrimSpace(email)
	u.Role = role
	if err := g.persist(ctx, &u); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	g.user = &u
	return nil
}
