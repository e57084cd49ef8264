// Package appstate holds the application-level context shared with the
// workspace: who is signed in and which theme is active.
package appstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// User is the profile captured at sign-in.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DisplayName falls back to the mailbox part of the email address.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(u.Email, "@"); ok && local != "" {
		return local
	}
	return "Learner"
}

// Initial returns the uppercase first letter of the display name.
func (u User) Initial() string {
	name := u.DisplayName()
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "U"
}

// State is the persisted application state.
type State struct {
	User     *User `json:"user,omitempty"`
	DarkMode bool  `json:"darkMode"`
}

// Context gives read and update access to State. When opened from a file every
// update is written back.
type Context struct {
	mu    sync.RWMutex
	state State
	path  string
}

// New returns an in-memory context seeded with initial.
func New(initial State) *Context {
	return &Context{state: clone(initial)}
}

// Open loads the state file at path. A missing file yields an empty state.
func Open(path string) (*Context, error) {
	ctx := &Context{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ctx, nil
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return ctx, nil
	}
	if err := json.Unmarshal(data, &ctx.state); err != nil {
		return nil, fmt.Errorf("decode app state %s: %w", path, err)
	}
	return ctx, nil
}

// Get returns a copy of the current state.
func (c *Context) Get() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.state)
}

// Update applies fn to a copy of the state, stores it and persists it.
func (c *Context) Update(fn func(*State)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := clone(c.state)
	fn(&next)
	if err := c.persist(next); err != nil {
		return err
	}
	c.state = next
	return nil
}

// SignIn stores the profile, deriving the name from the email when blank.
func (c *Context) SignIn(user User) error {
	user.Name = user.DisplayName()
	return c.Update(func(s *State) { s.User = &user })
}

// SignOut forgets the stored profile.
func (c *Context) SignOut() error {
	return c.Update(func(s *State) { s.User = nil })
}

// ToggleDarkMode flips the theme preference and returns the new value.
func (c *Context) ToggleDarkMode() (bool, error) {
	var dark bool
	err := c.Update(func(s *State) {
		s.DarkMode = !s.DarkMode
		dark = s.DarkMode
	})
	return dark, err
}

// Authenticated reports whether a profile is stored.
func (c *Context) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.User != nil
}

func (c *Context) persist(state State) error {
	if c.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

func clone(state State) State {
	if state.User != nil {
		user := *state.User
		state.User = &user
	}
	return state
}
