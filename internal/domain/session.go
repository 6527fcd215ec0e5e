package domain

import (
	"errors"
	"strings"
)

// ErrInvalidSession is returned when a storage call is made without a usable session.
var ErrInvalidSession = errors.New("invalid session")

// Session identifies the logged-in user and where that user's data lives.
// It is passed explicitly to every storage and settings call.
type Session struct {
	User    string `json:"user"`
	DataDir string `json:"data_dir"`
}

// Validate checks that the session can address storage.
func (s Session) Validate() error {
	if strings.TrimSpace(s.User) == "" || strings.TrimSpace(s.DataDir) == "" {
		return ErrInvalidSession
	}
	return nil
}
