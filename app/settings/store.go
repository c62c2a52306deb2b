// Package settings provides per-feed fetch overrides on top of the host's plugin key/value storage.
// Store is a generic storage scoped by (plugin, key), Overrides is a typed layer for feed records.
package settings

import (
	"errors"
	"regexp"
)

//go:generate moq -out store_mock.go -fmt goimports . Store

// Store defines plugin-scoped key/value storage. Values are semi-structured records,
// encoded by implementation. Last write wins, no transactions.
type Store interface {
	// Get decodes value into dest, found is false if no value stored
	Get(plugin, key string, dest interface{}) (found bool, err error)
	Set(plugin, key string, value interface{}) error
	Delete(plugin, key string) error
}

// errors returned by Store implementations and Overrides
var (
	ErrBadName = errors.New("invalid plugin or key name")
	ErrDecode  = errors.New("can't decode value")
	ErrInvalid = errors.New("invalid override")
)

var reName = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func checkNames(plugin, key string) error {
	if !reName.MatchString(plugin) || !reName.MatchString(key) {
		return ErrBadName
	}
	return nil
}
