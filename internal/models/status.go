package models

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the two-valued activity flag shared by universities and admins.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// ErrUnknownStatus is returned by ParseStatus for values outside the enumeration.
var ErrUnknownStatus = errors.New("unknown status")

// ParseStatus accepts ACTIVE or INACTIVE in any letter case.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownStatus, raw)
}

// String returns the wire form of the status.
func (s Status) String() string {
	return string(s)
}
