package util

import (
	"errors"
	"strconv"
)

var ErrInvalidID = errors.New("id must be a positive integer")

// ParseID accepts decimal ids greater than zero.
func ParseID(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 0)
	if err != nil || v < 1 {
		return 0, ErrInvalidID
	}
	return uint(v), nil
}
