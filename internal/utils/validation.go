package utils

import (
	"errors"
	"regexp"
)

// GTFS ids in French feeds contain colons and spaces ("StopPoint:OCETGV INOUI-87686006").
var validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.: -]+$`)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}
