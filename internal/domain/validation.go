package domain

import (
	"fmt"
	"strings"
)

const (
	minUsernameLen = 2
	maxUsernameLen = 64
	maxTitleLen    = 200
)

func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)
	if len(trimmed) < minUsernameLen || len(trimmed) > maxUsernameLen {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidArgument, minUsernameLen, maxUsernameLen)
	}
	return nil
}

func ValidateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	at := strings.Index(trimmed, "@")
	if at <= 0 || at == len(trimmed)-1 {
		return fmt.Errorf("%w: malformed email", ErrInvalidArgument)
	}
	return nil
}

func ValidateVideoTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" || len(trimmed) > maxTitleLen {
		return fmt.Errorf("%w: title must be 1-%d characters", ErrInvalidArgument, maxTitleLen)
	}
	return nil
}
