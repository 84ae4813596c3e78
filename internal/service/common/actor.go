//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"
)

// DetectActor returns "user@host" for the current process.
func DetectActor() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("current user: %w", err)
	}

	return currentUser.Username + "@" + hostname, nil
}

// ActorReason prefixes reason with the current actor when it can be detected.
func ActorReason(reason string) string {
	actor, err := DetectActor()
	if err != nil {
		return reason
	}

	if reason == "" {
		return actor
	}

	return actor + ": " + reason
}
