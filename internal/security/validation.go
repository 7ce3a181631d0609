package security

import (
	"fmt"
)

// ValidatePort validates that a port number is within valid range
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got: %d", port)
	}
	return nil
}

// SanitizeHostname removes potentially dangerous characters from hostnames.
// The dish address may come from the environment or a config file, and ends
// up embedded in URLs and dial strings.
func SanitizeHostname(hostname string) (string, error) {
	if hostname == "" {
		return "", fmt.Errorf("hostname cannot be empty")
	}

	// Basic hostname validation - alphanumeric, dots, hyphens only
	for _, char := range hostname {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '-' || char == '_') {
			return "", fmt.Errorf("invalid character in hostname: %c", char)
		}
	}

	if len(hostname) > 253 {
		return "", fmt.Errorf("hostname too long: %d characters (max 253)", len(hostname))
	}

	return hostname, nil
}
