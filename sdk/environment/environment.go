// Package environment provides utilities for managing environment variables
// and configuration loading with support for namespacing and defaults.
package environment

import (
	"fmt"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file from the working directory when one exists.
// Local development relies on it; in containers the variables are already set.
//
// Example:
//
//	if err := environment.LoadEnv(); err != nil {
//	    log.Printf("no .env file: %v", err)
//	}
func LoadEnv() error {
	return godotenv.Load()
}

// GetNamespaceEnvKey joins a namespace and a key with an underscore.
// An empty namespace returns the key unchanged.
//
// Example:
//
//	GetNamespaceEnvKey("TASKWIRE", "PG_DATABASE_URL") // "TASKWIRE_PG_DATABASE_URL"
func GetNamespaceEnvKey(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", namespace, key)
}

// GetEnvKeyPrefix is the key lookup used by ParseEnvTags.
func GetEnvKeyPrefix(prefix, key string) string {
	return GetNamespaceEnvKey(prefix, key)
}
