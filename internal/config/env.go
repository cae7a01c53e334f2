package config

import (
	"os"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order; earlier files win because existing variables
// are never overwritten.
var envFiles = []string{".env.local", ".env"}

// LoadEnvFiles loads variables from .env.local and .env in the working directory
// without overriding the process environment. It returns the files loaded.
func LoadEnvFiles() []string {
	var loaded []string
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	return loaded
}
