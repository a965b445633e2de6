package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvFiles are the dotenv files consulted for DOCSITE_* flag defaults, in order.
var EnvFiles = []string{".env", ".env.local"}

// LoadEnv loads the given dotenv files (EnvFiles when none are given) into the
// process environment. Missing files are skipped and variables already set
// are never overwritten. It returns the files that were loaded.
//
// The environment only supplies CLI flag defaults; site values never come
// from it.
func LoadEnv(files ...string) ([]string, error) {
	if len(files) == 0 {
		files = EnvFiles
	}
	var loaded []string
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return loaded, err
		}
		loaded = append(loaded, f)
	}
	return loaded, nil
}
