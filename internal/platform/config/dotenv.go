package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads KEY=VALUE files into the process env before any Conf lookups
// values already present in the environment win; missing files are skipped
// with no paths it tries ".env" in the working directory
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// MayAddr returns a listen address like ":8000"
// a bare port number is accepted and gets the colon prepended, def is used when empty
func (c Conf) MayAddr(key, def string) string {
	s := c.MayString(key, def)
	if s == "" || strings.Contains(s, ":") {
		return s
	}
	if p, err := strconv.Atoi(s); err == nil && p > 0 && p < 65536 {
		return ":" + s
	}
	return s
}
