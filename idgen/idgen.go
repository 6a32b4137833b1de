// Package idgen provides short, URL-safe unique ids backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is lowercase only so slugs read well inside URLs.
var Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters (excluding any prefix).
var Length = 10

// Prefixes used across the repo.
const (
	PrefixCustomItem = "ks-"
	PrefixSession    = "es-"
)

// Generate returns a new id without a prefix.
func Generate() (string, error) {
	return GenerateWithPrefix("")
}

// GenerateWithPrefix returns a new id with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// Slug returns a page slug of the form "<base>-<random>" where base is the
// lowercase, dash-joined alphanumeric words of name. An empty base yields only
// the random part.
func Slug(name string) (string, error) {
	base := slugBase(name)
	if base == "" {
		return Generate()
	}
	suffix, err := nanoid.Generate(Alphabet, 6)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return base + "-" + suffix, nil
}

func slugBase(name string) string {
	var out []byte
	dash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, byte(r))
			dash = false
		case r >= 'A' && r <= 'Z':
			out = append(out, byte(r-'A'+'a'))
			dash = false
		default:
			if len(out) > 0 && !dash {
				out = append(out, '-')
				dash = true
			}
		}
		if len(out) >= 40 {
			break
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
