package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	minIDLength = 64
	maxIDLength = 1024
)

// IDGenerator produces session identifiers.
type IDGenerator interface {
	Generate() string
}

type idKind uint8

const (
	idUUIDv7 idKind = iota
	idUUIDv4
	idRandomNumeric
	idRandomSHA256
)

// IDStrategy selects how session identifiers are generated.
// The zero value generates UUIDv7 identifiers.
type IDStrategy struct {
	kind   idKind
	length int
}

// UUIDv7 generates time-ordered identifiers.
func UUIDv7() IDStrategy { return IDStrategy{kind: idUUIDv7} }

// UUIDv4 generates purely random identifiers.
func UUIDv4() IDStrategy { return IDStrategy{kind: idUUIDv4} }

// RandomNumeric generates identifiers of exactly n decimal digits.
func RandomNumeric(n int) IDStrategy { return IDStrategy{kind: idRandomNumeric, length: n} }

// RandomSHA256 hashes n random bytes with SHA-256 and hex encodes the digest.
func RandomSHA256(n int) IDStrategy { return IDStrategy{kind: idRandomSHA256, length: n} }

// Generate returns a new identifier. It never fails.
func (s IDStrategy) Generate() string {
	switch s.kind {
	case idUUIDv4:
		return uuid.NewString()
	case idRandomNumeric:
		return randomDigits(s.length)
	case idRandomSHA256:
		sum := sha256.Sum256(randomBytes(s.length))
		return hex.EncodeToString(sum[:])
	default:
		id, err := uuid.NewV7()
		if err != nil {
			return uuid.NewString()
		}
		return id.String()
	}
}

// Validate rejects length parameters outside [64, 1024].
func (s IDStrategy) Validate() error {
	switch s.kind {
	case idRandomNumeric, idRandomSHA256:
		if s.length < minIDLength || s.length > maxIDLength {
			return errors.Join(ErrInvalidConfig,
				fmt.Errorf("id strategy %s: length must be within [%d, %d]", s, minIDLength, maxIDLength))
		}
	}
	return nil
}

// String returns the text form accepted by UnmarshalText.
func (s IDStrategy) String() string {
	switch s.kind {
	case idUUIDv4:
		return "uuidv4"
	case idRandomNumeric:
		return "random:" + strconv.Itoa(s.length)
	case idRandomSHA256:
		return "sha256:" + strconv.Itoa(s.length)
	default:
		return "uuidv7"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s IDStrategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses "uuidv7", "uuidv4", "random:<n>" or "sha256:<n>".
func (s *IDStrategy) UnmarshalText(text []byte) error {
	name, arg, hasArg := strings.Cut(strings.ToLower(strings.TrimSpace(string(text))), ":")
	switch name {
	case "", "uuidv7":
		*s = UUIDv7()
		return nil
	case "uuidv4":
		*s = UUIDv4()
		return nil
	case "random", "sha256":
		if !hasArg {
			return errors.Join(ErrInvalidConfig, fmt.Errorf("id strategy %q: missing length", text))
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			return errors.Join(ErrInvalidConfig, fmt.Errorf("id strategy %q: %w", text, err))
		}
		if name == "random" {
			*s = RandomNumeric(n)
		} else {
			*s = RandomSHA256(n)
		}
		return nil
	default:
		return errors.Join(ErrInvalidConfig, fmt.Errorf("unknown id strategy %q", text))
	}
}

// randomBytes reads n bytes from crypto/rand, which never returns an error.
func randomBytes(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}

// randomDigits returns n uniformly distributed decimal digits.
func randomDigits(n int) string {
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		_, _ = rand.Read(buf)
		for _, b := range buf {
			// 250 is the largest multiple of 10 below 256
			if b >= 250 {
				continue
			}
			out = append(out, '0'+b%10)
			if len(out) == n {
				break
			}
		}
	}
	return string(out)
}
