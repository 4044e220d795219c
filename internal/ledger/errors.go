package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyChain     = errors.New("ledger: chain has no genesis block")
	ErrBlockNotFound  = errors.New("ledger: block not found")
	ErrUnknownDigest  = errors.New("ledger: unknown digest")
	ErrInvalidPayload = errors.New("ledger: invalid payload")
	ErrInvalidBlock   = errors.New("ledger: invalid block")
)

// EncodingError reports a payload value that has no canonical form.
type EncodingError struct {
	Field string
	Err   error
}

func (e *EncodingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("ledger: cannot encode payload: %v", e.Err)
	}
	return fmt.Sprintf("ledger: cannot encode field %q: %v", e.Field, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// ViolationKind names the check a block failed during verification.
type ViolationKind string

const (
	HashMismatch  ViolationKind = "hash-mismatch"
	LinkMismatch  ViolationKind = "link-mismatch"
	IndexMismatch ViolationKind = "index-mismatch"
)

// IntegrityViolation describes one failed check at a chain position.
type IntegrityViolation struct {
	Index    int           `json:"index"`
	Kind     ViolationKind `json:"kind"`
	Expected string        `json:"expected"`
	Actual   string        `json:"actual"`
}

func (v IntegrityViolation) String() string {
	return fmt.Sprintf("block %d: %s: expected %s, got %s", v.Index, v.Kind, v.Expected, v.Actual)
}
