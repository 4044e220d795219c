package ledger

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/weznn/Blockchain-BasedAutomotiveDamageTrackingSystem3DAdvancedModel/internal/models"
)

// Chain is an append-only sequence of blocks rooted at a genesis block.
type Chain struct {
	mu     sync.RWMutex
	blocks []Block

	digest Digest
	now    func() time.Time
	logger *log.Entry
}

// Option configures a Chain.
type Option func(*Chain)

// WithDigest selects the hash function used to seal and verify blocks.
// An unknown digest is replaced by SHA256 with a warning, and Digest
// reports the one actually in use.
func WithDigest(d Digest) Option {
	return func(c *Chain) {
		c.digest = d
	}
}

// WithClock overrides the time source used for block timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Chain) {
		c.now = now
	}
}

// WithLogger sets the logger used for append and audit events.
func WithLogger(logger *log.Entry) Option {
	return func(c *Chain) {
		c.logger = logger
	}
}

func newChain(opts []Option) *Chain {
	c := &Chain{
		digest: SHA256,
		now:    time.Now,
		logger: log.WithField("component", "ledger"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if d, err := ParseDigest(string(c.digest)); err != nil {
		c.logger.WithError(err).Warn("Falling back to sha256")
		c.digest = SHA256
	} else {
		c.digest = d
	}
	return c
}

// New creates a chain holding a single genesis block with index 0 and
// previous hash ZeroHash.
func New(opts ...Option) *Chain {
	c := newChain(opts)
	encoded, err := EncodePayload(GenesisPayload())
	if err != nil {
		// The genesis marker is a constant string.
		panic(fmt.Sprintf("ledger: encode genesis payload: %v", err))
	}
	genesis := sealBlock(0, unixSeconds(c.now()), GenesisPayload(), encoded, ZeroHash, c.digest)
	c.blocks = append(c.blocks, genesis)

	c.logger.WithFields(log.Fields{
		"hash":   genesis.hash,
		"digest": c.digest,
	}).Debug("Created genesis block")
	return c
}

// FromBlocks builds a chain from an existing block sequence, such as a
// decoded snapshot. The blocks are not verified; call Audit for that.
func FromBlocks(blocks []Block, opts ...Option) (*Chain, error) {
	if len(blocks) == 0 {
		return nil, ErrEmptyChain
	}
	c := newChain(opts)
	c.blocks = append(make([]Block, 0, len(blocks)), blocks...)
	return c, nil
}

// Append seals record into a new block linked to the current last block.
// On error the chain is left unchanged.
func (c *Chain) Append(record models.MaintenanceRecord) (Block, error) {
	payload := RecordPayload(record)
	encoded, err := EncodePayload(payload)
	if err != nil {
		return Block{}, fmt.Errorf("append maintenance record: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.blocks) == 0 {
		return Block{}, ErrEmptyChain
	}
	last := c.blocks[len(c.blocks)-1]
	block := sealBlock(len(c.blocks), unixSeconds(c.now()), payload, encoded, last.hash, c.digest)
	c.blocks = append(c.blocks, block)

	c.logger.WithFields(log.Fields{
		"index":      block.index,
		"hash":       block.hash,
		"vehicle_id": record.VehicleID(),
	}).Debug("Appended block")
	return block, nil
}

// Verify reports whether every block is internally consistent and linked to
// its predecessor.
func (c *Chain) Verify() bool {
	return c.Len() > 0 && len(c.Audit()) == 0
}

// Audit checks every block and returns all violations found, in chain order.
// Each block is checked for its position, its own hash and its link to the
// previous block's stored hash. The chain is never modified.
func (c *Chain) Audit() []IntegrityViolation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var violations []IntegrityViolation
	for i, b := range c.blocks {
		if b.index != i {
			violations = append(violations, IntegrityViolation{
				Index:    i,
				Kind:     IndexMismatch,
				Expected: fmt.Sprint(i),
				Actual:   fmt.Sprint(b.index),
			})
		}

		expected, err := b.recompute(c.digest)
		if err != nil {
			expected = err.Error()
		}
		if expected != b.hash {
			violations = append(violations, IntegrityViolation{
				Index:    i,
				Kind:     HashMismatch,
				Expected: expected,
				Actual:   b.hash,
			})
		}

		prev := ZeroHash
		if i > 0 {
			prev = c.blocks[i-1].hash
		}
		if b.prevHash != prev {
			violations = append(violations, IntegrityViolation{
				Index:    i,
				Kind:     LinkMismatch,
				Expected: prev,
				Actual:   b.prevHash,
			})
		}
	}

	for _, v := range violations {
		c.logger.WithFields(log.Fields{
			"index": v.Index,
			"kind":  v.Kind,
		}).Warn("Integrity violation")
	}
	return violations
}

// Blocks returns an ordered copy of every block, genesis included.
func (c *Chain) Blocks() []Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(make([]Block, 0, len(c.blocks)), c.blocks...)
}

// Block returns the block at index.
func (c *Chain) Block(index int) (Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.blocks) {
		return Block{}, fmt.Errorf("%w: index %d", ErrBlockNotFound, index)
	}
	return c.blocks[index], nil
}

// Last returns the most recently appended block.
func (c *Chain) Last() (Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.blocks) == 0 {
		return Block{}, ErrEmptyChain
	}
	return c.blocks[len(c.blocks)-1], nil
}

// Len returns the number of blocks, genesis included.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// Digest returns the hash function the chain seals blocks with.
func (c *Chain) Digest() Digest {
	return c.digest
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
