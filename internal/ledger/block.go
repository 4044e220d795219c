package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/weznn/Blockchain-BasedAutomotiveDamageTrackingSystem3DAdvancedModel/internal/models"
)

// ZeroHash is the previous hash of a genesis block.
const ZeroHash = "0"

// Block is one sealed entry of the chain. Its fields cannot be changed after
// construction; the hash covers index, timestamp, payload and previous hash.
type Block struct {
	index     int
	timestamp float64
	payload   Payload
	prevHash  string
	hash      string
}

// NewBlock seals a block with the given digest.
func NewBlock(index int, timestamp float64, payload Payload, prevHash string, digest Digest) (Block, error) {
	encoded, err := EncodePayload(payload)
	if err != nil {
		return Block{}, err
	}
	return sealBlock(index, timestamp, payload, encoded, prevHash, digest), nil
}

func sealBlock(index int, timestamp float64, payload Payload, encoded []byte, prevHash string, digest Digest) Block {
	return Block{
		index:     index,
		timestamp: timestamp,
		payload:   payload,
		prevHash:  prevHash,
		hash:      digest.Sum(hashInput(index, timestamp, encoded, prevHash)),
	}
}

// hashInput concatenates index, timestamp, canonical payload and previous hash.
func hashInput(index int, timestamp float64, encoded []byte, prevHash string) []byte {
	buf := make([]byte, 0, len(encoded)+len(prevHash)+48)
	buf = strconv.AppendInt(buf, int64(index), 10)
	buf = strconv.AppendFloat(buf, timestamp, 'f', -1, 64)
	buf = append(buf, encoded...)
	buf = append(buf, prevHash...)
	return buf
}

// recompute returns the hash the block's stored fields produce under digest.
func (b Block) recompute(digest Digest) (string, error) {
	encoded, err := EncodePayload(b.payload)
	if err != nil {
		return "", err
	}
	return digest.Sum(hashInput(b.index, b.timestamp, encoded, b.prevHash)), nil
}

func (b Block) Index() int           { return b.index }
func (b Block) Timestamp() float64   { return b.timestamp }
func (b Block) Payload() Payload     { return b.payload }
func (b Block) PreviousHash() string { return b.prevHash }
func (b Block) Hash() string         { return b.hash }

// Time converts the timestamp to a time.Time.
func (b Block) Time() time.Time {
	sec, frac := math.Modf(b.timestamp)
	return time.Unix(int64(sec), int64(frac*1e9))
}

// IsGenesis reports whether the block carries the genesis marker.
func (b Block) IsGenesis() bool {
	return b.payload.IsGenesis()
}

// Record returns the maintenance record of a non-genesis block.
func (b Block) Record() (models.MaintenanceRecord, bool) {
	return b.payload.Record()
}

type blockJSON struct {
	Index        int             `json:"index"`
	Timestamp    float64         `json:"timestamp"`
	Payload      json.RawMessage `json:"payload"`
	PreviousHash string          `json:"previous_hash"`
	Hash         string          `json:"hash"`
}

// MarshalJSON emits the stored fields, including the stored hash.
func (b Block) MarshalJSON() ([]byte, error) {
	encoded, err := EncodePayload(b.payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(blockJSON{
		Index:        b.index,
		Timestamp:    b.timestamp,
		Payload:      encoded,
		PreviousHash: b.prevHash,
		Hash:         b.hash,
	})
}

// UnmarshalJSON restores a block exactly as stored. The hash is not
// recomputed, so a tampered snapshot stays detectable by Audit.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw blockJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Index < 0 {
		return fmt.Errorf("%w: negative index %d", ErrInvalidBlock, raw.Index)
	}
	payload, err := DecodePayload(raw.Payload)
	if err != nil {
		return err
	}
	*b = Block{
		index:     raw.Index,
		timestamp: raw.Timestamp,
		payload:   payload,
		prevHash:  raw.PreviousHash,
		hash:      raw.Hash,
	}
	return nil
}
