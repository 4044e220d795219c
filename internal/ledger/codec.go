package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/weznn/Blockchain-BasedAutomotiveDamageTrackingSystem3DAdvancedModel/internal/models"
)

// GenesisMarker is the payload sealed into every genesis block.
const GenesisMarker = "Genesis Block"

var (
	errInvalidUTF8     = errors.New("string is not valid UTF-8")
	errNonFiniteNumber = errors.New("number is not finite")
)

// Payload is the content of a block: either the genesis marker or a maintenance record.
type Payload struct {
	genesis bool
	record  models.MaintenanceRecord
}

// GenesisPayload returns the payload carried by the first block of every chain.
func GenesisPayload() Payload {
	return Payload{genesis: true}
}

// RecordPayload wraps a maintenance record.
func RecordPayload(r models.MaintenanceRecord) Payload {
	return Payload{record: r}
}

func (p Payload) IsGenesis() bool {
	return p.genesis
}

// Record returns the wrapped record; ok is false for the genesis payload.
func (p Payload) Record() (models.MaintenanceRecord, bool) {
	if p.genesis {
		return models.MaintenanceRecord{}, false
	}
	return p.record, true
}

// EncodePayload returns the canonical JSON form of a payload.
// Object keys are emitted in sorted order at every nesting level, so the
// output depends only on field values.
func EncodePayload(p Payload) ([]byte, error) {
	if p.genesis {
		return json.Marshal(GenesisMarker)
	}

	fields := p.record.Fields()
	for _, name := range []string{models.FieldVehicleID, models.FieldServiceProvider, models.FieldDescription} {
		if !utf8.ValidString(fields[name].(string)) {
			return nil, &EncodingError{Field: name, Err: errInvalidUTF8}
		}
	}
	if attrs, ok := fields[models.FieldAttributes]; ok {
		if err := checkValue(models.FieldAttributes, attrs); err != nil {
			return nil, err
		}
	}

	b, err := json.Marshal(fields)
	if err != nil {
		return nil, &EncodingError{Err: err}
	}
	return b, nil
}

// DecodePayload parses the canonical form produced by EncodePayload.
func DecodePayload(data []byte) (Payload, error) {
	var marker string
	if err := json.Unmarshal(data, &marker); err == nil {
		if marker != GenesisMarker {
			return Payload{}, fmt.Errorf("%w: unexpected marker %q", ErrInvalidPayload, marker)
		}
		return GenesisPayload(), nil
	}

	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	r, err := models.MaintenanceRecordFromMap(fields)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return RecordPayload(r), nil
}

// checkValue rejects anything the canonical form cannot carry unambiguously.
func checkValue(path string, v any) error {
	switch t := v.(type) {
	case nil, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return nil
	case string:
		if !utf8.ValidString(t) {
			return &EncodingError{Field: path, Err: errInvalidUTF8}
		}
		return nil
	case float32:
		return checkFloat(path, float64(t))
	case float64:
		return checkFloat(path, t)
	case []any:
		for i, nested := range t {
			if err := checkValue(fmt.Sprintf("%s[%d]", path, i), nested); err != nil {
				return err
			}
		}
		return nil
	case []string:
		for i, s := range t {
			if !utf8.ValidString(s) {
				return &EncodingError{Field: fmt.Sprintf("%s[%d]", path, i), Err: errInvalidUTF8}
			}
		}
		return nil
	case map[string]any:
		for k, nested := range t {
			if !utf8.ValidString(k) {
				return &EncodingError{Field: path, Err: errInvalidUTF8}
			}
			if err := checkValue(path+"."+k, nested); err != nil {
				return err
			}
		}
		return nil
	case map[string]string:
		for k, s := range t {
			if !utf8.ValidString(k) || !utf8.ValidString(s) {
				return &EncodingError{Field: path + "." + k, Err: errInvalidUTF8}
			}
		}
		return nil
	default:
		return &EncodingError{Field: path, Err: fmt.Errorf("unsupported type %T", v)}
	}
}

func checkFloat(path string, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return &EncodingError{Field: path, Err: errNonFiniteNumber}
	}
	return nil
}
