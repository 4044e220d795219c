package models

import (
	"errors"
	"fmt"
	"reflect"
)

// Field names used by MaintenanceRecordFromMap and the canonical encoding.
const (
	FieldVehicleID       = "vehicle_id"
	FieldServiceProvider = "service_provider"
	FieldDescription     = "description"
	FieldAttributes      = "attributes"
)

var ErrInvalidField = errors.New("invalid maintenance field")

// MaintenanceRecord represents one vehicle maintenance event.
type MaintenanceRecord struct {
	vehicleID       string
	serviceProvider string
	description     string
	attributes      map[string]any
}

// NewMaintenanceRecord creates a maintenance record without extra attributes.
func NewMaintenanceRecord(vehicleID, serviceProvider, description string) MaintenanceRecord {
	return MaintenanceRecord{
		vehicleID:       vehicleID,
		serviceProvider: serviceProvider,
		description:     description,
	}
}

// MaintenanceRecordFromMap builds a record from a loosely typed mapping.
// Keys other than the three core fields are kept as attributes, as are the
// entries of a nested "attributes" map. A key given both ways is rejected.
func MaintenanceRecordFromMap(m map[string]any) (MaintenanceRecord, error) {
	var r MaintenanceRecord
	extras := make(map[string]any)
	var nested map[string]any
	for key, value := range m {
		switch key {
		case FieldVehicleID, FieldServiceProvider, FieldDescription:
			s, ok := value.(string)
			if !ok {
				return MaintenanceRecord{}, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidField, key, value)
			}
			switch key {
			case FieldVehicleID:
				r.vehicleID = s
			case FieldServiceProvider:
				r.serviceProvider = s
			default:
				r.description = s
			}
		case FieldAttributes:
			attrs, ok := value.(map[string]any)
			if !ok {
				return MaintenanceRecord{}, fmt.Errorf("%w: %s must be a map, got %T", ErrInvalidField, key, value)
			}
			nested = attrs
		default:
			extras[key] = value
		}
	}

	for k, v := range nested {
		if _, dup := extras[k]; dup {
			return MaintenanceRecord{}, fmt.Errorf("%w: attribute %q given both at top level and in %s", ErrInvalidField, k, FieldAttributes)
		}
		extras[k] = v
	}
	r.attributes = cloneMap(extras)
	return r, nil
}

// WithAttributes returns a copy of the record carrying the given attributes.
func (r MaintenanceRecord) WithAttributes(attrs map[string]any) MaintenanceRecord {
	r.attributes = cloneMap(attrs)
	return r
}

func (r MaintenanceRecord) VehicleID() string       { return r.vehicleID }
func (r MaintenanceRecord) ServiceProvider() string { return r.serviceProvider }
func (r MaintenanceRecord) Description() string     { return r.description }

// Attributes returns a deep copy of the extra attributes, nil when there are none.
func (r MaintenanceRecord) Attributes() map[string]any {
	return cloneMap(r.attributes)
}

// Fields returns the record as a plain mapping, the shape hashed by the ledger.
func (r MaintenanceRecord) Fields() map[string]any {
	m := map[string]any{
		FieldVehicleID:       r.vehicleID,
		FieldServiceProvider: r.serviceProvider,
		FieldDescription:     r.description,
	}
	if len(r.attributes) > 0 {
		m[FieldAttributes] = cloneMap(r.attributes)
	}
	return m
}

// Equal reports whether both records carry the same field values with the
// same types. Attributes holding functions never compare equal.
func (r MaintenanceRecord) Equal(other MaintenanceRecord) bool {
	if r.vehicleID != other.vehicleID || r.serviceProvider != other.serviceProvider || r.description != other.description {
		return false
	}
	return reflect.DeepEqual(r.attributes, other.attributes)
}

func cloneMap(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, nested := range t {
			out[k] = cloneValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, nested := range t {
			out[i] = cloneValue(nested)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
