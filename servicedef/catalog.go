package servicedef

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Field names used by the GP data catalog in JSON format.
const (
	FieldEpoch      = "EPOCH"
	FieldObjectID   = "OBJECT_ID"
	FieldNoradCatID = "NORAD_CAT_ID"
	FieldObjectName = "OBJECT_NAME"
)

// RequiredCatalogFields are the fields every catalog record is expected to carry.
var RequiredCatalogFields = []string{FieldEpoch, FieldObjectID, FieldNoradCatID}

// CatalogRecord is a read-only view of one element of the catalog's JSON array.
type CatalogRecord struct {
	value ldvalue.Value
}

// NewCatalogRecord wraps a parsed JSON value. Non-object values produce a record with no fields.
func NewCatalogRecord(value ldvalue.Value) CatalogRecord {
	return CatalogRecord{value: value}
}

// ParseCatalogRecords parses a catalog response body. An empty body means no records. Anything
// other than a JSON array of objects is an error.
func ParseCatalogRecords(body []byte) ([]CatalogRecord, error) {
	if len(body) == 0 {
		return nil, nil
	}
	v := ldvalue.Parse(body)
	if v.Type() != ldvalue.ArrayType {
		return nil, fmt.Errorf("catalog body is not a JSON array (got %s)", v.Type())
	}
	ret := make([]CatalogRecord, 0, v.Count())
	for i := 0; i < v.Count(); i++ {
		item := v.GetByIndex(i)
		if item.Type() != ldvalue.ObjectType {
			return nil, fmt.Errorf("catalog element %d is not a JSON object (got %s)", i, item.Type())
		}
		ret = append(ret, NewCatalogRecord(item))
	}
	return ret, nil
}

// Value returns the underlying JSON value.
func (r CatalogRecord) Value() ldvalue.Value {
	return r.value
}

// Lookup returns the value of a field and whether the key is present at all. A present key may
// still hold a JSON null.
func (r CatalogRecord) Lookup(name string) (ldvalue.Value, bool) {
	if r.value.Type() != ldvalue.ObjectType {
		return ldvalue.Null(), false
	}
	for _, k := range r.value.Keys() {
		if k == name {
			return r.value.GetByKey(name), true
		}
	}
	return ldvalue.Null(), false
}

// Epoch returns the EPOCH field as a string, if it is a string.
func (r CatalogRecord) Epoch() (string, bool) {
	return r.stringField(FieldEpoch)
}

// ObjectID returns the OBJECT_ID field (the COSPAR designator).
func (r CatalogRecord) ObjectID() (string, bool) {
	return r.stringField(FieldObjectID)
}

// ObjectName returns the OBJECT_NAME field.
func (r CatalogRecord) ObjectName() (string, bool) {
	return r.stringField(FieldObjectName)
}

// NoradCatID returns NORAD_CAT_ID as a string. The catalog may send it as a JSON integer, in
// which case it is rendered in decimal without padding.
func (r CatalogRecord) NoradCatID() (string, bool) {
	v, ok := r.Lookup(FieldNoradCatID)
	if !ok {
		return "", false
	}
	switch v.Type() {
	case ldvalue.StringType:
		return v.StringValue(), true
	case ldvalue.NumberType:
		f := v.Float64Value()
		if f != math.Trunc(f) {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
		return strconv.FormatInt(int64(f), 10), true
	default:
		return "", false
	}
}

// String returns the record as compact JSON, for diagnostics.
func (r CatalogRecord) String() string {
	return r.value.JSONString()
}

func (r CatalogRecord) stringField(name string) (string, bool) {
	v, ok := r.Lookup(name)
	if !ok || v.Type() != ldvalue.StringType {
		return "", false
	}
	return v.StringValue(), true
}
