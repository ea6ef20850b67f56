package cdc

import "github.com/tidwall/gjson"

// Row is an immutable snapshot of one change event. It holds its own
// copy of the field names and types as they existed when the event was
// decoded, so a later schema announcement never alters a row that has
// already been returned. Rows may outlive the Connection that produced
// them and may be shared freely between holders; they are never
// mutated after creation.
type Row struct {
	keys   []string
	types  []string
	values []string
}

// FieldCount returns the number of fields in the row.
func (r *Row) FieldCount() int { return len(r.values) }

// Key returns the field name at index i.
func (r *Row) Key(i int) string { return r.keys[i] }

// Type returns the SQL type of the field at index i.
func (r *Row) Type(i int) string { return r.types[i] }

// Value returns the value of the field at index i.
func (r *Row) Value(i int) string { return r.values[i] }

// ValueOf returns the value of the named field. The second result is
// false when the row has no field with that name.
func (r *Row) ValueOf(name string) (string, bool) {
	for i, k := range r.keys {
		if k == name {
			return r.values[i], true
		}
	}
	return "", false
}

// GTID returns the row's position in the source's change log as a
// "domain-server_id-sequence" triple, derived from the well-known
// columns of the same names.
func (r *Row) GTID() string {
	var domain, _ = r.ValueOf("domain")
	var serverID, _ = r.ValueOf("server_id")
	var sequence, _ = r.ValueOf("sequence")
	return domain + "-" + serverID + "-" + sequence
}

// newRow materializes a data event against the given schema snapshot.
// Every declared field must be present in the message; a missing field
// fails the whole row and no partial row is produced.
func newRow(fields []field, js gjson.Result) (*Row, error) {
	var object = js.Map()
	var keys = make([]string, 0, len(fields))
	var types = make([]string, 0, len(fields))
	var values = make([]string, 0, len(fields))
	for _, f := range fields {
		var v, ok = object[f.Name]
		if !ok {
			return nil, &DecodeError{Field: f.Name, Message: "no value for key found: " + f.Name}
		}
		keys = append(keys, f.Name)
		types = append(types, f.Type)
		values = append(values, fieldValue(v))
	}
	return &Row{keys: keys, types: types, values: values}, nil
}

// fieldValue renders a JSON value into the row's string form: strings
// pass through, numbers keep their wire text, booleans become the
// "true"/"false" literals, and null or any aggregate value becomes the
// empty string.
func fieldValue(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.String()
	case gjson.Number:
		return v.Raw
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	default:
		return ""
	}
}
