package cdc

import "github.com/tidwall/gjson"

// field is one (name, type) pair of the active schema.
type field struct {
	Name string
	Type string
}

// isSchema reports whether a parsed message is a schema announcement:
// it must have a "fields" key holding a non-empty array whose first
// element has a "name" key. Anything else is a data event.
func isSchema(js gjson.Result) bool {
	var fields = js.Get("fields")
	if !fields.IsArray() {
		return false
	}
	var arr = fields.Array()
	return len(arr) > 0 && arr[0].Get("name").Exists()
}

// parseSchema extracts the ordered field list from a schema
// announcement. The type comes from "real_type" when present, falling
// back to the Avro "type" (used for generated columns); a selected
// type value that is not a plain string becomes "char(50)", and a
// field with no type key at all becomes "undefined". A missing name
// becomes the empty string rather than an error, since the server
// emits nameless entries for some generated columns.
func parseSchema(js gjson.Result) []field {
	var fields []field
	for _, v := range js.Get("fields").Array() {
		var ftype string
		var t = v.Get("real_type")
		if !t.Exists() {
			t = v.Get("type")
		}
		switch {
		case !t.Exists():
			ftype = "undefined"
		case t.Type == gjson.String:
			ftype = t.String()
		default:
			ftype = "char(50)"
		}
		fields = append(fields, field{Name: v.Get("name").String(), Type: ftype})
	}
	return fields
}
