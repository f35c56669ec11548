package validation

import (
	"github.com/pagescope/user-service/internal/core/domain"
)

// rule is the validator tag applied to one payload field.
type rule struct {
	field string
	tag   string
}

// rules run in this order so reasons come back in a stable order.
var rules = []rule{
	{field: "name", tag: "min=3,alphanumunicode"},
	{field: "surname", tag: "min=3,alphanumunicode"},
	{field: "nick", tag: "min=3,alphanumunicode"},
	{field: "email", tag: "email"},
	{field: "password", tag: "min=8,max=72,strongpassword"},
	{field: "role", tag: "oneof=" + domain.RoleAdmin + " " + domain.RoleClient},
	{field: "image", tag: "alphanum"},
	{field: "imagePath", tag: "alphanum"},
	{field: "created_at", tag: "date"},
}

var validate = newValidator()

// Presence returns the names of fields missing from data, in the order they
// were asked for. It returns nil when all are present.
func Presence(data domain.Payload, fields ...string) []string {
	var missing []string
	for _, f := range fields {
		if !data.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Format checks every known field present in data and returns one reason per
// invalid field. Absent fields are skipped; unknown fields are ignored.
func Format(data domain.Payload) []string {
	var reasons []string
	for _, r := range rules {
		if !data.Has(r.field) {
			continue
		}
		value, ok := data.String(r.field)
		if !ok {
			reasons = append(reasons, r.field+" must be a string")
			continue
		}
		if err := validate.Var(value, r.tag); err != nil {
			reasons = append(reasons, reason(r.field, err))
		}
	}
	return reasons
}
