package logging

import "time"

// LogField creates a Field from a key-value pair.
func LogField(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// StringField creates a Field with a string value.
func StringField(key, value string) Field {
	return Field{Key: key, Value: value}
}

// IntField creates a Field with an integer value.
func IntField(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// BoolField creates a Field with a boolean value.
func BoolField(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// ErrorField creates a Field for an error value. If err is nil,
// the value is set to the string "<nil>".
func ErrorField(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// DurationField creates a Field holding a duration in
// milliseconds.
func DurationField(key string, value time.Duration) Field {
	return Field{Key: key, Value: float64(value.Microseconds()) / 1000}
}

// InvocationField tags an entry with the outcome it belongs to.
func InvocationField(id string) Field {
	return Field{Key: "invocation_id", Value: id}
}

// SuiteField tags an entry with a suite name.
func SuiteField(name string) Field {
	return Field{Key: "suite", Value: name}
}

// MatcherField tags an entry with a matcher type.
func MatcherField(name string) Field {
	return Field{Key: "matcher", Value: name}
}

// FailureFields returns the fields summarizing f in a regular
// log entry. Optional parts are left out when empty.
func FailureFields(f FailureLog) []Field {
	fields := []Field{
		InvocationField(f.InvocationID),
		StringField("expected", f.Expected),
		StringField("actual", f.Actual),
		BoolField("fatal", f.Fatal),
	}
	if f.Expression != "" {
		fields = append(fields, StringField("expression", f.Expression))
	}
	if f.Context != "" {
		fields = append(fields, StringField("context", f.Context))
	}
	return fields
}
