package types

const redactedPlaceholder = "***REDACTED***"

// SecretString holds a credential (database or cache URL with a password,
// for instance) and never prints or serializes its value. Call Unmask at the
// single point where the raw value is handed to a driver.
type SecretString string

// String implements fmt.Stringer with a redacted placeholder.
func (s SecretString) String() string {
	return redactedPlaceholder
}

// GoString keeps %#v output redacted as well.
func (s SecretString) GoString() string {
	return redactedPlaceholder
}

// MarshalJSON encodes the placeholder instead of the value.
func (s SecretString) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redactedPlaceholder + `"`), nil
}

// Unmask returns the raw value.
func (s SecretString) Unmask() string {
	return string(s)
}

// IsSet reports whether a value was configured.
func (s SecretString) IsSet() bool {
	return s != ""
}
