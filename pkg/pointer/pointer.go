package pointer

// String returns a pointer to the provided string value
func String(value string) *string {
	return &value
}

// StringOrDefault returns the pointer if not nil, otherwise the default value
func StringOrDefault(value *string, defaultValue string) *string {
	if value != nil {
		return value
	}
	return &defaultValue
}

// StringIfValid returns a pointer to the value if it's valid, otherwise nil
func StringIfValid(valid bool, value string) *string {
	if valid {
		return &value
	}
	return nil
}

// StringCopy returns a pointer that's a copy of the provided value
func StringCopy(value *string) *string {
	if value == nil {
		return nil
	}

	return String(*value)
}

// Uint8 returns a pointer to the provided uint8 value
func Uint8(value uint8) *uint8 {
	return &value
}

// Uint8OrDefault returns the pointer if not nil, otherwise the default value
func Uint8OrDefault(value *uint8, defaultValue uint8) *uint8 {
	if value != nil {
		return value
	}
	return &defaultValue
}

// Uint8IfValid returns a pointer to the value if it's valid, otherwise nil
func Uint8IfValid(valid bool, value uint8) *uint8 {
	if valid {
		return &value
	}
	return nil
}

// Uint8Copy returns a pointer that's a copy of the provided value
func Uint8Copy(value *uint8) *uint8 {
	if value == nil {
		return nil
	}

	return Uint8(*value)
}

// Uint32 returns a pointer to the provided uint32 value
func Uint32(value uint32) *uint32 {
	return &value
}

// Uint32OrDefault returns the pointer if not nil, otherwise the default value
func Uint32OrDefault(value *uint32, defaultValue uint32) *uint32 {
	if value != nil {
		return value
	}
	return &defaultValue
}

// Uint32IfValid returns a pointer to the value if it's valid, otherwise nil
func Uint32IfValid(valid bool, value uint32) *uint32 {
	if valid {
		return &value
	}
	return nil
}

// Uint32Copy returns a pointer that's a copy of the provided value
func Uint32Copy(value *uint32) *uint32 {
	if value == nil {
		return nil
	}

	return Uint32(*value)
}

// Uint64 returns a pointer to the provided uint64 value
func Uint64(value uint64) *uint64 {
	return &value
}

// Uint64OrDefault returns the pointer if not nil, otherwise the default value
func Uint64OrDefault(value *uint64, defaultValue uint64) *uint64 {
	if value != nil {
		return value
	}
	return &defaultValue
}

// Uint64IfValid returns a pointer to the value if it's valid, otherwise nil
func Uint64IfValid(valid bool, value uint64) *uint64 {
	if valid {
		return &value
	}
	return nil
}

// Uint64Copy returns a pointer that's a copy of the provided value
func Uint64Copy(value *uint64) *uint64 {
	if value == nil {
		return nil
	}

	return Uint64(*value)
}
