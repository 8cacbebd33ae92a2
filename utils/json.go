package utils

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalToString encodes v, returning "" on failure
func MarshalToString(v any) string {
	s, err := json.MarshalToString(v)
	if err != nil {
		return ""
	}
	return s
}

// MarshalToBytes encodes v, returning an empty slice on failure
func MarshalToBytes(v any) []byte {
	s, err := json.Marshal(v)
	if err != nil {
		return []byte{}
	}
	return s
}

// MarshalIndentToString encodes v with tab indentation and no HTML escaping
func MarshalIndentToString(v any) string {
	bf := bytes.NewBuffer([]byte{})
	encoder := json.NewEncoder(bf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "\t")
	_ = encoder.Encode(v)
	return bf.String()
}

// Marshal encodes v
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes data into v
func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
