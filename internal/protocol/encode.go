package protocol

import "github.com/goccy/go-json"

// Encode serializes a Message to its wire representation.
func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// Decode parses wire bytes into a Message. Decode never rejects an unknown
// Type; callers are expected to ignore messages they don't recognize.
func Decode(data []byte) (Message, error) {
	var msg Message
	err := json.Unmarshal(data, &msg)
	return msg, err
}
