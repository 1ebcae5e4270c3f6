// Package jsoncodec is a Connect codec for plain Go message structs.
//
// Connect's built-in JSON codec only accepts proto.Message values. This
// codec marshals any struct with encoding/json, so handlers can use the
// domain request and response types directly:
//
//	connect.NewUnaryHandler(procedure, fn, connect.WithCodec(jsoncodec.Codec{}))
package jsoncodec

import (
	"encoding/json"
	"fmt"
)

// Name is the codec name. It replaces Connect's default "json" codec.
const Name = "json"

// Codec implements connect.Codec.
type Codec struct{}

// Name returns "json".
func (Codec) Name() string { return Name }

// Marshal encodes msg with encoding/json.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal decodes data into msg. An empty body leaves msg unchanged,
// which lets clients call no-argument procedures without a payload.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
