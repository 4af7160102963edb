package types

import (
	"encoding/json"
	"fmt"

	collcodec "cosmossdk.io/collections/codec"
)

// JSONValue is a collections value codec for plain Go structs.
//
// encoding/json emits struct fields in declaration order and these types carry
// no Go maps, so the encoding is byte-stable across executors.
type JSONValue[T any] struct {
	name string
}

var _ collcodec.ValueCodec[GameState] = JSONValue[GameState]{}

func NewJSONValue[T any](name string) JSONValue[T] {
	return JSONValue[T]{name: name}
}

func (c JSONValue[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (c JSONValue[T]) Decode(b []byte) (T, error) {
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return v, nil
}

func (c JSONValue[T]) EncodeJSON(value T) ([]byte, error) { return c.Encode(value) }

func (c JSONValue[T]) DecodeJSON(b []byte) (T, error) { return c.Decode(b) }

func (c JSONValue[T]) Stringify(value T) string {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("<%s: %v>", c.name, err)
	}
	return string(b)
}

func (c JSONValue[T]) ValueType() string { return "json/" + c.name }

var (
	GameStateValue   = NewJSONValue[GameState]("GameState")
	GuessRecordValue = NewJSONValue[GuessRecord]("GuessRecord")
	ParamsValue      = NewJSONValue[Params]("Params")
)
