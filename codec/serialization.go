// Package codec provides payload serializers for framed messages. The
// framing layer treats payloads as opaque bytes; applications that send
// structured records pick a serializer here, either by name or by the
// one-byte frame type tag carried by type-tagged framing.
package codec

import "errors"

type Serializer interface {
	Unmarshal(in []byte, body interface{}) error
	Marshal(body interface{}) (out []byte, err error)
}

// Frame type tags assigned to the built-in serializers. Tag zero is
// reserved for untagged/raw frames.
const (
	TagJSON        byte = 1
	TagProtobuf    byte = 2
	TagMessagePack byte = 3
)

var serializers = map[string]Serializer{
	"json":     &JSONSerialization{},
	"protobuf": &ProtobufSerialization{},
	"msgpack":  &MessagePackSerialization{},
}

var tags = map[string]byte{
	"json":     TagJSON,
	"protobuf": TagProtobuf,
	"msgpack":  TagMessagePack,
}

func RegisterSerializer(serializationType string, tag byte, s Serializer) {
	serializers[serializationType] = s
	tags[serializationType] = tag
}

func GetSerializer(serializationType string) Serializer {
	return serializers[serializationType]
}

// Tag returns the frame type tag registered for the serialization, or
// zero when none is registered.
func Tag(serializationType string) byte {
	return tags[serializationType]
}

// ByTag resolves a serializer from a frame's type tag.
func ByTag(tag byte) Serializer {
	for name, t := range tags {
		if t == tag {
			return serializers[name]
		}
	}
	return nil
}

func Unmarshal(serializationType string, in []byte, body interface{}) error {
	if body == nil {
		return nil
	}
	if len(in) == 0 {
		return nil
	}

	s := GetSerializer(serializationType)
	if s == nil {
		return errors.New("serializer not registered")
	}

	return s.Unmarshal(in, body)
}

func Marshal(serializationType string, body interface{}) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	s := GetSerializer(serializationType)
	if s == nil {
		return nil, errors.New("serializer not registered")
	}
	return s.Marshal(body)
}

// UnmarshalTag decodes a type-tagged frame payload with the serializer
// its tag selects.
func UnmarshalTag(tag byte, in []byte, body interface{}) error {
	if body == nil || len(in) == 0 {
		return nil
	}
	s := ByTag(tag)
	if s == nil {
		return errors.New("no serializer registered for tag")
	}
	return s.Unmarshal(in, body)
}
