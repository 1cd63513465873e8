package encoding

import (
	"encoding/json"

	"github.com/synheart/calmband/internal/models"
)

// Format represents the encoding format
type Format string

const (
	FormatJSON     Format = "json"
	FormatProtobuf Format = "protobuf"
)

// Encoder encodes monitor updates to bytes
type Encoder interface {
	Encode(update models.Update) ([]byte, error)
	ContentType() string
}

// JSONEncoder encodes updates as JSON
type JSONEncoder struct{}

func NewJSONEncoder() *JSONEncoder {
	return &JSONEncoder{}
}

func (e *JSONEncoder) Encode(update models.Update) ([]byte, error) {
	return json.Marshal(update)
}

func (e *JSONEncoder) ContentType() string {
	return "application/json"
}

// NewEncoder creates an encoder for the given format
func NewEncoder(format Format) Encoder {
	switch format {
	case FormatProtobuf:
		return NewProtobufEncoder()
	default:
		return NewJSONEncoder()
	}
}
