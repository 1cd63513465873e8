package encoding

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/synheart/calmband/internal/models"
)

// ProtobufEncoder encodes updates as protocol buffers, carrying the
// envelope in the well-known Struct type so consumers without our
// schema can still decode it.
type ProtobufEncoder struct{}

func NewProtobufEncoder() *ProtobufEncoder {
	return &ProtobufEncoder{}
}

func (e *ProtobufEncoder) Encode(update models.Update) ([]byte, error) {
	pb, err := updateToStruct(update)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(pb)
}

func (e *ProtobufEncoder) ContentType() string {
	return "application/x-protobuf"
}

func updateToStruct(update models.Update) (*structpb.Struct, error) {
	data, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal update: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode update fields: %w", err)
	}

	pb, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build struct: %w", err)
	}
	return pb, nil
}
