package plan

import (
	"encoding/json"
	"fmt"
)

// Descriptor is the payload carried by a palette drag: which kind of node
// to create and its display data.
type Descriptor struct {
	Kind Kind
	Data Payload
}

type jsonDescriptor struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// EncodeDescriptor serialises d for attachment to a drag event.
func EncodeDescriptor(d Descriptor) ([]byte, error) {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonDescriptor{Kind: d.Kind, Data: raw})
}

// DecodeDescriptor parses a drag payload produced by EncodeDescriptor.
func DecodeDescriptor(data []byte) (Descriptor, error) {
	var j jsonDescriptor
	if err := json.Unmarshal(data, &j); err != nil {
		return Descriptor{}, fmt.Errorf("decode descriptor: %w", err)
	}
	p, err := DecodePayload(j.Kind, j.Data)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Kind: j.Kind, Data: p}, nil
}

// DecodePayload decodes raw JSON into the payload variant for kind. An
// empty or null message yields a nil payload.
func DecodePayload(kind Kind, raw json.RawMessage) (Payload, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var p Payload
	switch kind {
	case KindPhase:
		p = &PhaseData{}
	case KindTechnique:
		p = &TechniqueData{}
	case KindText:
		p = &TextData{}
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	if t, ok := p.(*TextData); ok {
		t.Normalize()
	}
	return p, nil
}
