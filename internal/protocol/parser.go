package protocol

import "encoding/json"

// Decode parses and validates one websocket text message.
func Decode(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, NewParseError("", "malformed JSON", err)
	}
	if err := Validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the per-type frame rules.
func Validate(f *Frame) error {
	switch f.Type {
	case TypeHello:
		if len(f.Data) == 0 {
			return NewParseError(f.Type, "missing snapshot data", nil)
		}

	case TypeRequest:
		if f.ID == "" {
			return NewParseError(f.Type, "missing id", nil)
		}
		if !f.Op.Known() {
			return NewParseError(f.Type, "unknown op "+string(f.Op), nil)
		}

	case TypeResponse:
		if f.ID == "" {
			return NewParseError(f.Type, "missing id", nil)
		}

	case TypeEvent:
		if !f.Event.Known() {
			return NewParseError(f.Type, "unknown event "+string(f.Event), nil)
		}

	case "":
		return NewParseError("", "missing type", nil)

	default:
		return NewParseError(f.Type, "unknown frame type", nil)
	}

	return nil
}
