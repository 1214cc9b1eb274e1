package nakama

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"durak/internal/app"
	"durak/internal/domain"
)

// eventMessage is the OpEvent payload.
type eventMessage struct {
	Kind    app.EventKind `json:"kind"`
	Payload any           `json:"payload"`
}

// stateMessage is the OpState payload.
type stateMessage struct {
	Status app.Status `json:"status"`
	View   app.View   `json:"view"`
}

// errorMessage is the OpError payload.
type errorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// toStruct converts a JSON-tagged Go value into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return structpb.NewStruct(fields)
}

func marshalMessage(v any, opts protojson.MarshalOptions) ([]byte, error) {
	s, err := toStruct(v)
	if err != nil {
		return nil, err
	}
	return opts.Marshal(s)
}

func encodeEvent(ev app.Event) ([]byte, error) {
	data, err := marshalMessage(eventMessage{Kind: ev.Kind, Payload: ev.Payload}, protojson.MarshalOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to encode event %s: %w", ev.Kind, err)
	}
	return data, nil
}

func encodeState(status app.Status, view app.View) ([]byte, error) {
	data, err := marshalMessage(stateMessage{Status: status, View: view}, protojson.MarshalOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

func encodeError(code int, message string) ([]byte, error) {
	return marshalMessage(errorMessage{Code: code, Message: message}, protojson.MarshalOptions{})
}

// encodeLabel renders the match label. Unpopulated fields are kept so label
// queries can match zero values.
func encodeLabel(label domain.LabelPayload) (string, error) {
	data, err := marshalMessage(label, protojson.MarshalOptions{EmitUnpopulated: true})
	if err != nil {
		return "", fmt.Errorf("failed to encode label: %w", err)
	}
	return string(data), nil
}

// waitingLabel is the label of a match whose owner has not joined yet.
func waitingLabel() domain.LabelPayload {
	return domain.LabelPayload{Game: "durak", Phase: "waiting"}
}

// decodeIndex reads the card index of a select or play intent: {"index": n}.
func decodeIndex(data []byte) (int, error) {
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(data, s); err != nil {
		return 0, fmt.Errorf("invalid intent payload: %w", err)
	}
	v, ok := s.GetFields()["index"]
	if !ok {
		return 0, fmt.Errorf("invalid intent payload: index is required")
	}
	num, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("invalid intent payload: index must be a number")
	}
	n := num.NumberValue
	if n != float64(int(n)) {
		return 0, fmt.Errorf("invalid intent payload: index %v is not an integer", n)
	}
	return int(n), nil
}
