package protocol

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var ErrUnknownMessageType = errors.New("unknown message type")

// Marshal serializes a message to JSON
func Marshal(v any) ([]byte, error) {
	switch v.(type) {
	case *HandStart, *DealerButton, *DeckInfo, *NewRound, *CommunityCards,
		*PrivateCards, *ExposedCards, *Showdown, *RevealOrder, *PlayerAction,
		*ActionRequest, *PotUpdate, *PlayerBalance, *PlayerStatus, *HandResult,
		*BuyInInfo, *PlayerDisconnected, *HistoryStart, *HistoryStop:
		return json.Marshal(v)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownMessageType, v)
}

// MustMarshal serializes a message built by this package. It panics on
// unknown types.
func MustMarshal(v any) []byte {
	data, err := Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

// Unmarshal deserializes JSON data into a message
func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// PeekType reads the type field of a serialized message.
func PeekType(data []byte) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", err
	}
	if head.Type == "" {
		return "", fmt.Errorf("%w: missing type", ErrUnknownMessageType)
	}
	return head.Type, nil
}

// Decode deserializes a message of any known type and returns a pointer to
// it.
func Decode(data []byte) (any, error) {
	typ, err := PeekType(data)
	if err != nil {
		return nil, err
	}
	var msg any
	switch typ {
	case TypeHandStart:
		msg = &HandStart{}
	case TypeDealerButton:
		msg = &DealerButton{}
	case TypeDeckInfo:
		msg = &DeckInfo{}
	case TypeNewRound:
		msg = &NewRound{}
	case TypeCommunityCards:
		msg = &CommunityCards{}
	case TypePrivateCards:
		msg = &PrivateCards{}
	case TypeExposedCards:
		msg = &ExposedCards{}
	case TypeShowdown:
		msg = &Showdown{}
	case TypeRevealOrder:
		msg = &RevealOrder{}
	case TypePlayerAction:
		msg = &PlayerAction{}
	case TypeActionRequest:
		msg = &ActionRequest{}
	case TypePotUpdate:
		msg = &PotUpdate{}
	case TypePlayerBalance:
		msg = &PlayerBalance{}
	case TypePlayerStatus:
		msg = &PlayerStatus{}
	case TypeHandResult:
		msg = &HandResult{}
	case TypeBuyInInfo:
		msg = &BuyInInfo{}
	case TypePlayerDisconnected:
		msg = &PlayerDisconnected{}
	case TypeHistoryStart:
		msg = &HistoryStart{}
	case TypeHistoryStop:
		msg = &HistoryStop{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, typ)
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", typ, err)
	}
	return msg, nil
}
