package phh

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Encode writes one hand history as a TOML document
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeSession writes hands as numbered sections, starting at first.
func EncodeSession(w io.Writer, first int, hands []*HandHistory) error {
	for i, hand := range hands {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "[%d]\n", first+i); err != nil {
			return err
		}
		if err := Encode(w, hand); err != nil {
			return fmt.Errorf("phh: hand %s: %w", hand.HandID, err)
		}
	}
	return nil
}

// DecodeSession reads a sectioned session back, ordered by section number
func DecodeSession(data []byte) ([]HandHistory, error) {
	sections := map[string]HandHistory{}
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&sections); err != nil {
		return nil, fmt.Errorf("phh: %w", err)
	}

	keys := make([]int, 0, len(sections))
	for k := range sections {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("phh: section %q is not a number", k)
		}
		keys = append(keys, n)
	}
	slices.Sort(keys)

	hands := make([]HandHistory, 0, len(keys))
	for _, k := range keys {
		hands = append(hands, sections[strconv.Itoa(k)])
	}
	return hands, nil
}
