package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/webmajiang/mjnet/internal/errors"
	"github.com/webmajiang/mjnet/pkg/protocol"
)

// describe renders a payload on one line.
func describe(p protocol.Payload) string {
	if u, ok := p.(*protocol.Unknown); ok {
		return fmt.Sprintf("<%d unknown bytes> %s", len(u.Data), hex.EncodeToString(u.Data))
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Sprintf("%T", p)
	}
	return string(data)
}

// parseHex accepts hex with optional 0x prefix, spaces and colons.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.NewReplacer(" ", "", ":", "", "\n", "", "\t", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.New("E140").
			WithDetail("The argument is not valid hex.").
			Wrap(err)
	}
	return data, nil
}
