package model

import "encoding/json"

// GameRecord is a completed game replay as posted by the client.
// The payload is opaque to the server beyond being a JSON object or array.
type GameRecord struct {
	File string
	Data json.RawMessage
}
