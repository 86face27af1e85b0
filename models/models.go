package models

import "encoding/json"

// TelemetryMessage is the envelope delivered on the queue paths.
type TelemetryMessage struct {
	SiteID string          `json:"siteId"`
	Body   json.RawMessage `json:"body"`
}

// MessageResponse is the JSON body of every synchronous response.
type MessageResponse struct {
	Message string `json:"message"`
}
