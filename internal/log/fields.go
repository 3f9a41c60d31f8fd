// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldJobID     = "job_id"
	FieldEventID   = "event_id"
	FieldChannelID = "channel_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Path / URL fields
	FieldPath         = "path"
	FieldBaseURL      = "base_url"
	FieldPlaylistPath = "playlist_path"
	FieldXMLTVPath    = "xmltv_path"
	FieldDatabase     = "database"

	// Counters
	FieldChannels   = "channels"
	FieldProgrammes = "programmes"
	FieldLive       = "live"
	FieldUpcoming   = "upcoming"
)
