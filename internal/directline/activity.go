package directline

import "time"

// ActivityType discriminates the closed set of transport activity kinds.
type ActivityType string

const (
	ActivityMessage ActivityType = "message"
	ActivityTyping  ActivityType = "typing"
	ActivityEvent   ActivityType = "event"
)

// Activity is one discrete event on the DirectLine transport. Which fields
// are meaningful depends on Type: a message activity carries Text and/or
// Attachments and/or SuggestedActions, an event activity carries Name and an
// opaque Value, a typing activity carries identity fields only.
type Activity struct {
	Type        ActivityType   `json:"type"`
	ID          string         `json:"id,omitempty"`
	Timestamp   time.Time      `json:"timestamp,omitzero"`
	From        ChannelAccount `json:"from"`
	ChannelData ChannelData    `json:"channelData,omitzero"`
	Locale      string         `json:"locale,omitempty"`

	Text             string            `json:"text,omitempty"`
	AttachmentLayout string            `json:"attachmentLayout,omitempty"`
	Attachments      []Attachment      `json:"attachments,omitempty"`
	SuggestedActions *SuggestedActions `json:"suggestedActions,omitempty"`

	// Event fields; Value also carries a structured message value when a
	// client submits a card action.
	Name  string `json:"name,omitempty"`
	Value any    `json:"value,omitempty"`
}

// ChannelAccount identifies the sender or recipient of an activity.
type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ChannelData carries channel-private metadata; clientActivityId is the
// correlation id letting either side recognize an activity it produced.
type ChannelData struct {
	ClientActivityID string `json:"clientActivityId,omitempty"`
}

// Attachment is external content on a message activity: either a media
// reference (ContentType + ContentURL) or an inline card (ContentType +
// Content).
type Attachment struct {
	ContentType string `json:"contentType"`
	ContentURL  string `json:"contentUrl,omitempty"`
	Content     any    `json:"content,omitempty"`
	Name        string `json:"name,omitempty"`
}

// Card and media content types used on the wire.
const (
	HeroCardContentType     = "application/vnd.microsoft.card.hero"
	AdaptiveCardContentType = "application/vnd.microsoft.card.adaptive"
	LocationContentType     = "application/vnd.microsoft.location"
	FileContentType         = "file"
)

// CardActionType enumerates the interactive action kinds on cards and
// suggested-action lists.
type CardActionType string

const (
	ActionOpenURL  CardActionType = "openUrl"
	ActionCall     CardActionType = "call"
	ActionPostBack CardActionType = "postBack"
	ActionLocation CardActionType = "location"
)

// CardAction is one interactive element: a button on a card or one entry of
// a suggested-actions list.
type CardAction struct {
	Type  CardActionType `json:"type"`
	Title string         `json:"title,omitempty"`
	Value string         `json:"value,omitempty"`
}

// SuggestedActions is the transport's quick-reply list, scoped to one
// message activity.
type SuggestedActions struct {
	Actions []CardAction `json:"actions"`
}

// HeroCard is the simple rich-card encoding.
type HeroCard struct {
	Title    string       `json:"title,omitempty"`
	Subtitle string       `json:"subtitle,omitempty"`
	Text     string       `json:"text,omitempty"`
	Images   []CardImage  `json:"images,omitempty"`
	Buttons  []CardAction `json:"buttons,omitempty"`
}

type CardImage struct {
	URL string `json:"url"`
}

// AdaptiveCard is the adaptive-card document encoding, used for "button"
// templates when the adapter is configured for it.
type AdaptiveCard struct {
	Type    string           `json:"type"`
	Version string           `json:"version"`
	Body    []AdaptiveBlock  `json:"body"`
	Actions []AdaptiveAction `json:"actions,omitempty"`
}

type AdaptiveBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Wrap bool   `json:"wrap,omitempty"`
}

type AdaptiveAction struct {
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
	Data  any    `json:"data,omitempty"`
}

const (
	adaptiveCardType    = "AdaptiveCard"
	adaptiveCardVersion = "1.3"
	adaptiveTextBlock   = "TextBlock"
	adaptiveOpenURL     = "Action.OpenUrl"
	adaptiveSubmit      = "Action.Submit"
)

// GeoCoordinates is the content of a location attachment.
type GeoCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
