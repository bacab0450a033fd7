package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContentType classifies what a UserMessage carries. Exactly one field of
// Content is meaningful for a given ContentType.
type ContentType int

const (
	ContentText ContentType = iota
	ContentPayload
	ContentNotification
	ContentAttachment
	ContentLink
)

func (c ContentType) String() string {
	switch c {
	case ContentText:
		return "Text"
	case ContentPayload:
		return "Payload"
	case ContentNotification:
		return "Notification"
	case ContentAttachment:
		return "Attachment"
	case ContentLink:
		return "Link"
	default:
		return fmt.Sprintf("ContentType(%d)", int(c))
	}
}

// Visible reports whether messages of this content type belong in the
// conversation transcript. Notifications are bookkeeping, not chat.
func (c ContentType) Visible() bool {
	return c != ContentNotification
}

// Envelope carries the fields shared by every Botique message: a correlation
// id (externally visible as the transport's client-activity id) and the bot
// identity. Immutable once constructed.
type Envelope struct {
	OriginID string          `json:"originId"`
	Bot      BotPlatformData `json:"bot"`
}

// BotPlatformData identifies a bot and its per-platform metadata.
type BotPlatformData struct {
	ID           string               `json:"_id"`
	Name         string               `json:"name,omitempty"`
	PlatformData map[PlatformType]any `json:"platformData,omitempty"`
}

// UserMessage is a message authored by the end user (or echoed back to the
// channel when the bot's own send is mirrored).
type UserMessage struct {
	Envelope

	DateReceived time.Time   `json:"dateReceived"`
	IsEcho       bool        `json:"isEcho"`
	UserID       string      `json:"userId"`
	ContentType  ContentType `json:"contentType"`
	Content      Content     `json:"content"`
}

// Content is the union of user-message bodies, keyed by ContentType.
type Content struct {
	Text        string       `json:"text,omitempty"`
	Link        string       `json:"link,omitempty"`
	Payload     string       `json:"payload,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// AttachmentType enumerates the internal attachment kinds.
type AttachmentType string

const (
	AttachmentImage    AttachmentType = "image"
	AttachmentAudio    AttachmentType = "audio"
	AttachmentVideo    AttachmentType = "video"
	AttachmentFile     AttachmentType = "file"
	AttachmentLocation AttachmentType = "location"
	AttachmentTemplate AttachmentType = "template"
	AttachmentFallback AttachmentType = "fallback"
)

// Attachment is a single piece of non-text content. The meaningful payload
// fields depend on Type: media carries URL, location carries Coordinates,
// template carries TemplateType plus Elements/Buttons/Text.
type Attachment struct {
	Type    AttachmentType    `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

type AttachmentPayload struct {
	URL         string       `json:"url,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`

	// Template fields.
	TemplateType string    `json:"template_type,omitempty"` // "generic" | "button"
	Text         string    `json:"text,omitempty"`
	Elements     []Element `json:"elements,omitempty"`
	Buttons      []Button  `json:"buttons,omitempty"`
}

type Coordinates struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// Element is one card of a "generic" (carousel) template.
type Element struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	ItemURL  string   `json:"item_url,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

// ButtonType enumerates the interactive element kinds.
type ButtonType string

const (
	ButtonWebURL       ButtonType = "web_url"
	ButtonPostback     ButtonType = "postback"
	ButtonPhoneNumber  ButtonType = "phone_number"
	ButtonElementShare ButtonType = "element_share"
)

// Button is one interactive element on a template or card. URL is meaningful
// for web_url buttons, Payload for postback buttons.
type Button struct {
	Type    ButtonType `json:"type"`
	Title   string     `json:"title,omitempty"`
	URL     *ButtonURL `json:"url,omitempty"`
	Payload string     `json:"payload,omitempty"`
}

// ButtonURL is either a plain URL string or a structured
// {urlString, parameters} object on the wire; both forms unmarshal into it.
type ButtonURL struct {
	URLString  string            `json:"urlString"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

func (u *ButtonURL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		u.URLString = s
		u.Parameters = nil
		return nil
	}
	type plain ButtonURL
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("button url: %w", err)
	}
	*u = ButtonURL(p)
	return nil
}

func (u ButtonURL) MarshalJSON() ([]byte, error) {
	if len(u.Parameters) == 0 {
		return json.Marshal(u.URLString)
	}
	type plain ButtonURL
	return json.Marshal(plain(u))
}

// QuickReply is a short-lived suggested response shown alongside a text
// message. ContentType is "text" or "location".
type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title,omitempty"`
	Payload     string `json:"payload,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

const (
	QuickReplyText     = "text"
	QuickReplyLocation = "location"
)

// SenderAction is an out-of-band bot action, sent instead of message content.
type SenderAction string

const (
	SenderActionTypingOn  SenderAction = "typing_on"
	SenderActionTypingOff SenderAction = "typing_off"
	SenderActionMarkSeen  SenderAction = "mark_seen"
)

// BotMessage is a message authored by the bot, shaped like a push-style send
// request. At most one of Message.Text / Message.Attachment is meaningful.
type BotMessage struct {
	Envelope

	Recipient        Recipient       `json:"recipient"`
	Message          *MessageContent `json:"message,omitempty"`
	SenderAction     SenderAction    `json:"sender_action,omitempty"`
	NotificationType string          `json:"notification_type,omitempty"` // REGULAR | SILENT_PUSH | NO_PUSH
}

type Recipient struct {
	ID          string `json:"id,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type MessageContent struct {
	Text         string       `json:"text,omitempty"`
	Attachment   *Attachment  `json:"attachment,omitempty"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
	Metadata     string       `json:"metadata,omitempty"`
}

// NewBotTextMessage builds a plain text send request with a fresh origin id.
func NewBotTextMessage(bot BotPlatformData, recipient, text string) BotMessage {
	return BotMessage{
		Envelope:  Envelope{OriginID: uuid.NewString(), Bot: bot},
		Recipient: Recipient{ID: recipient},
		Message:   &MessageContent{Text: text},
	}
}

// NewBotElementsMessage builds a generic-template (carousel) send request.
func NewBotElementsMessage(bot BotPlatformData, recipient string, elements []Element) BotMessage {
	return BotMessage{
		Envelope:  Envelope{OriginID: uuid.NewString(), Bot: bot},
		Recipient: Recipient{ID: recipient},
		Message: &MessageContent{
			Attachment: &Attachment{
				Type: AttachmentTemplate,
				Payload: AttachmentPayload{
					TemplateType: TemplateGeneric,
					Elements:     elements,
				},
			},
		},
	}
}

// NewBotQuickRepliesMessage builds a text send request with suggested replies.
// Replies are normalized to content_type "text".
func NewBotQuickRepliesMessage(bot BotPlatformData, recipient, text string, replies []QuickReply) BotMessage {
	normalized := make([]QuickReply, len(replies))
	for i, qr := range replies {
		normalized[i] = QuickReply{
			ContentType: QuickReplyText,
			Title:       qr.Title,
			Payload:     qr.Payload,
			ImageURL:    qr.ImageURL,
		}
	}
	return BotMessage{
		Envelope:  Envelope{OriginID: uuid.NewString(), Bot: bot},
		Recipient: Recipient{ID: recipient},
		Message: &MessageContent{
			Text:         text,
			QuickReplies: normalized,
		},
	}
}

// Template type discriminators for AttachmentPayload.TemplateType.
const (
	TemplateGeneric = "generic"
	TemplateButton  = "button"
)

// NewPostbackButton builds a button that returns an opaque payload on click.
func NewPostbackButton(title, payload string) Button {
	return Button{Type: ButtonPostback, Title: title, Payload: payload}
}

// NewURLButton builds a button that opens a URL on click.
func NewURLButton(title string, url ButtonURL) Button {
	return Button{Type: ButtonWebURL, Title: title, URL: &url}
}
