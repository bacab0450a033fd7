// Package directline translates between the internal Botique message model
// and DirectLine transport activities. All transformations are pure and
// stateless; the adapter performs no I/O and never mutates its inputs.
package directline

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"botique/internal/domain"
)

// ButtonTemplateEncoding selects how "button" templates are rendered. The
// two encodings are not interchangeable; callers on both ends must agree.
type ButtonTemplateEncoding string

const (
	EncodingHero     ButtonTemplateEncoding = "hero"
	EncodingAdaptive ButtonTemplateEncoding = "adaptive"
)

// Options are the adapter policy knobs. The zero value selects hero-card
// encoding and legacy (unescaped) URL parameter joining.
type Options struct {
	// ButtonTemplateEncoding picks hero or adaptive cards for "button"
	// templates. Defaults to hero.
	ButtonTemplateEncoding ButtonTemplateEncoding

	// EncodeURLParameters applies query escaping when appending structured
	// button URL parameters. Off by default to match the historical wire
	// format.
	EncodeURLParameters bool
}

// Adapter converts messages between the two representations. It holds only
// policy and a logger, so concurrent use needs no locking.
type Adapter struct {
	opts   Options
	logger *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Adapter {
	if opts.ButtonTemplateEncoding == "" {
		opts.ButtonTemplateEncoding = EncodingHero
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{opts: opts, logger: logger}
}

// Override mutates a composed activity after all computed fields are set;
// caller-supplied overrides always win.
type Override func(*Activity)

// ComposeActivity produces one external activity from a stored conversation
// entry, or nil when the entry has no representable content (e.g. a bot
// send-action object with neither text nor attachment). The profile supplies
// the end user's display name and locale for user-authored messages.
func (a *Adapter) ComposeActivity(conv domain.UserConversation, profile domain.ChatUserProfile, overrides ...Override) *Activity {
	var activity *Activity
	if conv.FromBot {
		activity = a.ComposeBotActivity(conv.Bot)
	} else {
		activity = a.ComposeUserActivity(conv.User, profile)
	}
	if activity == nil {
		return nil
	}

	if activity.ChannelData.ClientActivityID == "" {
		activity.ChannelData.ClientActivityID = conv.ID
		activity.ID = conv.ID
	}
	activity.Timestamp = conv.Timestamp

	for _, override := range overrides {
		override(activity)
	}
	return activity
}

// ComposeBotActivity converts a bot send request into an activity, or nil
// when the request carries nothing displayable.
func (a *Adapter) ComposeBotActivity(msg *domain.BotMessage) *Activity {
	if msg == nil {
		return nil
	}

	from := ChannelAccount{ID: msg.Bot.ID, Name: msg.Bot.Name}

	if msg.SenderAction == domain.SenderActionTypingOn {
		return &Activity{
			Type:        ActivityTyping,
			ID:          msg.OriginID,
			ChannelData: ChannelData{ClientActivityID: msg.OriginID},
			From:        from,
			Attachments: []Attachment{},
		}
	}

	content := msg.Message
	if content == nil || (content.Text == "" && content.Attachment == nil) {
		return nil
	}

	activity := &Activity{
		Type:        ActivityMessage,
		ID:          msg.OriginID,
		ChannelData: ChannelData{ClientActivityID: msg.OriginID},
		From:        from,
		Text:        content.Text,
	}

	if content.Attachment != nil {
		mapped := a.MapAttachment(*content.Attachment)
		if mapped == nil {
			activity.Text = fmt.Sprintf("<Bot sent attachment of type %s>", content.Attachment.Type)
		} else {
			activity.Text = ""
			activity.AttachmentLayout = "carousel"
			activity.Attachments = mapped
		}
	}

	if len(content.QuickReplies) > 0 {
		activity.SuggestedActions = &SuggestedActions{Actions: a.MapQuickReplies(content.QuickReplies)}
	}

	return activity
}

// ComposeUserActivity converts a user-authored message into an activity.
func (a *Adapter) ComposeUserActivity(msg *domain.UserMessage, profile domain.ChatUserProfile) *Activity {
	if msg == nil {
		return nil
	}

	activity := &Activity{
		Type:        ActivityMessage,
		ID:          msg.OriginID,
		ChannelData: ChannelData{ClientActivityID: msg.OriginID},
		Timestamp:   msg.DateReceived,
		From:        ChannelAccount{ID: msg.UserID, Name: profile.DisplayName()},
		Locale:      profile.Locale,
		Text:        msg.Content.Text,
	}

	switch msg.ContentType {
	case domain.ContentText:
		// Text already copied.
	case domain.ContentAttachment:
		var mapped []Attachment
		for _, att := range msg.Content.Attachments {
			external := a.MapAttachment(att)
			if external == nil {
				// One unmappable attachment degrades the whole message:
				// partial rendering is more confusing than a fallback note.
				activity.Text = "Sent attachment"
				mapped = nil
				break
			}
			mapped = append(mapped, external...)
		}
		activity.Attachments = mapped
	case domain.ContentPayload:
		activity.Text = payloadTitle(msg.Content.Payload)
	case domain.ContentLink:
		activity.Text = msg.Content.Link
	default:
		activity.Text = fmt.Sprintf("Cannot display content of type %s", msg.ContentType)
	}

	return activity
}

// payloadTitle recovers the display title from an opaque payload, typically
// recorded when a button click was decomposed. No title means no text.
func payloadTitle(payload string) string {
	parsed := parseJSONWithStringFallback(payload)
	if m, ok := parsed.(map[string]any); ok {
		if title, ok := m["title"].(string); ok {
			return title
		}
	}
	return ""
}

// eventReferral is the only inbound event name currently supported.
const eventReferral = "referral"

// DecomposeActivity produces one internal user message from an external
// activity. The bot identity and platform metadata come from the caller;
// userID is the internal id of the conversation's end user.
//
// Classification of message activities is a documented precedence contract:
// a structured value or JSON text with a non-empty payload field wins, then
// attachments, then plain text. JSON parse failures fall through to the text
// branch, never out of this function.
func (a *Adapter) DecomposeActivity(activity Activity, userID string, bot domain.BotPlatformData) (*domain.UserMessage, error) {
	switch activity.Type {
	case ActivityMessage:
		return a.decomposeMessage(activity, userID, bot), nil
	case ActivityEvent:
		return a.decomposeEvent(activity, userID, bot)
	default:
		return nil, &UnsupportedActivityError{Type: activity.Type}
	}
}

func (a *Adapter) decomposeMessage(activity Activity, userID string, bot domain.BotPlatformData) *domain.UserMessage {
	msg := a.newUserMessage(activity, userID, bot)

	if payload, ok := structuredPayload(activity); ok {
		msg.ContentType = domain.ContentPayload
		msg.Content = domain.Content{Payload: payload}
		return msg
	}

	if len(activity.Attachments) > 0 {
		if len(activity.Attachments) > 1 {
			a.logger.Warn("inbound activity has multiple attachments, using the first",
				"count", len(activity.Attachments), "activity_id", activity.ID)
		}
		msg.ContentType = domain.ContentAttachment
		msg.Content = domain.Content{
			Attachments: []domain.Attachment{a.MapInboundAttachment(activity.Attachments[0])},
		}
		return msg
	}

	msg.ContentType = domain.ContentText
	msg.Content = domain.Content{Text: activity.Text}
	return msg
}

// structuredPayload classifies a button click. The transport does not flag
// clicks explicitly, so any structured value (or text that parses as JSON)
// carrying a non-empty payload field is treated as one. The returned payload
// is re-encoded with the recovered title merged in.
func structuredPayload(activity Activity) (string, bool) {
	var obj map[string]any
	if m, ok := activity.Value.(map[string]any); ok {
		obj = m
	} else if activity.Text != "" {
		var parsed any
		if err := json.Unmarshal([]byte(activity.Text), &parsed); err == nil {
			obj, _ = parsed.(map[string]any)
		}
	}
	if obj == nil || isEmptyValue(obj["payload"]) {
		return "", false
	}

	title, _ := obj["title"].(string)
	return mustMarshalString(mergeTitle(obj["payload"], title)), true
}

func (a *Adapter) decomposeEvent(activity Activity, userID string, bot domain.BotPlatformData) (*domain.UserMessage, error) {
	if activity.Name != eventReferral {
		return nil, &UnsupportedEventError{Name: activity.Name}
	}

	msg := a.newUserMessage(activity, userID, bot)
	msg.ContentType = domain.ContentNotification
	msg.Content = domain.Content{Payload: decodeEventValue(activity.Value)}
	return msg, nil
}

// decodeEventValue turns a referral event value into text. The value is
// normally a base64 string; anything undecodable is kept verbatim, and
// non-string values are re-encoded as JSON.
func decodeEventValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		decoded, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return v
		}
		return string(decoded)
	default:
		return mustMarshalString(v)
	}
}

func (a *Adapter) newUserMessage(activity Activity, userID string, bot domain.BotPlatformData) *domain.UserMessage {
	originID := activity.ChannelData.ClientActivityID
	if originID == "" {
		originID = uuid.NewString()
	}
	return &domain.UserMessage{
		Envelope:     domain.Envelope{OriginID: originID, Bot: bot},
		DateReceived: activity.Timestamp,
		IsEcho:       false,
		UserID:       userID,
	}
}
