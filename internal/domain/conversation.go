package domain

import (
	"fmt"
	"time"
)

// PlatformType identifies which bot platform a piece of metadata belongs to.
type PlatformType int

const (
	PlatformFacebook PlatformType = iota
	PlatformBMP
	PlatformDirectLine
)

func (p PlatformType) Label() string {
	switch p {
	case PlatformFacebook:
		return "Facebook"
	case PlatformBMP:
		return "BMP"
	case PlatformDirectLine:
		return "DirectLine"
	default:
		return fmt.Sprintf("PlatformType(%d)", int(p))
	}
}

// ParsePlatform resolves a platform label back to its PlatformType.
func ParsePlatform(label string) (PlatformType, bool) {
	switch label {
	case "Facebook":
		return PlatformFacebook, true
	case "BMP":
		return PlatformBMP, true
	case "DirectLine":
		return PlatformDirectLine, true
	default:
		return 0, false
	}
}

// UserConversation is one stored, timestamped entry of a conversation
// transcript: either a user message or a bot message, discriminated by
// FromBot. Exactly one of User / Bot is set.
type UserConversation struct {
	ID        string    `json:"_id"`
	BotID     string    `json:"botId"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	FromBot   bool      `json:"fromBot"`

	User *UserMessage `json:"userMessage,omitempty"`
	Bot  *BotMessage  `json:"botMessage,omitempty"`
}

// ChatUserProfile is the display identity of an end user, supplied by the
// profile store when composing outbound activities.
type ChatUserProfile struct {
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	ProfilePic string `json:"profilePic,omitempty"`
	Locale     string `json:"locale"`
	Timezone   int    `json:"timezone,omitempty"`
}

// DisplayName joins first and last name for the transport's from.name field.
func (p ChatUserProfile) DisplayName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}
