package directline

import (
	"encoding/json"
	"testing"

	"botique/internal/domain"
)

func TestMapQuickReplies_TextBecomesPostback(t *testing.T) {
	a := testAdapter()
	actions := a.MapQuickReplies([]domain.QuickReply{
		{ContentType: domain.QuickReplyText, Title: "Yes", Payload: "YES"},
		{ContentType: domain.QuickReplyText, Title: "No", Payload: "NO"},
	})
	if len(actions) != 2 {
		t.Fatalf("actions = %d, want 2", len(actions))
	}
	if actions[0].Type != ActionPostBack || actions[0].Title != "Yes" {
		t.Fatalf("first action = %+v", actions[0])
	}

	var value struct {
		Payload any `json:"payload"`
	}
	if err := json.Unmarshal([]byte(actions[0].Value), &value); err != nil {
		t.Fatalf("value is not JSON: %v", err)
	}
	if value.Payload != "YES" {
		t.Fatalf("payload = %v, want YES", value.Payload)
	}
}

func TestMapQuickReplies_LocationIsFixedAction(t *testing.T) {
	a := testAdapter()
	actions := a.MapQuickReplies([]domain.QuickReply{
		{ContentType: domain.QuickReplyLocation, Title: "ignored", Payload: "ignored"},
	})
	if len(actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(actions))
	}
	if actions[0].Type != ActionLocation {
		t.Fatalf("type = %q, want location", actions[0].Type)
	}
	// Title and payload of the reply are a known loss.
	if actions[0].Value != "" {
		t.Fatalf("value = %q, want empty", actions[0].Value)
	}
	if actions[0].Title == "ignored" {
		t.Fatal("reply title must not be carried over")
	}
}

func TestMapQuickReplies_ClickRoundTrip(t *testing.T) {
	a := testAdapter()
	actions := a.MapQuickReplies([]domain.QuickReply{
		{ContentType: domain.QuickReplyText, Title: "Yes", Payload: "YES"},
	})

	msg, err := a.DecomposeActivity(Activity{Type: ActivityMessage, Text: actions[0].Value}, "user-1", testBot())
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if msg.ContentType != domain.ContentPayload {
		t.Fatalf("content type = %v, want Payload", msg.ContentType)
	}
}
