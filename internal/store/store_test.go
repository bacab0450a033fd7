package store

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"botique/internal/domain"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "conv.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func userEntry(id string, ts time.Time) domain.UserConversation {
	return domain.UserConversation{
		ID:        id,
		BotID:     "bot-1",
		UserID:    "user-1",
		Timestamp: ts,
		FromBot:   false,
		User: &domain.UserMessage{
			Envelope:    domain.Envelope{OriginID: id, Bot: domain.BotPlatformData{ID: "bot-1"}},
			UserID:      "user-1",
			ContentType: domain.ContentText,
			Content:     domain.Content{Text: "hello " + id},
		},
	}
}

func TestAppendAndList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"c1", "c2", "c3"} {
		if err := s.Append(ctx, userEntry(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}

	convs, err := s.List(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 3 {
		t.Fatalf("entries = %d, want 3", len(convs))
	}
	// Oldest first.
	if convs[0].ID != "c1" || convs[2].ID != "c3" {
		t.Fatalf("order = %s..%s, want c1..c3", convs[0].ID, convs[2].ID)
	}
	if convs[0].User == nil || convs[0].User.Content.Text != "hello c1" {
		t.Fatalf("message body not preserved: %+v", convs[0].User)
	}
}

func TestAppend_BotMessage(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	msg := domain.NewBotTextMessage(domain.BotPlatformData{ID: "bot-1", Name: "Bot"}, "user-1", "hi")
	entry := domain.UserConversation{
		ID:        "c-bot",
		BotID:     "bot-1",
		UserID:    "user-1",
		Timestamp: time.Now().UTC(),
		FromBot:   true,
		Bot:       &msg,
	}
	if err := s.Append(ctx, entry); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.Get(ctx, "c-bot")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("entry not found")
	}
	if !got.FromBot || got.Bot == nil {
		t.Fatalf("entry = %+v, want bot message", got)
	}
	if got.Bot.Message.Text != "hi" {
		t.Fatalf("text = %q, want hi", got.Bot.Message.Text)
	}
}

func TestAppend_DuplicateIDIgnored(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	ts := time.Now().UTC()

	if err := s.Append(ctx, userEntry("dup", ts)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(ctx, userEntry("dup", ts)); err != nil {
		t.Fatalf("duplicate append: %v", err)
	}

	convs, err := s.List(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("entries = %d, want 1", len(convs))
	}
}

func TestGet_Missing(t *testing.T) {
	s := testStore(t)
	got, err := s.Get(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

func TestProfiles(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	profile := domain.ChatUserProfile{FirstName: "Ada", LastName: "Lovelace", Locale: "en-GB", Timezone: 1}
	if err := s.SaveProfile(ctx, "user-1", profile); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	got, err := s.Profile(ctx, "user-1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if got.DisplayName() != "Ada Lovelace" || got.Locale != "en-GB" {
		t.Fatalf("profile = %+v", got)
	}

	// Upsert.
	profile.Locale = "en-US"
	if err := s.SaveProfile(ctx, "user-1", profile); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err = s.Profile(ctx, "user-1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if got.Locale != "en-US" {
		t.Fatalf("locale = %q, want en-US", got.Locale)
	}

	// Unknown users get the zero profile.
	got, err = s.Profile(ctx, "ghost")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if got.DisplayName() != "" {
		t.Fatalf("profile = %+v, want zero", got)
	}
}

func TestPrune(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	old := userEntry("old", time.Now().AddDate(0, 0, -30))
	fresh := userEntry("fresh", time.Now())
	if err := s.Append(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	deleted, err := s.Prune(ctx, 7)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}

	convs, err := s.List(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 1 || convs[0].ID != "fresh" {
		t.Fatalf("remaining = %+v, want only fresh", convs)
	}
}
