package directline

import (
	"testing"

	"botique/internal/domain"
)

func genericTemplate(elements ...domain.Element) domain.Attachment {
	return domain.Attachment{
		Type: domain.AttachmentTemplate,
		Payload: domain.AttachmentPayload{
			TemplateType: domain.TemplateGeneric,
			Elements:     elements,
		},
	}
}

func TestMapTemplate_GenericOneCardPerElement(t *testing.T) {
	a := testAdapter()
	elements := []domain.Element{
		{Title: "one"},
		{Title: "two"},
		{Title: "three"},
	}

	cards := a.MapTemplate(genericTemplate(elements...))
	if len(cards) != len(elements) {
		t.Fatalf("cards = %d, want %d", len(cards), len(elements))
	}
	for i, card := range cards {
		if card.ContentType != HeroCardContentType {
			t.Fatalf("card %d contentType = %q, want hero", i, card.ContentType)
		}
		hero, ok := card.Content.(HeroCard)
		if !ok {
			t.Fatalf("card %d content type = %T, want HeroCard", i, card.Content)
		}
		if hero.Title != elements[i].Title {
			t.Fatalf("card %d title = %q, want %q (order must be preserved)", i, hero.Title, elements[i].Title)
		}
	}
}

func TestMapTemplate_GenericElementFields(t *testing.T) {
	a := testAdapter()
	cards := a.MapTemplate(genericTemplate(domain.Element{
		Title:    "Sneakers",
		Subtitle: "Fresh drop",
		ImageURL: "https://cdn.example.com/sneakers.png",
		Buttons: []domain.Button{
			domain.NewPostbackButton("Buy", "BUY"),
			{Type: "mystery"},
		},
	}))
	if len(cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(cards))
	}

	hero := cards[0].Content.(HeroCard)
	if hero.Subtitle != "Fresh drop" {
		t.Fatalf("subtitle = %q", hero.Subtitle)
	}
	if len(hero.Images) != 1 || hero.Images[0].URL != "https://cdn.example.com/sneakers.png" {
		t.Fatalf("images = %+v", hero.Images)
	}
	// The unknown button must be dropped, not emitted malformed.
	if len(hero.Buttons) != 1 {
		t.Fatalf("buttons = %d, want 1", len(hero.Buttons))
	}
	if hero.Buttons[0].Title != "Buy" {
		t.Fatalf("button title = %q, want Buy", hero.Buttons[0].Title)
	}
}

func TestMapTemplate_ButtonHeroDefault(t *testing.T) {
	a := testAdapter()
	cards := a.MapTemplate(domain.Attachment{
		Type: domain.AttachmentTemplate,
		Payload: domain.AttachmentPayload{
			TemplateType: domain.TemplateButton,
			Text:         "What next?",
			Buttons: []domain.Button{
				domain.NewPostbackButton("Continue", "GO"),
			},
		},
	})
	if len(cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(cards))
	}
	if cards[0].ContentType != HeroCardContentType {
		t.Fatalf("contentType = %q, want hero by default", cards[0].ContentType)
	}
	hero := cards[0].Content.(HeroCard)
	if hero.Text != "What next?" {
		t.Fatalf("text = %q", hero.Text)
	}
	if len(hero.Buttons) != 1 {
		t.Fatalf("buttons = %d, want 1", len(hero.Buttons))
	}
}

func TestMapTemplate_ButtonAdaptiveEncoding(t *testing.T) {
	a := New(Options{ButtonTemplateEncoding: EncodingAdaptive}, testLogger())
	cards := a.MapTemplate(domain.Attachment{
		Type: domain.AttachmentTemplate,
		Payload: domain.AttachmentPayload{
			TemplateType: domain.TemplateButton,
			Text:         "What next?",
			Buttons: []domain.Button{
				domain.NewPostbackButton("Continue", "GO"),
				{Type: "mystery", Title: "dropped"},
			},
		},
	})
	if len(cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(cards))
	}
	if cards[0].ContentType != AdaptiveCardContentType {
		t.Fatalf("contentType = %q, want adaptive", cards[0].ContentType)
	}

	card := cards[0].Content.(AdaptiveCard)
	if card.Type != "AdaptiveCard" {
		t.Fatalf("card type = %q", card.Type)
	}
	if len(card.Body) != 1 || card.Body[0].Text != "What next?" {
		t.Fatalf("body = %+v, want a single text block", card.Body)
	}
	// Unknown button filtered out.
	if len(card.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(card.Actions))
	}
	if card.Actions[0].Title != "Continue" {
		t.Fatalf("action title = %q", card.Actions[0].Title)
	}
}

func TestMapTemplate_UnsupportedIsNil(t *testing.T) {
	a := testAdapter()
	if cards := a.MapTemplate(domain.Attachment{Type: domain.AttachmentTemplate}); cards != nil {
		t.Fatalf("template without payload mapped = %+v, want nil", cards)
	}
	if cards := a.MapTemplate(domain.Attachment{
		Type:    domain.AttachmentTemplate,
		Payload: domain.AttachmentPayload{TemplateType: "receipt"},
	}); cards != nil {
		t.Fatalf("unknown template type mapped = %+v, want nil", cards)
	}
}
