package directline

import "botique/internal/domain"

// MapTemplate converts a template attachment into one or more card
// attachments, or nil when the template is unsupported. A "generic" template
// expands to one hero card per element, order-preserving. A "button"
// template becomes a single card: a hero card by default, or an adaptive
// card when the adapter is configured with EncodingAdaptive.
func (a *Adapter) MapTemplate(att domain.Attachment) []Attachment {
	switch att.Payload.TemplateType {
	case domain.TemplateGeneric:
		cards := make([]Attachment, 0, len(att.Payload.Elements))
		for _, el := range att.Payload.Elements {
			cards = append(cards, a.mapGenericElement(el))
		}
		return cards
	case domain.TemplateButton:
		if a.opts.ButtonTemplateEncoding == EncodingAdaptive {
			return []Attachment{a.mapButtonTemplateAdaptive(att.Payload)}
		}
		return []Attachment{a.mapButtonTemplateHero(att.Payload)}
	default:
		return nil
	}
}

func (a *Adapter) mapGenericElement(el domain.Element) Attachment {
	card := HeroCard{
		Title:    el.Title,
		Subtitle: el.Subtitle,
		Buttons:  a.mapButtons(el.Buttons),
	}
	if el.ImageURL != "" {
		card.Images = []CardImage{{URL: el.ImageURL}}
	}
	return Attachment{ContentType: HeroCardContentType, Content: card}
}

func (a *Adapter) mapButtonTemplateHero(payload domain.AttachmentPayload) Attachment {
	return Attachment{
		ContentType: HeroCardContentType,
		Content: HeroCard{
			Text:    payload.Text,
			Buttons: a.mapButtons(payload.Buttons),
		},
	}
}

func (a *Adapter) mapButtonTemplateAdaptive(payload domain.AttachmentPayload) Attachment {
	card := AdaptiveCard{
		Type:    adaptiveCardType,
		Version: adaptiveCardVersion,
		Body:    []AdaptiveBlock{{Type: adaptiveTextBlock, Text: payload.Text, Wrap: true}},
	}
	for _, btn := range payload.Buttons {
		if action := a.MapButtonAdaptive(btn); action != nil {
			card.Actions = append(card.Actions, *action)
		}
	}
	return Attachment{ContentType: AdaptiveCardContentType, Content: card}
}

// mapButtons maps a button list, dropping buttons with no card-action
// counterpart.
func (a *Adapter) mapButtons(buttons []domain.Button) []CardAction {
	var actions []CardAction
	for _, btn := range buttons {
		if action := a.MapButton(btn); action != nil {
			actions = append(actions, *action)
		}
	}
	return actions
}
