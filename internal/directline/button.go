package directline

import (
	"net/url"
	"sort"
	"strings"

	"botique/internal/domain"
)

// shareTargetURL is the placeholder target for element_share buttons; the
// transport has no native share action.
const shareTargetURL = "https://share.botique.ai/"

// buttonActionTypes is the fixed mapping from internal button kinds to card
// action kinds. Button types outside this table (other than element_share)
// are unsupported.
var buttonActionTypes = map[domain.ButtonType]CardActionType{
	domain.ButtonWebURL:      ActionOpenURL,
	domain.ButtonPhoneNumber: ActionCall,
	domain.ButtonPostback:    ActionPostBack,
}

// MapButton converts one internal button into a card action, or nil when the
// button type has no counterpart. Callers must drop nil results rather than
// emit a malformed action.
func (a *Adapter) MapButton(btn domain.Button) *CardAction {
	if btn.Type == domain.ButtonElementShare {
		return &CardAction{Type: ActionOpenURL, Title: "Share", Value: shareTargetURL}
	}

	actionType, ok := buttonActionTypes[btn.Type]
	if !ok {
		return nil
	}

	action := &CardAction{Type: actionType, Title: btn.Title}
	switch actionType {
	case ActionOpenURL:
		action.Value = a.buttonTargetURL(btn.URL)
	case ActionPostBack:
		action.Value = a.postbackValue(btn)
	case ActionCall:
		if btn.Payload != "" {
			action.Value = btn.Payload
		} else {
			action.Value = btn.Title
		}
	}
	return action
}

// MapButtonAdaptive converts one internal button into an adaptive-card
// action, or nil when the button type has no counterpart.
func (a *Adapter) MapButtonAdaptive(btn domain.Button) *AdaptiveAction {
	if btn.Type == domain.ButtonElementShare {
		return &AdaptiveAction{Type: adaptiveOpenURL, Title: "Share", URL: shareTargetURL}
	}

	switch btn.Type {
	case domain.ButtonWebURL:
		return &AdaptiveAction{Type: adaptiveOpenURL, Title: btn.Title, URL: a.buttonTargetURL(btn.URL)}
	case domain.ButtonPhoneNumber:
		number := btn.Payload
		if number == "" {
			number = btn.Title
		}
		return &AdaptiveAction{Type: adaptiveOpenURL, Title: btn.Title, URL: "tel:" + number}
	case domain.ButtonPostback:
		return &AdaptiveAction{
			Type:  adaptiveSubmit,
			Title: btn.Title,
			Data: map[string]any{
				"payload": mergeTitle(parseJSONWithStringFallback(btn.Payload), btn.Title),
			},
		}
	default:
		return nil
	}
}

// postbackValue encodes the click value for a postback button. The button
// title is folded into the payload so the inbound classifier can report
// which button was pressed.
func (a *Adapter) postbackValue(btn domain.Button) string {
	payload := mergeTitle(parseJSONWithStringFallback(btn.Payload), btn.Title)
	return mustMarshalString(map[string]any{"payload": payload})
}

// buttonTargetURL resolves a button URL to its final string form, appending
// structured parameters as a query string. Parameters are joined in key
// order; values are escaped only when the adapter is configured to do so.
func (a *Adapter) buttonTargetURL(btnURL *domain.ButtonURL) string {
	if btnURL == nil {
		return ""
	}
	base := btnURL.URLString
	if len(btnURL.Parameters) == 0 {
		return base
	}

	keys := make([]string, 0, len(btnURL.Parameters))
	for k := range btnURL.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		v := btnURL.Parameters[k]
		if a.opts.EncodeURLParameters {
			pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(v))
		} else {
			pairs = append(pairs, k+"="+v)
		}
	}
	return base + "?" + strings.Join(pairs, "&")
}
