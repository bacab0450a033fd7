package directline

import "botique/internal/domain"

// MapQuickReplies converts quick replies into the suggested-actions list of
// a message activity. A location request maps to a fixed location action;
// its own title and payload are not representable on the transport. All
// other replies become postback actions carrying a {payload} value.
func (a *Adapter) MapQuickReplies(replies []domain.QuickReply) []CardAction {
	actions := make([]CardAction, 0, len(replies))
	for _, reply := range replies {
		if reply.ContentType == domain.QuickReplyLocation {
			actions = append(actions, CardAction{Type: ActionLocation, Title: "Location"})
			continue
		}
		actions = append(actions, CardAction{
			Type:  ActionPostBack,
			Title: reply.Title,
			Value: mustMarshalString(map[string]any{
				"payload": parseJSONWithStringFallback(reply.Payload),
			}),
		})
	}
	return actions
}
