package platforms

import (
	"github.com/specialistvlad/flowexport/internal/flow"
	"github.com/specialistvlad/flowexport/internal/provider"
)

// skypeReplyLabel is Skype's quick reply label limit.
const skypeReplyLabel = 19

// Skype renders Skype responses. Skype cards carry the message text as both
// title and subtitle, and buttons without postbacks.
type Skype struct{}

// Register registers the platform.
func (s *Skype) Register(r *provider.Registry) {
	r.Register(provider.NewPlatform("skype").
		Handle(provider.MethodText, textResponse).
		Handle(provider.MethodQuickReplies, quickRepliesResponse(skypeReplyLabel)).
		Handle(provider.MethodImage, imageResponse).
		Handle(provider.MethodCard, skypeCard))
}

func skypeCard(p flow.Payload) provider.Response {
	c := readCard(p)
	buttons := make([]map[string]string, 0, len(c.buttons))
	for _, b := range c.buttons {
		buttons = append(buttons, map[string]string{"text": b.Title})
	}
	return provider.Response{
		"type":     typeCard,
		"title":    c.title,
		"subtitle": c.title,
		"imageUrl": "",
		"buttons":  buttons,
	}
}
