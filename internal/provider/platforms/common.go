package platforms

import (
	"github.com/specialistvlad/flowexport/internal/flow"
	"github.com/specialistvlad/flowexport/internal/provider"
)

// card is the platform-neutral reading of a card-like payload: its own fields
// first, then the first element of a generic template.
type card struct {
	title    string
	subtitle string
	imageURL string
	buttons  []flow.Button
}

func readCard(p flow.Payload) card {
	c := card{title: p.Text, imageURL: p.ImageURL, buttons: p.Buttons}
	if len(p.Elements) > 0 {
		el := p.Elements[0]
		if c.title == "" {
			c.title = el.Title
		}
		c.subtitle = el.Subtitle
		if c.imageURL == "" {
			c.imageURL = el.ImageURL
		}
		if len(c.buttons) == 0 {
			c.buttons = el.Buttons
		}
	}
	return c
}

func replyTitles(p flow.Payload, limit int) []string {
	out := make([]string, 0, len(p.QuickReplies))
	for _, r := range p.QuickReplies {
		if limit > 0 {
			out = append(out, provider.Truncate(r.Title, limit))
		} else {
			out = append(out, r.Title)
		}
	}
	return out
}

// messengerButtons maps buttons onto the {text, postback} shape shared by the
// card responses of most platforms.
func messengerButtons(buttons []flow.Button) []map[string]string {
	out := make([]map[string]string, 0, len(buttons))
	for _, b := range buttons {
		postback := b.Payload
		if postback == "" {
			postback = b.Title
		}
		out = append(out, map[string]string{"text": b.Title, "postback": postback})
	}
	return out
}

func textResponse(p flow.Payload) provider.Response {
	return provider.Response{"type": typeText, "speech": p.Text}
}

func imageResponse(p flow.Payload) provider.Response {
	return provider.Response{"type": typeImage, "imageUrl": p.ImageURL}
}

func quickRepliesResponse(limit int) provider.RenderFunc {
	return func(p flow.Payload) provider.Response {
		return provider.Response{
			"type":    typeQuickReplies,
			"title":   p.Text,
			"replies": replyTitles(p, limit),
		}
	}
}

func cardResponse(p flow.Payload) provider.Response {
	c := readCard(p)
	return provider.Response{
		"type":     typeCard,
		"title":    c.title,
		"subtitle": c.subtitle,
		"imageUrl": c.imageURL,
		"buttons":  messengerButtons(c.buttons),
	}
}
