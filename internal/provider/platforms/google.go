package platforms

import (
	"github.com/specialistvlad/flowexport/internal/flow"
	"github.com/specialistvlad/flowexport/internal/provider"
)

// Google renders Actions on Google rich responses.
type Google struct{}

// Register registers the platform.
func (g *Google) Register(r *provider.Registry) {
	r.Register(provider.NewPlatform("google").
		Handle(provider.MethodText, googleSimpleResponse).
		Handle(provider.MethodQuickReplies, googleSuggestionChips).
		Handle(provider.MethodImage, googleImage).
		Handle(provider.MethodCard, googleBasicCard).
		Handle(provider.MethodList, googleList))
}

func googleImage(p flow.Payload) provider.Response {
	return provider.Response{
		"type":    "basic_card",
		"image":   googleImageObject(p.ImageURL, p.Text),
		"buttons": []any{},
	}
}

func googleImageObject(url, alt string) map[string]string {
	if alt == "" {
		alt = url
	}
	return map[string]string{"url": url, "accessibilityText": alt}
}

func googleSimpleResponse(p flow.Payload) provider.Response {
	return provider.Response{
		"type":         "simple_response",
		"textToSpeech": p.Text,
		"displayText":  p.Text,
	}
}

func googleSuggestionChips(p flow.Payload) provider.Response {
	chips := make([]map[string]string, 0, len(p.QuickReplies))
	for _, title := range replyTitles(p, MaxReplyLabel) {
		chips = append(chips, map[string]string{"title": title})
	}
	return provider.Response{"type": "suggestion_chips", "suggestions": chips}
}

func googleBasicCard(p flow.Payload) provider.Response {
	c := readCard(p)
	buttons := make([]map[string]any, 0, len(c.buttons))
	for _, b := range c.buttons {
		buttons = append(buttons, map[string]any{
			"title":         b.Title,
			"openUrlAction": map[string]string{"url": b.Payload},
		})
	}
	out := provider.Response{
		"type":          "basic_card",
		"title":         c.title,
		"subtitle":      c.subtitle,
		"formattedText": p.Text,
		"buttons":       buttons,
	}
	if c.imageURL != "" {
		out["image"] = googleImageObject(c.imageURL, c.title)
	}
	return out
}

func googleList(p flow.Payload) provider.Response {
	items := make([]map[string]any, 0, len(p.Elements))
	for _, el := range p.Elements {
		item := map[string]any{
			"optionInfo":  map[string]any{"key": el.Title, "synonyms": []string{}},
			"title":       el.Title,
			"description": el.Subtitle,
		}
		if el.ImageURL != "" {
			item["image"] = googleImageObject(el.ImageURL, el.Title)
		}
		items = append(items, item)
	}
	return provider.Response{"type": "list_card", "title": p.Text, "items": items}
}
