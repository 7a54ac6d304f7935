package platforms

import "github.com/specialistvlad/flowexport/internal/provider"

// Slack renders Slack responses.
type Slack struct{}

// Register registers the platform.
func (s *Slack) Register(r *provider.Registry) {
	r.Register(provider.NewPlatform("slack").
		Handle(provider.MethodText, textResponse).
		Handle(provider.MethodQuickReplies, quickRepliesResponse(MaxReplyLabel)).
		Handle(provider.MethodImage, imageResponse).
		Handle(provider.MethodCard, cardResponse))
}
