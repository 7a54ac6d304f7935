package platforms

import "github.com/specialistvlad/flowexport/internal/provider"

// Facebook renders Messenger responses. Messenger has no list response, so
// carousels pass through as custom payloads.
type Facebook struct{}

// Register registers the platform.
func (f *Facebook) Register(r *provider.Registry) {
	r.Register(provider.NewPlatform("facebook").
		Handle(provider.MethodText, textResponse).
		Handle(provider.MethodQuickReplies, quickRepliesResponse(MaxReplyLabel)).
		Handle(provider.MethodImage, imageResponse).
		Handle(provider.MethodCard, cardResponse))
}
