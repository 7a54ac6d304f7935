package platforms

import "github.com/specialistvlad/flowexport/internal/provider"

// Generic renders platform-neutral responses. It is the fallback for every
// platform name the registry does not know.
type Generic struct{}

// Register registers the platform.
func (g *Generic) Register(r *provider.Registry) {
	p := provider.NewPlatform(provider.GenericName).
		Handle(provider.MethodText, textResponse).
		Handle(provider.MethodQuickReplies, quickRepliesResponse(0)).
		Handle(provider.MethodImage, imageResponse).
		Handle(provider.MethodCard, cardResponse)
	p.Generic = true
	r.Register(p)
}
