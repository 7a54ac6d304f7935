package provider

import (
	"strings"

	"github.com/specialistvlad/flowexport/internal/exporterr"
	"github.com/specialistvlad/flowexport/internal/flow"
)

// Lang is the language tag of every rendered message.
const Lang = "en"

// customPayloadType is the response type of a passthrough payload.
const customPayloadType = 4

// Provider renders messages for one platform.
type Provider struct {
	platform *Platform
}

// New returns a provider backed by the given platform.
func New(p *Platform) *Provider {
	return &Provider{platform: p}
}

// Name returns the platform name.
func (p *Provider) Name() string {
	return p.platform.Name
}

// Resolve picks the method a message type renders with. ok is false when no
// method applies; the resolved method may still be unimplemented by the
// platform, in which case Render falls back.
func (p *Provider) Resolve(messageType string) (Method, bool) {
	switch {
	case messageType == "carousel":
		return MethodList, true
	case strings.HasSuffix(messageType, "button"), strings.HasSuffix(messageType, "generic"):
		return MethodCard, true
	}
	for _, m := range p.platform.order {
		if strings.Contains(messageType, string(m)) {
			return m, true
		}
	}
	return "", false
}

// Render produces the platform shape of a payload. It never returns a nil
// response; the only error is a payload that cannot be serialized for the
// passthrough shape.
func (p *Provider) Render(messageType string, payload flow.Payload) (Response, error) {
	if m, ok := p.Resolve(messageType); ok {
		if fn, ok := p.platform.Renderer(m); ok {
			if out := fn(payload); out != nil {
				return p.tag(out), nil
			}
		}
	}
	return p.fallback(messageType, payload)
}

// RenderMessage renders a message with its own type and payload.
func (p *Provider) RenderMessage(m *flow.Message) (Response, error) {
	return p.Render(m.Type, m.Payload)
}

func (p *Provider) tag(out Response) Response {
	tagged := make(Response, len(out)+2)
	for k, v := range out {
		tagged[k] = v
	}
	if !p.platform.Generic {
		tagged["platform"] = p.platform.Name
	}
	tagged["lang"] = Lang
	return tagged
}

func (p *Provider) fallback(messageType string, payload flow.Payload) (Response, error) {
	raw, err := payload.MarshalJSON()
	if err != nil {
		return nil, exporterr.New(exporterr.Render, "render "+messageType, err)
	}
	return Response{
		"type":    customPayloadType,
		"payload": map[string]any{p.platform.Name: string(raw)},
		"lang":    Lang,
	}, nil
}

// Truncate shortens s to at most n characters.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
