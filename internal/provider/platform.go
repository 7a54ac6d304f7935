package provider

import (
	"github.com/specialistvlad/flowexport/internal/flow"
)

// Method names a rendering capability.
type Method string

const (
	MethodText         Method = "text"
	MethodQuickReplies Method = "quick_replies"
	MethodImage        Method = "image"
	MethodCard         Method = "card"
	MethodList         Method = "list"
)

// Response is a rendered, platform-shaped message.
type Response map[string]any

// RenderFunc maps a generic payload onto a platform's field names.
type RenderFunc func(p flow.Payload) Response

// Platform is the capability table of one target platform.
type Platform struct {
	Name string
	// Generic platforms render without a "platform" tag.
	Generic bool

	order     []Method
	renderers map[Method]RenderFunc
}

// NewPlatform creates an empty capability table.
func NewPlatform(name string) *Platform {
	return &Platform{Name: name, renderers: make(map[Method]RenderFunc)}
}

// Handle binds a renderer to a method. Methods are matched against message
// types in the order they were first bound.
func (p *Platform) Handle(m Method, fn RenderFunc) *Platform {
	if _, ok := p.renderers[m]; !ok {
		p.order = append(p.order, m)
	}
	p.renderers[m] = fn
	return p
}

// Methods returns the implemented methods in declaration order.
func (p *Platform) Methods() []Method {
	return append([]Method(nil), p.order...)
}

// Renderer returns the renderer bound to m.
func (p *Platform) Renderer(m Method) (RenderFunc, bool) {
	fn, ok := p.renderers[m]
	return fn, ok
}
