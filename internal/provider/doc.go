// Package provider renders generic flow messages into the response shapes of
// a target messaging platform.
//
// Each platform is a capability table: an ordered set of Methods, each bound
// to a pure RenderFunc. Platforms are contributed by Modules (see the
// platforms subpackage) and looked up by name in a Registry; unknown names
// resolve to the generic platform.
//
// Dispatch from a message type to a Method is explicit:
//
//  1. "carousel" always renders as MethodList.
//  2. Types ending in "button" or "generic" always render as MethodCard.
//  3. Otherwise the first Method, in the platform's declaration order, whose
//     name is contained in the type wins.
//
// When no Method resolves, or the resolved Method is not implemented by the
// platform, the payload is passed through as a custom payload. Render
// therefore always produces a shape.
package provider
