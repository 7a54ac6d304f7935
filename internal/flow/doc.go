// Package flow is the read-only model of a conversational-flow project: the
// message board, its edges, the intent and entity tables, and the graph
// queries the export compiler runs over them.
//
// # Snapshot
//
// A Project is loaded once, before compilation begins, and is never mutated
// afterwards. All queries are pure functions of that snapshot.
//
// # Queries
//
//   - Graph.Message resolves a message id in O(1) and reports dangling ids as
//     graph integrity errors.
//   - NewIntentMap derives the privileged messages: the targets of
//     intent-tagged edges, each mapped to the ordered set of intents that lead
//     to it.
//   - Graph.IntermediateNodes expands a set of outgoing edges into the chain of
//     pass-through messages that precede the next decision point.
//   - Graph.WelcomeNode finds the canonical entry message of the conversation.
package flow
