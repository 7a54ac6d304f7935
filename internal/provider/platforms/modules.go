package platforms

import "github.com/specialistvlad/flowexport/internal/provider"

// All is the definitive list of platforms compiled into the exporter.
var All = []provider.Module{
	&Slack{},
	&Facebook{},
	&Google{},
	&Skype{},
	&Generic{},
}

// Message type codes of the NLU platform's response format.
const (
	typeText         = 0
	typeCard         = 1
	typeQuickReplies = 2
	typeImage        = 3
)

// MaxReplyLabel is the longest quick reply label platforms with a label
// limit accept.
const MaxReplyLabel = 20
