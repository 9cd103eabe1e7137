package lbi

import "embed"

// helpTopics holds the markdown pages shown by "lbi help <topic>", one
// per error kind plus a few general ones.
//
//go:embed topics/*.md
var helpTopics embed.FS

const helpTopicsDir = "topics"
