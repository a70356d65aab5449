// Package content embeds the default biorome content so the binary runs
// without a content directory.
package content

import "embed"

// FS holds the default content under Dir.
//
//go:embed biorome/*.lua
var FS embed.FS

// Dir is the directory inside FS holding the .lua files.
const Dir = "biorome"
