// Package assets embeds the arena maps shipped with the server.
package assets

import (
	"embed"
	"io/fs"
)

// DefaultArena is the arena loaded when no map is configured.
const DefaultArena = "arenas/classic.tmx"

//go:embed all:arenas
var arenaFS embed.FS

// Arenas exposes the embedded arena maps.
func Arenas() fs.FS {
	return arenaFS
}
