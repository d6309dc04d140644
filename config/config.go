package config

// Defaults for maps created with no explicit geometry.
const (
	DEFAULT_MAP_LENGTH = 32
	DEFAULT_MAP_HEIGHT = 24
)

// File extensions of the editor's own formats.
const (
	MAP_FILE_EXTENSION     = ".amap"
	TILESET_FILE_EXTENSION = ".atsd"
)
