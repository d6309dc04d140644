package mapdata

// TILES_PER_TILESET is the number of tiles in a single tileset image. Layer
// grids encode a tile as tilesetIndex*TILES_PER_TILESET + tileIndex, where the
// tileset index follows the order of the map's tileset list.
const TILES_PER_TILESET int32 = 256

// Collision quadrant bits, one per tile quadrant.
const (
	COLLISION_NW uint8 = 1 << iota
	COLLISION_NE
	COLLISION_SW
	COLLISION_SE
)

// Tileset is the contract MapData requires from a tileset implementation. The
// map data only resolves collision quadrant bits for tile indexes and checks
// definition-file identity for uniqueness; image handling stays outside.
type Tileset interface {
	// DefinitionFilename returns the path of the tileset definition file.
	// Filenames are unique within a map's tileset list.
	DefinitionFilename() string

	// IsInitialized reports whether the tileset holds usable definition data
	IsInitialized() bool

	// TileCollisionQuadrants returns the COLLISION_* bits for a tile index
	// local to this tileset, in range [0, TILES_PER_TILESET)
	TileCollisionQuadrants(tileIndex int32) uint8
}

// TilesetOpener loads a tileset from its definition file. A concrete opener
// registers itself so that LoadData can materialize the tilesets named in a
// map file without this package depending on a specific format.
type TilesetOpener func(definitionFile string) (Tileset, error)

var tilesetOpener TilesetOpener

func RegisterTilesetOpener(opener TilesetOpener) {
	tilesetOpener = opener
}
