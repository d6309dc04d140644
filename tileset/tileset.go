// Package tileset implements the tileset definition files consumed by the map
// data core. A definition names the tileset image and carries one collision
// quadrant bitmask per tile; the tile images themselves are handled by the
// view and never loaded here.
package tileset

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Cebion/allacrost/mapdata"
)

// TILESET_FILE_VERSION is written into every definition file and checked on
// load.
const TILESET_FILE_VERSION = 1

type Tileset struct {
	definitionFile string
	name           string
	imageFile      string

	// collisions holds one COLLISION_* bitmask per tile
	collisions []uint8

	initialized bool
}

type tilesetFile struct {
	Version    int     `yaml:"version"`
	Name       string  `yaml:"name"`
	Image      string  `yaml:"image"`
	Collisions []uint8 `yaml:"collisions"`
}

// New creates a blank tileset with no collision data set.
func New(name, imageFile string) *Tileset {
	return &Tileset{
		name:        name,
		imageFile:   imageFile,
		collisions:  make([]uint8, mapdata.TILES_PER_TILESET),
		initialized: true,
	}
}

// Open loads and validates a tileset definition file.
func Open(definitionFile string) (*Tileset, error) {
	data, err := os.ReadFile(definitionFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open tileset definition %q", definitionFile)
	}

	var file tilesetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to parse tileset definition %q", definitionFile)
	}
	if file.Version != TILESET_FILE_VERSION {
		return nil, errors.Errorf("unsupported tileset version %d in %q", file.Version, definitionFile)
	}
	if file.Name == "" {
		return nil, errors.Errorf("tileset definition %q has no name", definitionFile)
	}
	if len(file.Collisions) != int(mapdata.TILES_PER_TILESET) {
		return nil, errors.Errorf("tileset definition %q holds %d collision entries, expected %d",
			definitionFile, len(file.Collisions), mapdata.TILES_PER_TILESET)
	}
	quadrantMask := mapdata.COLLISION_NW | mapdata.COLLISION_NE | mapdata.COLLISION_SW | mapdata.COLLISION_SE
	for tile, bits := range file.Collisions {
		if bits&^quadrantMask != 0 {
			return nil, errors.Errorf("tileset definition %q tile %d has invalid collision bits 0x%x",
				definitionFile, tile, bits)
		}
	}

	return &Tileset{
		definitionFile: definitionFile,
		name:           file.Name,
		imageFile:      file.Image,
		collisions:     file.Collisions,
		initialized:    true,
	}, nil
}

// Save writes the tileset definition to a file and associates the tileset
// with it.
func (t *Tileset) Save(definitionFile string) error {
	if !t.initialized {
		return errors.Errorf("tileset is not initialized")
	}
	file := tilesetFile{
		Version:    TILESET_FILE_VERSION,
		Name:       t.name,
		Image:      t.imageFile,
		Collisions: t.collisions,
	}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return errors.Wrapf(err, "failed to serialize tileset %q", t.name)
	}
	if err := os.WriteFile(definitionFile, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write tileset definition %q", definitionFile)
	}
	t.definitionFile = definitionFile
	return nil
}

func (t *Tileset) Name() string { return t.name }

func (t *Tileset) ImageFilename() string { return t.imageFile }

func (t *Tileset) DefinitionFilename() string { return t.definitionFile }

func (t *Tileset) IsInitialized() bool { return t.initialized }

// SetDefinitionFilename associates a not yet saved tileset with the file it
// will be saved under, so it can be added to a map before the first save.
func (t *Tileset) SetDefinitionFilename(definitionFile string) { t.definitionFile = definitionFile }

// TileCollisionQuadrants returns the collision quadrant bits for a tile index
// local to this tileset.
func (t *Tileset) TileCollisionQuadrants(tileIndex int32) uint8 {
	if tileIndex < 0 || int(tileIndex) >= len(t.collisions) {
		return 0
	}
	return t.collisions[tileIndex]
}

// SetTileCollisionQuadrants replaces the collision quadrant bits for a tile.
func (t *Tileset) SetTileCollisionQuadrants(tileIndex int32, quadrants uint8) {
	if tileIndex < 0 || int(tileIndex) >= len(t.collisions) {
		return
	}
	t.collisions[tileIndex] = quadrants
}

// The map data core materializes tilesets named in a map file through the
// registered opener.
func init() {
	mapdata.RegisterTilesetOpener(func(definitionFile string) (mapdata.Tileset, error) {
		return Open(definitionFile)
	})
}
