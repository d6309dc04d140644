// Package mapimport converts Tiled TMX maps into editor map data. The import
// produces a map with a single base context, one layer per TMX tile layer, and
// collision quadrant bits read from per-tile tileset properties.
package mapimport

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lafriks/go-tiled"
	"github.com/pkg/errors"

	"github.com/Cebion/allacrost/config"
	"github.com/Cebion/allacrost/mapdata"
	"github.com/Cebion/allacrost/tileset"
)

// Tileset tile properties holding the four collision quadrant flags. Any
// non-zero integer value marks the quadrant impassable.
var quadrantProperties = [4]struct {
	name string
	bit  uint8
}{
	{"collision_nw", mapdata.COLLISION_NW},
	{"collision_ne", mapdata.COLLISION_NE},
	{"collision_sw", mapdata.COLLISION_SW},
	{"collision_se", mapdata.COLLISION_SE},
}

// Layer property marking a TMX layer's collision data active in the map.
const collisionProperty = "collision"

// ImportTiledMap loads a TMX file and converts it into a fresh MapData. When
// legacyText is set, map and layer names are decoded through the configured
// legacy charmap.
func ImportTiledMap(path string, legacyText bool) (*mapdata.MapData, error) {
	tiledMap, err := tiled.LoadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load TMX %q", path)
	}
	m, err := convertTiledMap(tiledMap, legacyText)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to convert TMX %q", path)
	}
	m.SetMapName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	return m, nil
}

func convertTiledMap(tiledMap *tiled.Map, legacyText bool) (*mapdata.MapData, error) {
	if tiledMap.Width <= 0 || tiledMap.Height <= 0 {
		return nil, errors.Errorf("invalid TMX dimensions %dx%d", tiledMap.Width, tiledMap.Height)
	}
	if len(tiledMap.Layers) == 0 {
		return nil, errors.Errorf("TMX contains no tile layers")
	}
	m := mapdata.NewMapData()
	if err := m.CreateData(uint32(tiledMap.Width), uint32(tiledMap.Height)); err != nil {
		return nil, err
	}

	for _, ts := range tiledMap.Tilesets {
		converted, err := convertTileset(ts, legacyText)
		if err != nil {
			return nil, err
		}
		if err := m.AddTileset(converted); err != nil {
			return nil, err
		}
	}

	base := m.FindTileContextByIndex(0)
	for li, layer := range tiledMap.Layers {
		taken := m.TileLayerNames()
		if li == 0 {
			// the default layer is about to be renamed, its name is free
			taken = taken[1:]
		}
		name, err := layerName(layer, li, taken, legacyText)
		if err != nil {
			return nil, err
		}
		// infinite or chunked TMX maps come out of the decoder without flat
		// tile data
		if len(layer.Tiles) < tiledMap.Width*tiledMap.Height {
			return nil, errors.Errorf("layer %q holds %d tiles, expected %d",
				layer.Name, len(layer.Tiles), tiledMap.Width*tiledMap.Height)
		}
		collision := layer.Properties.GetInt(collisionProperty) != 0
		if li == 0 {
			if err := m.RenameTileLayer(0, name); err != nil {
				return nil, err
			}
			if !collision {
				if err := m.DisableTileLayerCollision(0); err != nil {
					return nil, err
				}
			}
		} else {
			if err := m.AddTileLayer(name, collision); err != nil {
				return nil, err
			}
		}
		if !layer.Visible {
			if err := m.HideTileLayer(uint32(li)); err != nil {
				return nil, err
			}
		}

		target := base.TileLayer(uint32(li))
		for y := 0; y < tiledMap.Height; y++ {
			for x := 0; x < tiledMap.Width; x++ {
				t := layer.Tiles[y*tiledMap.Width+x]
				if t.IsNil() {
					continue
				}
				tilesetIndex := tilesetIndexOf(tiledMap, t.Tileset)
				if tilesetIndex < 0 {
					return nil, errors.Errorf("layer %q references an unknown tileset", layer.Name)
				}
				if int32(t.ID) >= mapdata.TILES_PER_TILESET {
					return nil, errors.Errorf("layer %q tile index %d exceeds %d tiles per tileset",
						layer.Name, t.ID, mapdata.TILES_PER_TILESET)
				}
				target.SetTile(uint32(x), uint32(y), int32(tilesetIndex)*mapdata.TILES_PER_TILESET+int32(t.ID))
			}
		}
	}

	m.RecomputeCollisionData()
	return m, nil
}

func convertTileset(ts *tiled.Tileset, legacyText bool) (*tileset.Tileset, error) {
	name, err := decodeText(ts.Name, legacyText)
	if err != nil {
		return nil, err
	}
	imageFile := ""
	if ts.Image != nil {
		imageFile = ts.Image.Source
	}

	converted := tileset.New(name, imageFile)
	for _, tile := range ts.Tiles {
		if int32(tile.ID) >= mapdata.TILES_PER_TILESET {
			continue
		}
		var quadrants uint8
		for _, qp := range quadrantProperties {
			if tile.Properties.GetInt(qp.name) != 0 {
				quadrants |= qp.bit
			}
		}
		converted.SetTileCollisionQuadrants(int32(tile.ID), quadrants)
	}

	// the definition identity of an imported tileset is derived from the TMX
	// source until the tileset is saved under an editor definition file
	definition := ts.Source
	if definition == "" {
		definition = name + config.TILESET_FILE_EXTENSION
	}
	converted.SetDefinitionFilename(definition)
	return converted, nil
}

func layerName(layer *tiled.Layer, index int, taken []string, legacyText bool) (string, error) {
	name, err := decodeText(layer.Name, legacyText)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = fmt.Sprintf("Layer %d", index+1)
	}
	// TMX layer names are not guaranteed unique, map layer names are
	for nameInList(name, taken) {
		name = mapdata.CreateCloneName(name, taken)
	}
	return name, nil
}

func decodeText(s string, legacyText bool) (string, error) {
	if !legacyText {
		return s, nil
	}
	return config.DecodeLegacyString(s)
}

func nameInList(name string, list []string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

func tilesetIndexOf(tiledMap *tiled.Map, ts *tiled.Tileset) int {
	for i, candidate := range tiledMap.Tilesets {
		if candidate == ts {
			return i
		}
	}
	return -1
}
