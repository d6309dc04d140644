package mapdata

import (
	"os"

	"gopkg.in/yaml.v3"
)

// MAP_FILE_VERSION is written into every saved map file and checked on load.
const MAP_FILE_VERSION = 1

// Serialized form of a map. Contexts are stored in slot order, so IDs are not
// written; the context at position i has ID i+1. Inheritance references store
// the inherited context's ID, or INVALID_CONTEXT for base contexts.
type mapFile struct {
	Version     int              `yaml:"version"`
	Name        string           `yaml:"name"`
	Designers   []string         `yaml:"designers,omitempty"`
	Description string           `yaml:"description,omitempty"`
	Length      uint32           `yaml:"length"`
	Height      uint32           `yaml:"height"`
	Tilesets    []string         `yaml:"tilesets"`
	Layers      []mapFileLayer   `yaml:"layers"`
	Contexts    []mapFileContext `yaml:"contexts"`
}

type mapFileLayer struct {
	Name      string `yaml:"name"`
	Visible   bool   `yaml:"visible"`
	Collision bool   `yaml:"collision"`
}

type mapFileContext struct {
	Name     string      `yaml:"name"`
	Inherits int32       `yaml:"inherits"`
	Layers   [][][]int32 `yaml:"layers"`
}

// LoadData populates the map from a file. Fails if map data is already loaded;
// call DestroyData first. The file is deserialized and validated into
// temporary structures and installed only on full success, so a failed load
// leaves the map exactly as it was.
func (m *MapData) LoadData(filename string) error {
	if m.IsInitialized() {
		return iof("map data already loaded, destroy it before loading %q", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return iowrapf(err, "failed to open map file %q", filename)
	}

	var file mapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return iowrapf(err, "failed to parse map file %q", filename)
	}
	if err := file.validate(); err != nil {
		return iowrapf(err, "invalid map file %q", filename)
	}

	// materialize tilesets first, then contexts and layers
	tilesets := make([]Tileset, len(file.Tilesets))
	for i, definitionFile := range file.Tilesets {
		if tilesetOpener == nil {
			return iof("no tileset opener registered")
		}
		ts, err := tilesetOpener(definitionFile)
		if err != nil {
			return iowrapf(err, "failed to load tileset %q", definitionFile)
		}
		tilesets[i] = ts
	}

	props := make([]*TileLayerProperties, len(file.Layers))
	for i, fl := range file.Layers {
		props[i] = &TileLayerProperties{name: fl.Name, visible: fl.Visible, collisionEnabled: fl.Collision}
	}

	contexts := make([]*TileContext, MAX_CONTEXTS)
	for i, fc := range file.Contexts {
		context := &TileContext{
			id:               int32(i) + 1,
			name:             fc.Name,
			inheritedContext: fc.Inherits,
		}
		for li, rows := range fc.Layers {
			layer := NewTileLayer(props[li], file.Length, file.Height)
			for y, row := range rows {
				copy(layer.tiles[y], row)
			}
			context.addTileLayer(layer)
		}
		contexts[i] = context
	}

	m.filename = filename
	m.name = file.Name
	m.designers = file.Designers
	m.description = file.Description
	m.length = file.Length
	m.height = file.Height
	m.tilesets = tilesets
	m.tileContexts = contexts
	m.tileContextCount = uint32(len(file.Contexts))
	m.tileLayerProperties = props
	m.tileLayerCount = uint32(len(file.Layers))
	m.emptyTileLayer = NewTileLayer(nil, file.Length, file.Height)
	m.selectedContext = contexts[0]
	if m.tileLayerCount > 0 {
		m.selectedLayerIndex = 0
	} else {
		m.selectedLayerIndex = -1
	}
	m.modified = false
	m.computeCollisionData()
	return nil
}

// SaveData serializes the map to the file it was last loaded from or saved to.
// Fails for a map that was created new and never saved to a file.
func (m *MapData) SaveData() error {
	if m.filename == "" {
		return iof("map was never associated with a file, save it under an explicit name")
	}
	return m.SaveDataAs(m.filename)
}

// SaveDataAs serializes the map to the given file without mutating any map
// content. On success, the map is associated with the file and marked
// unmodified.
func (m *MapData) SaveDataAs(filename string) error {
	if !m.IsInitialized() {
		return validationf("no map data to save")
	}

	file := mapFile{
		Version:     MAP_FILE_VERSION,
		Name:        m.name,
		Designers:   m.designers,
		Description: m.description,
		Length:      m.length,
		Height:      m.height,
		Tilesets:    m.TilesetFilenames(),
	}
	for _, props := range m.tileLayerProperties {
		file.Layers = append(file.Layers, mapFileLayer{
			Name:      props.Name(),
			Visible:   props.IsVisible(),
			Collision: props.IsCollisionEnabled(),
		})
	}
	for i := uint32(0); i < m.tileContextCount; i++ {
		context := m.tileContexts[i]
		fc := mapFileContext{Name: context.Name(), Inherits: context.InheritedContextID()}
		for _, layer := range context.tileLayers {
			fc.Layers = append(fc.Layers, layer.tiles)
		}
		file.Contexts = append(file.Contexts, fc)
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return iowrapf(err, "failed to serialize map data")
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return iowrapf(err, "failed to write map file %q", filename)
	}

	m.filename = filename
	m.modified = false
	return nil
}

func (f *mapFile) validate() error {
	if f.Version != MAP_FILE_VERSION {
		return iof("unsupported map file version %d", f.Version)
	}
	if f.Length == 0 || f.Height == 0 {
		return iof("invalid map dimensions %dx%d", f.Length, f.Height)
	}
	if len(f.Contexts) == 0 {
		return iof("map file contains no contexts")
	}
	if len(f.Contexts) > MAX_CONTEXTS {
		return iof("map file contains %d contexts, maximum is %d", len(f.Contexts), MAX_CONTEXTS)
	}

	layerNames := make(map[string]bool, len(f.Layers))
	for _, fl := range f.Layers {
		if fl.Name == "" {
			return iof("map file contains a layer with an empty name")
		}
		if layerNames[fl.Name] {
			return iof("duplicate layer name %q", fl.Name)
		}
		layerNames[fl.Name] = true
	}

	tilesetFiles := make(map[string]bool, len(f.Tilesets))
	for _, definitionFile := range f.Tilesets {
		if tilesetFiles[definitionFile] {
			return iof("duplicate tileset definition file %q", definitionFile)
		}
		tilesetFiles[definitionFile] = true
	}

	contextNames := make(map[string]bool, len(f.Contexts))
	baseContexts := 0
	for i, fc := range f.Contexts {
		if fc.Name == "" {
			return iof("context %d has an empty name", i+1)
		}
		if contextNames[fc.Name] {
			return iof("duplicate context name %q", fc.Name)
		}
		contextNames[fc.Name] = true

		if fc.Inherits == INVALID_CONTEXT {
			baseContexts++
		} else if fc.Inherits < 1 || int(fc.Inherits) > len(f.Contexts) {
			return iof("context %q inherits from unknown context ID %d", fc.Name, fc.Inherits)
		}

		if len(fc.Layers) != len(f.Layers) {
			return iof("context %q holds %d layers, expected %d", fc.Name, len(fc.Layers), len(f.Layers))
		}
		for li, rows := range fc.Layers {
			if uint32(len(rows)) != f.Height {
				return iof("context %q layer %d has %d rows, expected %d", fc.Name, li, len(rows), f.Height)
			}
			for _, row := range rows {
				if uint32(len(row)) != f.Length {
					return iof("context %q layer %d has a row of %d tiles, expected %d", fc.Name, li, len(row), f.Length)
				}
			}
		}
	}
	if baseContexts == 0 {
		return iof("map file contains no base context")
	}

	// every inheritance chain must terminate at a base context
	for i, fc := range f.Contexts {
		steps := 0
		for id := fc.Inherits; id != INVALID_CONTEXT; id = f.Contexts[id-1].Inherits {
			if steps++; steps > len(f.Contexts) {
				return iof("context %q is part of an inheritance cycle", f.Contexts[i].Name)
			}
		}
	}
	return nil
}
