package mapdata

// MapData is the custodian of every tile layer, tile context, and tileset of
// an open map. The editor view never mutates those entities directly; it calls
// into this type, which validates the request, applies it to every affected
// entity, and recomputes the derived collision grid when needed. A failed
// operation returns an *Error and leaves the map exactly as it was.
//
// MapData exclusively owns the entities it holds. Pointers handed out by
// accessors are observer references and become invalid after DestroyData or
// after any operation that deletes or shifts the referenced entity.
//
// All operations are synchronous and the type is not safe for concurrent use;
// the embedding application serializes calls.
type MapData struct {
	filename    string
	name        string
	designers   []string
	description string

	length   uint32
	height   uint32
	modified bool

	tileLayerCount   uint32
	tileContextCount uint32

	selectedContext    *TileContext
	selectedLayerIndex int

	// collisionData has one cell per tile quadrant (grid is twice the map
	// length and twice the map height); bit c of a cell means impassable
	// under the context with ID c+1
	collisionData [][]uint32

	tilesets []Tileset

	// tileContexts always has MAX_CONTEXTS slots. Live contexts occupy the
	// front of the array contiguously and the context in slot i has ID i+1.
	tileContexts []*TileContext

	// tileLayerProperties is index-aligned with the layer list of every
	// live context
	tileLayerProperties []*TileLayerProperties

	// emptyTileLayer is kept at the current map dimensions and cloned
	// whenever a new layer or context needs a blank grid
	emptyTileLayer *TileLayer
}

func NewMapData() *MapData {
	return &MapData{
		tileContexts:       make([]*TileContext, MAX_CONTEXTS),
		selectedLayerIndex: -1,
	}
}

// IsInitialized reports whether any map data is loaded.
func (m *MapData) IsInitialized() bool { return m.tileContextCount > 0 }

func (m *MapData) MapFilename() string { return m.filename }

func (m *MapData) MapName() string { return m.name }

func (m *MapData) SetMapName(name string) { m.name = name }

func (m *MapData) Designers() []string { return m.designers }

func (m *MapData) SetDesigners(designers []string) { m.designers = designers }

func (m *MapData) Description() string { return m.description }

func (m *MapData) SetDescription(description string) { m.description = description }

func (m *MapData) MapLength() uint32 { return m.length }

func (m *MapData) MapHeight() uint32 { return m.height }

func (m *MapData) IsModified() bool { return m.modified }

func (m *MapData) SetModified(modified bool) { m.modified = modified }

func (m *MapData) TileLayerCount() uint32 { return m.tileLayerCount }

func (m *MapData) TileContextCount() uint32 { return m.tileContextCount }

func (m *MapData) SelectedTileContext() *TileContext { return m.selectedContext }

func (m *MapData) SelectedTileLayer() *TileLayer {
	if m.selectedContext == nil || m.selectedLayerIndex < 0 {
		return nil
	}
	return m.selectedContext.TileLayer(uint32(m.selectedLayerIndex))
}

func (m *MapData) SelectedTileLayerProperties() *TileLayerProperties {
	if m.selectedLayerIndex < 0 || uint32(m.selectedLayerIndex) >= m.tileLayerCount {
		return nil
	}
	return m.tileLayerProperties[m.selectedLayerIndex]
}

// CollisionData returns the derived collision grid. The grid is replaced, not
// mutated in place, on every recomputation.
func (m *MapData) CollisionData() [][]uint32 { return m.collisionData }

// RecomputeCollisionData rebuilds the collision grid from the current map
// content. Structural operations trigger this automatically; callers that
// edit tiles in place must request it themselves.
func (m *MapData) RecomputeCollisionData() { m.computeCollisionData() }

// CreateData initializes a new map with a single base context and a single
// default layer of the given dimensions. Fails if map data already exists;
// call DestroyData first.
func (m *MapData) CreateData(mapLength, mapHeight uint32) error {
	if m.IsInitialized() {
		return validationf("map data already exists, destroy it before creating new data")
	}
	if mapLength == 0 || mapHeight == 0 {
		return validationf("invalid map dimensions %dx%d", mapLength, mapHeight)
	}

	m.length = mapLength
	m.height = mapHeight
	m.emptyTileLayer = NewTileLayer(nil, mapLength, mapHeight)

	props := NewTileLayerProperties("Ground", true)
	m.tileLayerProperties = []*TileLayerProperties{props}
	m.tileLayerCount = 1

	base := &TileContext{id: 1, name: "Base", inheritedContext: INVALID_CONTEXT}
	base.addTileLayer(m.emptyTileLayer.clone(props))
	m.tileContexts[0] = base
	m.tileContextCount = 1

	m.selectedContext = base
	m.selectedLayerIndex = 0
	m.modified = true
	m.computeCollisionData()
	return nil
}

// DestroyData releases all owned contexts, layers, and tilesets and returns
// the map to its uninitialized state. Safe to call repeatedly.
func (m *MapData) DestroyData() {
	m.filename = ""
	m.name = ""
	m.designers = nil
	m.description = ""
	m.length = 0
	m.height = 0
	m.modified = false
	m.tileLayerCount = 0
	m.tileContextCount = 0
	m.selectedContext = nil
	m.selectedLayerIndex = -1
	m.collisionData = nil
	m.tilesets = nil
	m.tileContexts = make([]*TileContext, MAX_CONTEXTS)
	m.tileLayerProperties = nil
	m.emptyTileLayer = nil
}

// ResizeMap grows or shrinks every layer in every context. New rows and
// columns are appended to the bottom and right; removed rows and columns are
// also taken from the bottom and right.
func (m *MapData) ResizeMap(mapLength, mapHeight uint32) error {
	if !m.IsInitialized() {
		return validationf("no map data to resize")
	}
	if mapLength == 0 || mapHeight == 0 {
		return validationf("invalid map dimensions %dx%d", mapLength, mapHeight)
	}

	m.length = mapLength
	m.height = mapHeight
	m.emptyTileLayer.Resize(mapLength, mapHeight)
	m.forEachLiveLayer(func(layer *TileLayer) {
		layer.Resize(mapLength, mapHeight)
	})
	m.modified = true
	m.computeCollisionData()
	return nil
}

/* Tileset manipulation */

func (m *MapData) TilesetCount() uint32 { return uint32(len(m.tilesets)) }

func (m *MapData) Tileset(tilesetIndex uint32) Tileset {
	if tilesetIndex >= uint32(len(m.tilesets)) {
		return nil
	}
	return m.tilesets[tilesetIndex]
}

// TilesetFilenames returns the ordered definition filenames of every tileset.
func (m *MapData) TilesetFilenames() []string {
	names := make([]string, len(m.tilesets))
	for i, ts := range m.tilesets {
		names[i] = ts.DefinitionFilename()
	}
	return names
}

// AddTileset appends a tileset to the tileset list and takes ownership of it.
func (m *MapData) AddTileset(newTileset Tileset) error {
	if newTileset == nil {
		return validationf("nil tileset")
	}
	if !newTileset.IsInitialized() {
		return validationf("tileset %q is not initialized", newTileset.DefinitionFilename())
	}
	for _, ts := range m.tilesets {
		if ts == newTileset {
			return validationf("tileset %q was already added", newTileset.DefinitionFilename())
		}
		if ts.DefinitionFilename() == newTileset.DefinitionFilename() {
			return validationf("a tileset with definition file %q already exists", newTileset.DefinitionFilename())
		}
	}
	m.tilesets = append(m.tilesets, newTileset)
	m.modified = true
	return nil
}

func (m *MapData) RemoveTileset(tilesetIndex uint32) error {
	if tilesetIndex >= uint32(len(m.tilesets)) {
		return validationf("tileset index %d out of range", tilesetIndex)
	}
	m.tilesets = append(m.tilesets[:tilesetIndex], m.tilesets[tilesetIndex+1:]...)
	m.modified = true
	m.computeCollisionData()
	return nil
}

// MoveTilesetUp swaps the tileset with its predecessor in the list. Fails at
// the top of the list, symmetric with the layer and context move operations.
func (m *MapData) MoveTilesetUp(tilesetIndex uint32) error {
	if tilesetIndex == 0 || tilesetIndex >= uint32(len(m.tilesets)) {
		return validationf("can not move tileset at index %d up", tilesetIndex)
	}
	m.tilesets[tilesetIndex-1], m.tilesets[tilesetIndex] = m.tilesets[tilesetIndex], m.tilesets[tilesetIndex-1]
	m.modified = true
	return nil
}

// MoveTilesetDown swaps the tileset with its successor in the list. Fails at
// the bottom of the list.
func (m *MapData) MoveTilesetDown(tilesetIndex uint32) error {
	if tilesetIndex+1 >= uint32(len(m.tilesets)) {
		return validationf("can not move tileset at index %d down", tilesetIndex)
	}
	m.tilesets[tilesetIndex], m.tilesets[tilesetIndex+1] = m.tilesets[tilesetIndex+1], m.tilesets[tilesetIndex]
	m.modified = true
	return nil
}

/* Tile layer manipulation */

// ChangeSelectedTileLayer selects the layer at the given slot of the selected
// context and returns it, or nil if no such layer exists.
func (m *MapData) ChangeSelectedTileLayer(layerIndex uint32) *TileLayer {
	if m.selectedContext == nil || layerIndex >= m.tileLayerCount {
		return nil
	}
	m.selectedLayerIndex = int(layerIndex)
	return m.selectedContext.TileLayer(layerIndex)
}

// TileLayerNames returns the ordered names of all tile layers.
func (m *MapData) TileLayerNames() []string {
	names := make([]string, len(m.tileLayerProperties))
	for i, props := range m.tileLayerProperties {
		names[i] = props.Name()
	}
	return names
}

func (m *MapData) AllTileLayerProperties() []*TileLayerProperties { return m.tileLayerProperties }

func (m *MapData) TileLayerProperties(layerIndex uint32) *TileLayerProperties {
	if layerIndex >= m.tileLayerCount {
		return nil
	}
	return m.tileLayerProperties[layerIndex]
}

func (m *MapData) ShowTileLayer(layerIndex uint32) error {
	return m.setTileLayerVisible(layerIndex, true)
}

func (m *MapData) HideTileLayer(layerIndex uint32) error {
	return m.setTileLayerVisible(layerIndex, false)
}

func (m *MapData) ToggleTileLayerVisibility(layerIndex uint32) error {
	if layerIndex >= m.tileLayerCount {
		return validationf("layer index %d out of range", layerIndex)
	}
	return m.setTileLayerVisible(layerIndex, !m.tileLayerProperties[layerIndex].IsVisible())
}

func (m *MapData) setTileLayerVisible(layerIndex uint32, visible bool) error {
	if layerIndex >= m.tileLayerCount {
		return validationf("layer index %d out of range", layerIndex)
	}
	m.tileLayerProperties[layerIndex].SetVisible(visible)
	return nil
}

func (m *MapData) EnableTileLayerCollision(layerIndex uint32) error {
	return m.setTileLayerCollision(layerIndex, true)
}

func (m *MapData) DisableTileLayerCollision(layerIndex uint32) error {
	return m.setTileLayerCollision(layerIndex, false)
}

func (m *MapData) ToggleTileLayerCollision(layerIndex uint32) error {
	if layerIndex >= m.tileLayerCount {
		return validationf("layer index %d out of range", layerIndex)
	}
	return m.setTileLayerCollision(layerIndex, !m.tileLayerProperties[layerIndex].IsCollisionEnabled())
}

func (m *MapData) setTileLayerCollision(layerIndex uint32, enabled bool) error {
	if layerIndex >= m.tileLayerCount {
		return validationf("layer index %d out of range", layerIndex)
	}
	m.tileLayerProperties[layerIndex].SetCollisionEnabled(enabled)
	m.modified = true
	m.computeCollisionData()
	return nil
}

// AddTileLayer appends a new empty layer to every context. The layer name must
// be unique among all existing tile layers.
func (m *MapData) AddTileLayer(name string, collisionEnabled bool) error {
	if !m.IsInitialized() {
		return validationf("no map data to add a layer to")
	}
	if name == "" {
		return validationf("empty layer name")
	}
	if nameTaken(name, m.TileLayerNames()) {
		return validationf("a layer named %q already exists", name)
	}

	props := NewTileLayerProperties(name, collisionEnabled)
	m.tileLayerProperties = append(m.tileLayerProperties, props)
	m.forEachLiveContext(func(c *TileContext) {
		c.addTileLayer(m.emptyTileLayer.clone(props))
	})
	m.tileLayerCount++
	m.modified = true
	m.computeCollisionData()
	return nil
}

// DeleteTileLayer removes the layer at the given slot from every context.
func (m *MapData) DeleteTileLayer(layerIndex uint32) error {
	if layerIndex >= m.tileLayerCount {
		return validationf("layer index %d out of range", layerIndex)
	}

	m.tileLayerProperties = append(m.tileLayerProperties[:layerIndex], m.tileLayerProperties[layerIndex+1:]...)
	m.forEachLiveContext(func(c *TileContext) {
		c.removeTileLayer(layerIndex)
	})
	m.tileLayerCount--

	// selection falls back to a neighboring layer, or none remain
	if m.selectedLayerIndex == int(layerIndex) {
		if m.tileLayerCount == 0 {
			m.selectedLayerIndex = -1
		} else if layerIndex >= m.tileLayerCount {
			m.selectedLayerIndex = int(m.tileLayerCount - 1)
		}
	} else if m.selectedLayerIndex > int(layerIndex) {
		m.selectedLayerIndex--
	}

	m.modified = true
	m.computeCollisionData()
	return nil
}

// CloneTileLayer appends a duplicate of the layer at the given slot to every
// context. The clone receives a generated unique name.
func (m *MapData) CloneTileLayer(layerIndex uint32) error {
	if layerIndex >= m.tileLayerCount {
		return validationf("layer index %d out of range", layerIndex)
	}

	source := m.tileLayerProperties[layerIndex]
	props := source.clone(CreateCloneName(source.Name(), m.TileLayerNames()))
	m.tileLayerProperties = append(m.tileLayerProperties, props)
	m.forEachLiveContext(func(c *TileContext) {
		c.addTileLayer(c.tileLayers[layerIndex].clone(props))
	})
	m.tileLayerCount++
	m.modified = true
	m.computeCollisionData()
	return nil
}

// RenameTileLayer sets a new name for the layer, which must not collide with
// any other layer's name.
func (m *MapData) RenameTileLayer(layerIndex uint32, newName string) error {
	if layerIndex >= m.tileLayerCount {
		return validationf("layer index %d out of range", layerIndex)
	}
	if newName == "" {
		return validationf("empty layer name")
	}
	for i, props := range m.tileLayerProperties {
		if uint32(i) != layerIndex && props.Name() == newName {
			return validationf("a layer named %q already exists", newName)
		}
	}
	m.tileLayerProperties[layerIndex].name = newName
	m.modified = true
	return nil
}

func (m *MapData) MoveTileLayerUp(layerIndex uint32) error {
	if layerIndex == 0 {
		return validationf("layer index %d is already at the top", layerIndex)
	}
	return m.SwapTileLayers(layerIndex, layerIndex-1)
}

func (m *MapData) MoveTileLayerDown(layerIndex uint32) error {
	return m.SwapTileLayers(layerIndex, layerIndex+1)
}

// SwapTileLayers exchanges the positions of two layer slots, in the shared
// properties list and within every context. The selection follows the moved
// layer.
func (m *MapData) SwapTileLayers(indexOne, indexTwo uint32) error {
	if indexOne >= m.tileLayerCount || indexTwo >= m.tileLayerCount {
		return validationf("layer swap %d <-> %d out of range", indexOne, indexTwo)
	}
	if indexOne == indexTwo {
		return validationf("layer swap indexes are equal")
	}

	p := m.tileLayerProperties
	p[indexOne], p[indexTwo] = p[indexTwo], p[indexOne]
	m.forEachLiveContext(func(c *TileContext) {
		c.swapTileLayers(indexOne, indexTwo)
	})

	if m.selectedLayerIndex == int(indexOne) {
		m.selectedLayerIndex = int(indexTwo)
	} else if m.selectedLayerIndex == int(indexTwo) {
		m.selectedLayerIndex = int(indexOne)
	}

	m.modified = true
	m.computeCollisionData()
	return nil
}

// InsertTileLayerRows inserts blank rows before the given row in every layer
// of every context. Rows can not be appended past the bottom edge; use
// ResizeMap for that.
func (m *MapData) InsertTileLayerRows(rowIndex, rowCount uint32) error {
	if !m.IsInitialized() {
		return validationf("no map data to insert rows into")
	}
	if rowCount == 0 {
		return validationf("row count must be positive")
	}
	if rowIndex >= m.height {
		return validationf("row index %d out of range", rowIndex)
	}
	if uint64(m.height)+uint64(rowCount) > uint64(^uint32(0)) {
		return validationf("inserting %d rows overflows the map height", rowCount)
	}

	m.height += rowCount
	m.emptyTileLayer.Resize(m.length, m.height)
	m.forEachLiveLayer(func(layer *TileLayer) {
		layer.InsertRows(rowIndex, rowCount)
	})
	m.modified = true
	m.computeCollisionData()
	return nil
}

// RemoveTileLayerRows removes rows starting at the given row from every layer
// of every context. At least one row must remain.
func (m *MapData) RemoveTileLayerRows(rowIndex, rowCount uint32) error {
	if !m.IsInitialized() {
		return validationf("no map data to remove rows from")
	}
	if rowCount == 0 {
		return validationf("row count must be positive")
	}
	// widened so a row index near the uint32 maximum can not wrap past the check
	if uint64(rowIndex)+uint64(rowCount) > uint64(m.height) {
		return validationf("row range %d+%d out of range", rowIndex, rowCount)
	}
	if rowCount >= m.height {
		return validationf("can not remove every row of the map")
	}

	m.height -= rowCount
	m.emptyTileLayer.Resize(m.length, m.height)
	m.forEachLiveLayer(func(layer *TileLayer) {
		layer.RemoveRows(rowIndex, rowCount)
	})
	m.modified = true
	m.computeCollisionData()
	return nil
}

// InsertTileLayerColumns inserts blank columns before the given column in
// every layer of every context. Columns can not be appended past the right
// edge; use ResizeMap for that.
func (m *MapData) InsertTileLayerColumns(colIndex, colCount uint32) error {
	if !m.IsInitialized() {
		return validationf("no map data to insert columns into")
	}
	if colCount == 0 {
		return validationf("column count must be positive")
	}
	if colIndex >= m.length {
		return validationf("column index %d out of range", colIndex)
	}
	if uint64(m.length)+uint64(colCount) > uint64(^uint32(0)) {
		return validationf("inserting %d columns overflows the map length", colCount)
	}

	m.length += colCount
	m.emptyTileLayer.Resize(m.length, m.height)
	m.forEachLiveLayer(func(layer *TileLayer) {
		layer.InsertColumns(colIndex, colCount)
	})
	m.modified = true
	m.computeCollisionData()
	return nil
}

// RemoveTileLayerColumns removes columns starting at the given column from
// every layer of every context. At least one column must remain.
func (m *MapData) RemoveTileLayerColumns(colIndex, colCount uint32) error {
	if !m.IsInitialized() {
		return validationf("no map data to remove columns from")
	}
	if colCount == 0 {
		return validationf("column count must be positive")
	}
	if uint64(colIndex)+uint64(colCount) > uint64(m.length) {
		return validationf("column range %d+%d out of range", colIndex, colCount)
	}
	if colCount >= m.length {
		return validationf("can not remove every column of the map")
	}

	m.length -= colCount
	m.emptyTileLayer.Resize(m.length, m.height)
	m.forEachLiveLayer(func(layer *TileLayer) {
		layer.RemoveColumns(colIndex, colCount)
	})
	m.modified = true
	m.computeCollisionData()
	return nil
}

/* Tile context manipulation */

// ChangeSelectedTileContext selects the context with the given ID and returns
// it, or nil if the context does not exist. The selected layer slot carries
// over to the newly selected context.
func (m *MapData) ChangeSelectedTileContext(contextID int32) *TileContext {
	context := m.FindTileContextByID(contextID)
	if context == nil {
		return nil
	}
	m.selectedContext = context
	return context
}

// TileContextNames returns the ordered names of all tile contexts.
func (m *MapData) TileContextNames() []string {
	names := make([]string, m.tileContextCount)
	for i := uint32(0); i < m.tileContextCount; i++ {
		names[i] = m.tileContexts[i].Name()
	}
	return names
}

// InheritedTileContextNames returns, for each context in order, the name of
// the context it inherits from, or an empty string for base contexts.
func (m *MapData) InheritedTileContextNames() []string {
	names := make([]string, m.tileContextCount)
	for i := uint32(0); i < m.tileContextCount; i++ {
		if inherited := m.FindTileContextByID(m.tileContexts[i].InheritedContextID()); inherited != nil {
			names[i] = inherited.Name()
		}
	}
	return names
}

// AddTileContext creates a new context in the next free slot, with one blank
// layer per layer slot. Pass INVALID_CONTEXT as inheritingContextID to create
// a base context.
func (m *MapData) AddTileContext(name string, inheritingContextID int32) (*TileContext, error) {
	if !m.IsInitialized() {
		return nil, validationf("no map data to add a context to")
	}
	if name == "" {
		return nil, validationf("empty context name")
	}
	if nameTaken(name, m.TileContextNames()) {
		return nil, validationf("a context named %q already exists", name)
	}
	if m.tileContextCount >= MAX_CONTEXTS {
		return nil, validationf("maximum of %d contexts reached", MAX_CONTEXTS)
	}
	if inheritingContextID != INVALID_CONTEXT && m.FindTileContextByID(inheritingContextID) == nil {
		return nil, validationf("inherited context ID %d does not exist", inheritingContextID)
	}

	context := &TileContext{
		id:               int32(m.tileContextCount) + 1,
		name:             name,
		inheritedContext: inheritingContextID,
	}
	for _, props := range m.tileLayerProperties {
		context.addTileLayer(m.emptyTileLayer.clone(props))
	}
	m.tileContexts[m.tileContextCount] = context
	m.tileContextCount++
	m.modified = true
	m.computeCollisionData()
	return context, nil
}

// DeleteTileContext removes a context and compacts the slot array. Every
// following context shifts down one slot and its ID decreases by one;
// inheritance references follow the shifted IDs. Fails if the context is the
// only base context left or if another context inherits from it.
func (m *MapData) DeleteTileContext(contextID int32) error {
	context := m.FindTileContextByID(contextID)
	if context == nil {
		return validationf("context ID %d does not exist", contextID)
	}
	if !context.InheritsContext() && m.baseContextCount() == 1 {
		return structuref("context %q is the only base context left", context.Name())
	}
	for i := uint32(0); i < m.tileContextCount; i++ {
		if other := m.tileContexts[i]; other != context && other.InheritedContextID() == contextID {
			return structuref("context %q still inherits from context %q", other.Name(), context.Name())
		}
	}

	slot := uint32(contextID - 1)
	for i := slot; i+1 < m.tileContextCount; i++ {
		m.tileContexts[i] = m.tileContexts[i+1]
		m.tileContexts[i].id = int32(i) + 1
	}
	m.tileContexts[m.tileContextCount-1] = nil
	m.tileContextCount--

	remapContextIDs(m.tileContexts[:m.tileContextCount], func(id int32) int32 {
		if id > contextID {
			return id - 1
		}
		return id
	})

	if m.selectedContext == context {
		if slot >= m.tileContextCount {
			slot = m.tileContextCount - 1
		}
		m.selectedContext = m.tileContexts[slot]
	}

	m.modified = true
	m.computeCollisionData()
	return nil
}

// CloneTileContext appends a duplicate of a context, copying its inheritance
// reference and every layer's tile content. The clone receives a generated
// unique name.
func (m *MapData) CloneTileContext(contextID int32) (*TileContext, error) {
	source := m.FindTileContextByID(contextID)
	if source == nil {
		return nil, validationf("context ID %d does not exist", contextID)
	}
	if m.tileContextCount >= MAX_CONTEXTS {
		return nil, validationf("maximum of %d contexts reached", MAX_CONTEXTS)
	}

	context := source.clone(m.tileLayerProperties)
	context.id = int32(m.tileContextCount) + 1
	context.name = CreateCloneName(source.Name(), m.TileContextNames())
	m.tileContexts[m.tileContextCount] = context
	m.tileContextCount++
	m.modified = true
	m.computeCollisionData()
	return context, nil
}

// RenameTileContext sets a new name for the context, which must not collide
// with any other context's name.
func (m *MapData) RenameTileContext(contextID int32, newName string) error {
	context := m.FindTileContextByID(contextID)
	if context == nil {
		return validationf("context ID %d does not exist", contextID)
	}
	if newName == "" {
		return validationf("empty context name")
	}
	if other := m.FindTileContextByName(newName); other != nil && other != context {
		return validationf("a context named %q already exists", newName)
	}
	context.name = newName
	m.modified = true
	return nil
}

// ChangeInheritanceTileContext points a context at a new inherited context, or
// removes its inheritance when inheritID is INVALID_CONTEXT. The change is
// rejected if it would produce a cycle of any length.
func (m *MapData) ChangeInheritanceTileContext(contextID, inheritID int32) error {
	context := m.FindTileContextByID(contextID)
	if context == nil {
		return validationf("context ID %d does not exist", contextID)
	}
	if inheritID == contextID {
		return validationf("context %q can not inherit from itself", context.Name())
	}
	if inheritID != INVALID_CONTEXT {
		if m.FindTileContextByID(inheritID) == nil {
			return validationf("inherited context ID %d does not exist", inheritID)
		}
		// walk the whole chain, not just one hop
		for id, steps := inheritID, 0; id != INVALID_CONTEXT && steps < MAX_CONTEXTS; steps++ {
			if id == contextID {
				return validationf("inheriting from context ID %d would create a cycle", inheritID)
			}
			id = m.FindTileContextByID(id).InheritedContextID()
		}
	}
	context.inheritedContext = inheritID
	m.modified = true
	return nil
}

// RemoveInheritanceTileContext turns a context into a base context.
func (m *MapData) RemoveInheritanceTileContext(contextID int32) error {
	return m.ChangeInheritanceTileContext(contextID, INVALID_CONTEXT)
}

func (m *MapData) MoveTileContextUp(contextID int32) error {
	return m.SwapTileContexts(contextID, contextID-1)
}

func (m *MapData) MoveTileContextDown(contextID int32) error {
	return m.SwapTileContexts(contextID, contextID+1)
}

// SwapTileContexts exchanges the slots of two contexts. Since IDs are derived
// from slots, both contexts change identity and every inheritance reference
// pointing at either is remapped.
func (m *MapData) SwapTileContexts(firstID, secondID int32) error {
	first := m.FindTileContextByID(firstID)
	second := m.FindTileContextByID(secondID)
	if first == nil || second == nil {
		return validationf("context swap %d <-> %d out of range", firstID, secondID)
	}
	if first == second {
		return validationf("context swap IDs are equal")
	}

	m.tileContexts[firstID-1], m.tileContexts[secondID-1] = second, first
	first.id, second.id = secondID, firstID
	remapContextIDs(m.tileContexts[:m.tileContextCount], func(id int32) int32 {
		switch id {
		case firstID:
			return secondID
		case secondID:
			return firstID
		}
		return id
	})

	m.modified = true
	m.computeCollisionData()
	return nil
}

// FindTileContextByID returns the context with the given ID, or nil.
func (m *MapData) FindTileContextByID(contextID int32) *TileContext {
	if contextID < 1 || uint32(contextID) > m.tileContextCount {
		return nil
	}
	return m.tileContexts[contextID-1]
}

// FindTileContextByName returns the context with the given name, or nil.
// Names are unique, so a name never maps to more than one context.
func (m *MapData) FindTileContextByName(contextName string) *TileContext {
	for i := uint32(0); i < m.tileContextCount; i++ {
		if m.tileContexts[i].Name() == contextName {
			return m.tileContexts[i]
		}
	}
	return nil
}

// FindTileContextByIndex returns the context in the given slot, or nil.
func (m *MapData) FindTileContextByIndex(contextIndex uint32) *TileContext {
	if contextIndex >= m.tileContextCount {
		return nil
	}
	return m.tileContexts[contextIndex]
}

func (m *MapData) baseContextCount() uint32 {
	count := uint32(0)
	for i := uint32(0); i < m.tileContextCount; i++ {
		if !m.tileContexts[i].InheritsContext() {
			count++
		}
	}
	return count
}

func (m *MapData) forEachLiveContext(fn func(*TileContext)) {
	for i := uint32(0); i < m.tileContextCount; i++ {
		fn(m.tileContexts[i])
	}
}

func (m *MapData) forEachLiveLayer(fn func(*TileLayer)) {
	m.forEachLiveContext(func(c *TileContext) {
		for _, layer := range c.tileLayers {
			fn(layer)
		}
	})
}
