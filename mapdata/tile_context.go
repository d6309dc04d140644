package mapdata

// MAX_CONTEXTS is the fixed capacity of the context slot array. Collision
// results are packed one bit per context into a single uint32 word, so the
// limit can not be raised without changing the collision grid cell type.
const MAX_CONTEXTS = 32

// INVALID_CONTEXT marks a context as a base context that inherits nothing. It
// is also returned by lookups that fail to resolve a context.
const INVALID_CONTEXT int32 = -1

// TileContext is one variant of the map: an ordered list of tile layers, one
// per layer slot, holding tile content independent from every other context.
//
// A context occupying slot i of the MapData slot array always has ID i+1.
// IDs are therefore not stable across deletions: removing a context shifts
// every following context down one slot.
type TileContext struct {
	id               int32
	name             string
	inheritedContext int32
	tileLayers       []*TileLayer
}

func (c *TileContext) ID() int32 { return c.id }

func (c *TileContext) Name() string { return c.name }

// InheritsContext reports whether this context inherits from another context.
func (c *TileContext) InheritsContext() bool { return c.inheritedContext != INVALID_CONTEXT }

// InheritedContextID returns the ID of the inherited context, or
// INVALID_CONTEXT for a base context.
func (c *TileContext) InheritedContextID() int32 { return c.inheritedContext }

func (c *TileContext) LayerCount() uint32 { return uint32(len(c.tileLayers)) }

// TileLayer returns the layer at the given slot, or nil if the slot is out of
// range.
func (c *TileContext) TileLayer(layerIndex uint32) *TileLayer {
	if layerIndex >= uint32(len(c.tileLayers)) {
		return nil
	}
	return c.tileLayers[layerIndex]
}

func (c *TileContext) addTileLayer(layer *TileLayer) {
	c.tileLayers = append(c.tileLayers, layer)
}

func (c *TileContext) removeTileLayer(layerIndex uint32) {
	c.tileLayers = append(c.tileLayers[:layerIndex], c.tileLayers[layerIndex+1:]...)
}

func (c *TileContext) swapTileLayers(first, second uint32) {
	c.tileLayers[first], c.tileLayers[second] = c.tileLayers[second], c.tileLayers[first]
}

// clone duplicates the context's layer grids relinked to the shared properties
// list. ID and name are assigned by the caller.
func (c *TileContext) clone(props []*TileLayerProperties) *TileContext {
	n := &TileContext{inheritedContext: c.inheritedContext}
	n.tileLayers = make([]*TileLayer, len(c.tileLayers))
	for i, layer := range c.tileLayers {
		n.tileLayers[i] = layer.clone(props[i])
	}
	return n
}

// remapContextIDs rewrites the inheritance references of every given context
// through remap. Deletion and reordering of contexts change slot-derived IDs,
// and every reference pointing at a shifted context must follow it. All ID
// rewriting funnels through here.
func remapContextIDs(contexts []*TileContext, remap func(int32) int32) {
	for _, c := range contexts {
		if c == nil {
			continue
		}
		if c.inheritedContext != INVALID_CONTEXT {
			c.inheritedContext = remap(c.inheritedContext)
		}
	}
}
