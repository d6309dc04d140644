package mapdata

// computeCollisionData rebuilds the derived collision grid.
//
// The grid is four times the size of the tile grid (twice as long and twice as
// high), one cell per tile quadrant. For every context, the quadrant bits of
// every tile on every collision-enabled layer are ORed together, so any
// enabled layer being impassable at a quadrant makes that quadrant impassable
// in that context. The per-context result occupies bit ID-1 of each cell,
// packing all MAX_CONTEXTS contexts into a single uint32 per quadrant.
func (m *MapData) computeCollisionData() {
	if !m.IsInitialized() || m.length == 0 || m.height == 0 {
		m.collisionData = nil
		return
	}

	grid := make([][]uint32, m.height*2)
	for y := range grid {
		grid[y] = make([]uint32, m.length*2)
	}

	for ci := uint32(0); ci < m.tileContextCount; ci++ {
		context := m.tileContexts[ci]
		contextBit := uint32(1) << uint32(context.ID()-1)

		for li, props := range m.tileLayerProperties {
			if !props.IsCollisionEnabled() {
				continue
			}
			layer := context.tileLayers[li]

			for y := uint32(0); y < m.height; y++ {
				for x := uint32(0); x < m.length; x++ {
					quadrants := m.tileCollisionQuadrants(layer.tiles[y][x])
					if quadrants == 0 {
						continue
					}
					if quadrants&COLLISION_NW != 0 {
						grid[y*2][x*2] |= contextBit
					}
					if quadrants&COLLISION_NE != 0 {
						grid[y*2][x*2+1] |= contextBit
					}
					if quadrants&COLLISION_SW != 0 {
						grid[y*2+1][x*2] |= contextBit
					}
					if quadrants&COLLISION_SE != 0 {
						grid[y*2+1][x*2+1] |= contextBit
					}
				}
			}
		}
	}

	m.collisionData = grid
}

// tileCollisionQuadrants resolves the quadrant bits for a layer tile value by
// delegating to the tileset the value belongs to. Sentinel values and values
// referencing a missing tileset have no collision.
func (m *MapData) tileCollisionQuadrants(tileValue int32) uint8 {
	if tileValue < 0 {
		return 0
	}
	tilesetIndex := tileValue / TILES_PER_TILESET
	if tilesetIndex >= int32(len(m.tilesets)) {
		return 0
	}
	return m.tilesets[tilesetIndex].TileCollisionQuadrants(tileValue % TILES_PER_TILESET)
}
