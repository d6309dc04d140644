package mapdata

// Tile value sentinels. Layer grids hold int32 values that encode a tileset
// index and a tile index within that tileset. Negative values never contribute
// to collision data.
const (
	// NO_TILE marks a grid cell with no tile placed on it
	NO_TILE int32 = -1
	// INHERITED_TILE marks a cell whose content is resolved from the
	// inherited context at runtime
	INHERITED_TILE int32 = -2
)

// TileLayerProperties holds the shared per-layer metadata. One instance exists
// per layer slot and is referenced by the layer in that slot of every context.
type TileLayerProperties struct {
	name             string
	visible          bool
	collisionEnabled bool
}

func NewTileLayerProperties(name string, collisionEnabled bool) *TileLayerProperties {
	return &TileLayerProperties{name: name, visible: true, collisionEnabled: collisionEnabled}
}

func (p *TileLayerProperties) Name() string { return p.name }

func (p *TileLayerProperties) IsVisible() bool { return p.visible }

func (p *TileLayerProperties) SetVisible(visible bool) { p.visible = visible }

func (p *TileLayerProperties) IsCollisionEnabled() bool { return p.collisionEnabled }

func (p *TileLayerProperties) SetCollisionEnabled(enabled bool) { p.collisionEnabled = enabled }

func (p *TileLayerProperties) clone(name string) *TileLayerProperties {
	return &TileLayerProperties{name: name, visible: p.visible, collisionEnabled: p.collisionEnabled}
}

// TileLayer is a rectangular grid of tile values for one layer slot within one
// context. Rows are stored top to bottom, tiles[y][x].
type TileLayer struct {
	// props is the shared properties entry for this layer's slot, identical
	// across all contexts holding a layer in the same slot
	props *TileLayerProperties

	tiles [][]int32
}

func NewTileLayer(props *TileLayerProperties, length, height uint32) *TileLayer {
	l := &TileLayer{props: props}
	l.tiles = make([][]int32, height)
	for y := range l.tiles {
		l.tiles[y] = newTileRow(length)
	}
	return l
}

func newTileRow(length uint32) []int32 {
	row := make([]int32, length)
	for x := range row {
		row[x] = NO_TILE
	}
	return row
}

func (l *TileLayer) Properties() *TileLayerProperties { return l.props }

func (l *TileLayer) Height() uint32 { return uint32(len(l.tiles)) }

func (l *TileLayer) Length() uint32 {
	if len(l.tiles) == 0 {
		return 0
	}
	return uint32(len(l.tiles[0]))
}

// Tile returns the value at (x, y), or NO_TILE if the position lies outside
// the grid.
func (l *TileLayer) Tile(x, y uint32) int32 {
	if y >= l.Height() || x >= l.Length() {
		return NO_TILE
	}
	return l.tiles[y][x]
}

// SetTile writes the value at (x, y). Writes outside the grid are ignored.
func (l *TileLayer) SetTile(x, y uint32, value int32) {
	if y >= l.Height() || x >= l.Length() {
		return
	}
	l.tiles[y][x] = value
}

func (l *TileLayer) Fill(value int32) {
	for y := range l.tiles {
		for x := range l.tiles[y] {
			l.tiles[y][x] = value
		}
	}
}

func (l *TileLayer) Clear() { l.Fill(NO_TILE) }

// Resize grows or shrinks the grid. Rows are added or removed at the bottom
// and columns at the right; surviving cells keep their values.
func (l *TileLayer) Resize(length, height uint32) {
	oldHeight := l.Height()
	if height < oldHeight {
		l.tiles = l.tiles[:height]
	} else {
		for y := oldHeight; y < height; y++ {
			l.tiles = append(l.tiles, newTileRow(length))
		}
	}

	for y := range l.tiles {
		oldLength := uint32(len(l.tiles[y]))
		if length < oldLength {
			l.tiles[y] = l.tiles[y][:length]
		} else {
			for x := oldLength; x < length; x++ {
				l.tiles[y] = append(l.tiles[y], NO_TILE)
			}
		}
	}
}

// InsertRows inserts count empty rows before the row at rowIndex.
func (l *TileLayer) InsertRows(rowIndex, count uint32) {
	if rowIndex > l.Height() {
		return
	}
	length := l.Length()
	fresh := make([][]int32, count)
	for i := range fresh {
		fresh[i] = newTileRow(length)
	}
	tail := make([][]int32, len(l.tiles[rowIndex:]))
	copy(tail, l.tiles[rowIndex:])
	l.tiles = append(append(l.tiles[:rowIndex], fresh...), tail...)
}

// RemoveRows removes count rows starting at rowIndex.
func (l *TileLayer) RemoveRows(rowIndex, count uint32) {
	if uint64(rowIndex)+uint64(count) > uint64(l.Height()) {
		return
	}
	l.tiles = append(l.tiles[:rowIndex], l.tiles[rowIndex+count:]...)
}

// InsertColumns inserts count empty columns before the column at colIndex.
func (l *TileLayer) InsertColumns(colIndex, count uint32) {
	if colIndex > l.Length() {
		return
	}
	for y := range l.tiles {
		row := l.tiles[y]
		fresh := newTileRow(count)
		tail := make([]int32, len(row[colIndex:]))
		copy(tail, row[colIndex:])
		l.tiles[y] = append(append(row[:colIndex], fresh...), tail...)
	}
}

// RemoveColumns removes count columns starting at colIndex.
func (l *TileLayer) RemoveColumns(colIndex, count uint32) {
	if uint64(colIndex)+uint64(count) > uint64(l.Length()) {
		return
	}
	for y := range l.tiles {
		l.tiles[y] = append(l.tiles[y][:colIndex], l.tiles[y][colIndex+count:]...)
	}
}

// clone duplicates the grid content. The copy references props, which may be
// replaced by the caller when cloning into a new layer slot.
func (l *TileLayer) clone(props *TileLayerProperties) *TileLayer {
	c := &TileLayer{props: props}
	c.tiles = make([][]int32, len(l.tiles))
	for y := range l.tiles {
		c.tiles[y] = make([]int32, len(l.tiles[y]))
		copy(c.tiles[y], l.tiles[y])
	}
	return c
}
