package mapdata

import "testing"

// stubTileset implements the Tileset contract for tests without touching the
// filesystem.
type stubTileset struct {
	file       string
	collisions map[int32]uint8
}

func (s *stubTileset) DefinitionFilename() string { return s.file }

func (s *stubTileset) IsInitialized() bool { return true }

func (s *stubTileset) TileCollisionQuadrants(tileIndex int32) uint8 {
	return s.collisions[tileIndex]
}

type uninitializedTileset struct{ stubTileset }

func (s *uninitializedTileset) IsInitialized() bool { return false }

// checkIntegrity verifies the cross-cutting structural invariants that every
// successful operation must preserve.
func checkIntegrity(t *testing.T, m *MapData) {
	t.Helper()

	if uint32(len(m.tileLayerProperties)) != m.tileLayerCount {
		t.Fatalf("%d layer properties for layer count %d", len(m.tileLayerProperties), m.tileLayerCount)
	}

	layerNames := make(map[string]bool)
	for _, props := range m.tileLayerProperties {
		if layerNames[props.Name()] {
			t.Fatalf("duplicate layer name %q", props.Name())
		}
		layerNames[props.Name()] = true
	}

	contextNames := make(map[string]bool)
	for i := uint32(0); i < m.tileContextCount; i++ {
		context := m.tileContexts[i]
		if context == nil {
			t.Fatalf("live context slot %d is empty", i)
		}
		if context.ID() != int32(i)+1 {
			t.Fatalf("context in slot %d has ID %d", i, context.ID())
		}
		if contextNames[context.Name()] {
			t.Fatalf("duplicate context name %q", context.Name())
		}
		contextNames[context.Name()] = true

		if context.LayerCount() != m.tileLayerCount {
			t.Fatalf("context %q holds %d layers, map has %d", context.Name(), context.LayerCount(), m.tileLayerCount)
		}
		for li, layer := range context.tileLayers {
			if layer.props != m.tileLayerProperties[li] {
				t.Fatalf("context %q layer %d is not linked to the shared properties entry", context.Name(), li)
			}
			if layer.Length() != m.length || layer.Height() != m.height {
				t.Fatalf("context %q layer %d is %dx%d, map is %dx%d",
					context.Name(), li, layer.Length(), layer.Height(), m.length, m.height)
			}
		}

		if context.InheritsContext() {
			if m.FindTileContextByID(context.InheritedContextID()) == nil {
				t.Fatalf("context %q inherits from missing ID %d", context.Name(), context.InheritedContextID())
			}
		}
	}
	for i := m.tileContextCount; i < MAX_CONTEXTS; i++ {
		if m.tileContexts[i] != nil {
			t.Fatalf("dead context slot %d is occupied", i)
		}
	}
	if m.tileContextCount > 0 && m.baseContextCount() == 0 {
		t.Fatal("no base context left")
	}
}

func newTestMap(t *testing.T, length, height uint32) *MapData {
	t.Helper()
	m := NewMapData()
	if err := m.CreateData(length, height); err != nil {
		t.Fatalf("CreateData(%d,%d): %v", length, height, err)
	}
	return m
}

func TestCreateData(t *testing.T) {
	m := NewMapData()
	if m.IsInitialized() {
		t.Fatal("fresh MapData reports initialized")
	}

	if err := m.CreateData(10, 8); err != nil {
		t.Fatalf("CreateData: %v", err)
	}
	if !m.IsInitialized() || m.MapLength() != 10 || m.MapHeight() != 8 {
		t.Fatalf("unexpected state after create: %dx%d", m.MapLength(), m.MapHeight())
	}
	if m.TileLayerCount() != 1 || m.TileContextCount() != 1 {
		t.Fatalf("expected one layer and one context, got %d/%d", m.TileLayerCount(), m.TileContextCount())
	}
	if !m.IsModified() {
		t.Error("new map is not marked modified")
	}
	if m.SelectedTileContext() == nil || m.SelectedTileLayer() == nil {
		t.Error("new map has no selection")
	}
	checkIntegrity(t, m)

	if err := m.CreateData(5, 5); err == nil {
		t.Error("CreateData on populated map did not fail")
	} else if !IsValidation(err) {
		t.Errorf("CreateData on populated map returned kind %v", err)
	}
}

func TestCreateDataInvalidDimensions(t *testing.T) {
	m := NewMapData()
	if err := m.CreateData(0, 5); err == nil {
		t.Error("CreateData(0,5) did not fail")
	}
	if err := m.CreateData(5, 0); err == nil {
		t.Error("CreateData(5,0) did not fail")
	}
	if m.IsInitialized() {
		t.Error("failed create left data behind")
	}
}

func TestDestroyData(t *testing.T) {
	m := newTestMap(t, 4, 4)
	m.SetMapName("Doomed")
	m.DestroyData()
	if m.IsInitialized() || m.MapName() != "" || m.TileLayerCount() != 0 || m.TilesetCount() != 0 {
		t.Error("DestroyData left state behind")
	}
	if m.SelectedTileContext() != nil || m.SelectedTileLayer() != nil {
		t.Error("DestroyData left a selection behind")
	}
	// destroy is idempotent
	m.DestroyData()
	if err := m.CreateData(3, 3); err != nil {
		t.Fatalf("CreateData after destroy: %v", err)
	}
	checkIntegrity(t, m)
}

func TestLayerOperationsKeepContextsAligned(t *testing.T) {
	m := newTestMap(t, 6, 4)
	if _, err := m.AddTileContext("Night", 1); err != nil {
		t.Fatalf("AddTileContext: %v", err)
	}
	if _, err := m.AddTileContext("Cave", INVALID_CONTEXT); err != nil {
		t.Fatalf("AddTileContext: %v", err)
	}

	steps := []struct {
		name string
		op   func() error
	}{
		{"AddTileLayer", func() error { return m.AddTileLayer("Detail", false) }},
		{"AddTileLayer", func() error { return m.AddTileLayer("Sky", false) }},
		{"CloneTileLayer", func() error { return m.CloneTileLayer(1) }},
		{"SwapTileLayers", func() error { return m.SwapTileLayers(0, 3) }},
		{"MoveTileLayerDown", func() error { return m.MoveTileLayerDown(1) }},
		{"MoveTileLayerUp", func() error { return m.MoveTileLayerUp(3) }},
		{"DeleteTileLayer", func() error { return m.DeleteTileLayer(2) }},
		{"DeleteTileLayer", func() error { return m.DeleteTileLayer(0) }},
	}
	for i, step := range steps {
		if err := step.op(); err != nil {
			t.Fatalf("step %d (%s): %v", i, step.name, err)
		}
		checkIntegrity(t, m)
	}
}

func TestAddTileLayerDuplicateName(t *testing.T) {
	m := newTestMap(t, 4, 4)
	if err := m.AddTileLayer("Ground", false); err == nil {
		t.Error("duplicate layer name was accepted")
	} else if !IsValidation(err) {
		t.Errorf("duplicate layer name returned kind %v", err)
	}
	if err := m.AddTileLayer("", false); err == nil {
		t.Error("empty layer name was accepted")
	}
	checkIntegrity(t, m)
}

func TestRenameTileLayer(t *testing.T) {
	m := newTestMap(t, 4, 4)
	if err := m.AddTileLayer("Detail", false); err != nil {
		t.Fatal(err)
	}

	if err := m.RenameTileLayer(1, "Ground"); err == nil {
		t.Error("rename to a colliding name was accepted")
	}
	if err := m.RenameTileLayer(1, "Detail"); err != nil {
		t.Errorf("rename to own name failed: %v", err)
	}
	if err := m.RenameTileLayer(1, "Objects"); err != nil {
		t.Errorf("rename failed: %v", err)
	}
	if m.TileLayerNames()[1] != "Objects" {
		t.Errorf("layer names after rename: %v", m.TileLayerNames())
	}
	if err := m.RenameTileLayer(5, "X"); err == nil {
		t.Error("rename of missing layer was accepted")
	}
}

func TestLayerMoveBoundaries(t *testing.T) {
	m := newTestMap(t, 4, 4)
	if err := m.AddTileLayer("Detail", false); err != nil {
		t.Fatal(err)
	}
	if err := m.MoveTileLayerUp(0); err == nil {
		t.Error("moving the top layer up did not fail")
	}
	if err := m.MoveTileLayerDown(1); err == nil {
		t.Error("moving the bottom layer down did not fail")
	}
	checkIntegrity(t, m)
}

func TestDeleteTileLayerSelectionFallback(t *testing.T) {
	m := newTestMap(t, 4, 4)
	if err := m.AddTileLayer("Detail", false); err != nil {
		t.Fatal(err)
	}
	if m.ChangeSelectedTileLayer(1) == nil {
		t.Fatal("could not select layer 1")
	}

	if err := m.DeleteTileLayer(1); err != nil {
		t.Fatal(err)
	}
	if props := m.SelectedTileLayerProperties(); props == nil || props.Name() != "Ground" {
		t.Error("selection did not fall back to the neighboring layer")
	}

	if err := m.DeleteTileLayer(0); err != nil {
		t.Fatal(err)
	}
	if m.SelectedTileLayer() != nil || m.SelectedTileLayerProperties() != nil {
		t.Error("selection survived deleting every layer")
	}
	checkIntegrity(t, m)
}

func TestResizeRoundtrip(t *testing.T) {
	m := newTestMap(t, 4, 3)
	layer := m.SelectedTileLayer()
	original := [][]int32{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
	}
	for y := range original {
		for x := range original[y] {
			layer.SetTile(uint32(x), uint32(y), original[y][x])
		}
	}

	if err := m.ResizeMap(7, 6); err != nil {
		t.Fatal(err)
	}
	checkIntegrity(t, m)
	if err := m.ResizeMap(4, 3); err != nil {
		t.Fatal(err)
	}
	checkIntegrity(t, m)

	for y := range original {
		for x := range original[y] {
			if got := layer.Tile(uint32(x), uint32(y)); got != original[y][x] {
				t.Errorf("tile (%d,%d) = %d after resize roundtrip; expected %d", x, y, got, original[y][x])
			}
		}
	}
}

func TestInsertRemoveRowsAndColumns(t *testing.T) {
	m := newTestMap(t, 4, 3)
	layer := m.SelectedTileLayer()
	layer.SetTile(1, 1, 77)

	if err := m.InsertTileLayerRows(3, 1); err == nil {
		t.Error("appending rows past the bottom edge was accepted")
	}
	if err := m.InsertTileLayerColumns(4, 1); err == nil {
		t.Error("appending columns past the right edge was accepted")
	}

	if err := m.InsertTileLayerRows(0, 2); err != nil {
		t.Fatal(err)
	}
	if m.MapHeight() != 5 {
		t.Fatalf("map height after row insert = %d", m.MapHeight())
	}
	checkIntegrity(t, m)
	if layer.Tile(1, 3) != 77 {
		t.Error("row insert did not shift existing content down")
	}

	if err := m.RemoveTileLayerRows(0, 2); err != nil {
		t.Fatal(err)
	}
	checkIntegrity(t, m)
	if layer.Tile(1, 1) != 77 {
		t.Error("row removal did not restore the original layout")
	}

	if err := m.InsertTileLayerColumns(1, 1); err != nil {
		t.Fatal(err)
	}
	checkIntegrity(t, m)
	if m.MapLength() != 5 || layer.Tile(2, 1) != 77 {
		t.Error("column insert did not shift existing content right")
	}
	if err := m.RemoveTileLayerColumns(1, 1); err != nil {
		t.Fatal(err)
	}
	checkIntegrity(t, m)

	if err := m.RemoveTileLayerRows(0, 3); err == nil {
		t.Error("removing every row was accepted")
	}
	if err := m.RemoveTileLayerColumns(0, 4); err == nil {
		t.Error("removing every column was accepted")
	}
}

func TestRowColumnRangeOverflow(t *testing.T) {
	m := newTestMap(t, 4, 4)
	layer := m.SelectedTileLayer()
	layer.SetTile(1, 1, 77)

	huge := ^uint32(0)
	overflowOps := []struct {
		name string
		op   func() error
	}{
		{"RemoveTileLayerRows", func() error { return m.RemoveTileLayerRows(huge, 2) }},
		{"RemoveTileLayerRows", func() error { return m.RemoveTileLayerRows(2, huge) }},
		{"RemoveTileLayerColumns", func() error { return m.RemoveTileLayerColumns(huge, 2) }},
		{"RemoveTileLayerColumns", func() error { return m.RemoveTileLayerColumns(2, huge) }},
		{"InsertTileLayerRows", func() error { return m.InsertTileLayerRows(0, huge) }},
		{"InsertTileLayerColumns", func() error { return m.InsertTileLayerColumns(0, huge) }},
	}
	for _, c := range overflowOps {
		if err := c.op(); err == nil {
			t.Errorf("%s accepted a wrapping index or count", c.name)
		}
		if m.MapLength() != 4 || m.MapHeight() != 4 {
			t.Fatalf("%s mutated the map to %dx%d before failing", c.name, m.MapLength(), m.MapHeight())
		}
		checkIntegrity(t, m)
	}
	if layer.Tile(1, 1) != 77 {
		t.Error("rejected operations touched tile content")
	}
}

func TestTilesetManagement(t *testing.T) {
	m := newTestMap(t, 4, 4)

	if err := m.AddTileset(nil); err == nil {
		t.Error("nil tileset was accepted")
	}
	if err := m.AddTileset(&uninitializedTileset{stubTileset{file: "broken.atsd"}}); err == nil {
		t.Error("uninitialized tileset was accepted")
	}

	first := &stubTileset{file: "first.atsd"}
	second := &stubTileset{file: "second.atsd"}
	if err := m.AddTileset(first); err != nil {
		t.Fatal(err)
	}
	if err := m.AddTileset(first); err == nil {
		t.Error("adding the same tileset object twice was accepted")
	}
	if err := m.AddTileset(&stubTileset{file: "first.atsd"}); err == nil {
		t.Error("duplicate definition filename was accepted")
	}
	if err := m.AddTileset(second); err != nil {
		t.Fatal(err)
	}

	if err := m.MoveTilesetUp(0); err == nil {
		t.Error("moving the first tileset up did not fail")
	}
	if err := m.MoveTilesetDown(1); err == nil {
		t.Error("moving the last tileset down did not fail")
	}
	if err := m.MoveTilesetDown(0); err != nil {
		t.Fatal(err)
	}
	names := m.TilesetFilenames()
	if names[0] != "second.atsd" || names[1] != "first.atsd" {
		t.Errorf("tileset order after move: %v", names)
	}

	if err := m.RemoveTileset(5); err == nil {
		t.Error("removing a missing tileset index was accepted")
	}
	if err := m.RemoveTileset(0); err != nil {
		t.Fatal(err)
	}
	if m.TilesetCount() != 1 || m.TilesetFilenames()[0] != "first.atsd" {
		t.Errorf("tilesets after removal: %v", m.TilesetFilenames())
	}
}
