package mapdata

import "testing"

func TestCollisionGridDimensions(t *testing.T) {
	m := newTestMap(t, 10, 6)
	grid := m.CollisionData()
	if len(grid) != 12 {
		t.Fatalf("collision grid has %d rows; expected 12", len(grid))
	}
	for y, row := range grid {
		if len(row) != 20 {
			t.Fatalf("collision row %d has %d cells; expected 20", y, len(row))
		}
	}

	m.DestroyData()
	if m.CollisionData() != nil {
		t.Error("collision grid survived DestroyData")
	}
}

func TestCollisionFromTileQuadrants(t *testing.T) {
	m := newTestMap(t, 10, 10)
	// Tile 5 blocks its northwest and southeast quadrants, tile 6 blocks
	// everything.
	m.AddTileset(&stubTileset{
		file: "town.atsd",
		collisions: map[int32]uint8{
			5: COLLISION_NW | COLLISION_SE,
			6: COLLISION_NW | COLLISION_NE | COLLISION_SW | COLLISION_SE,
		},
	})

	night, err := m.AddTileContext("Night", INVALID_CONTEXT)
	if err != nil {
		t.Fatal(err)
	}

	base := m.FindTileContextByID(1)
	base.TileLayer(0).SetTile(2, 2, 5)
	night.TileLayer(0).SetTile(7, 3, 6)
	m.RecomputeCollisionData()

	grid := m.CollisionData()
	// Tile (2,2) on the base context (bit 0): NW at (4,4), SE at (5,5).
	if grid[4][4]&1 == 0 || grid[5][5]&1 == 0 {
		t.Error("base context quadrants not set at tile (2,2)")
	}
	if grid[4][5]&1 != 0 || grid[5][4]&1 != 0 {
		t.Error("unblocked quadrants of tile (2,2) are set")
	}
	if grid[4][4]&2 != 0 {
		t.Error("tile placed only on the base context leaked into the second context")
	}
	// Tile (7,3) on the second context (bit 1): all four quadrants.
	for _, cell := range []struct{ y, x int }{{6, 14}, {6, 15}, {7, 14}, {7, 15}} {
		if grid[cell.y][cell.x]&2 == 0 {
			t.Errorf("second context quadrant (%d,%d) not set", cell.y, cell.x)
		}
		if grid[cell.y][cell.x]&1 != 0 {
			t.Errorf("second context tile leaked into the base context at (%d,%d)", cell.y, cell.x)
		}
	}
}

func TestCollisionIgnoresDisabledLayers(t *testing.T) {
	m := newTestMap(t, 4, 4)
	m.AddTileset(&stubTileset{
		file:       "town.atsd",
		collisions: map[int32]uint8{0: COLLISION_NW},
	})
	if err := m.AddTileLayer("Decoration", true); err != nil {
		t.Fatal(err)
	}

	base := m.FindTileContextByID(1)
	base.TileLayer(0).SetTile(0, 0, 0)
	base.TileLayer(1).SetTile(1, 1, 0)
	m.RecomputeCollisionData()

	grid := m.CollisionData()
	if grid[0][0]&1 == 0 || grid[2][2]&1 == 0 {
		t.Fatal("expected both layers to contribute collision")
	}

	// Disabling the second layer must remove exactly its contribution.
	if err := m.DisableTileLayerCollision(1); err != nil {
		t.Fatal(err)
	}
	grid = m.CollisionData()
	if grid[0][0]&1 == 0 {
		t.Error("first layer's contribution was lost")
	}
	if grid[2][2]&1 != 0 {
		t.Error("disabled layer still contributes collision")
	}
}

func TestCollisionSentinelTiles(t *testing.T) {
	m := newTestMap(t, 2, 2)
	m.AddTileset(&stubTileset{
		file:       "town.atsd",
		collisions: map[int32]uint8{0: COLLISION_NW},
	})

	base := m.FindTileContextByID(1)
	base.TileLayer(0).SetTile(0, 0, NO_TILE)
	base.TileLayer(0).SetTile(1, 0, INHERITED_TILE)
	// value pointing past the last tileset
	base.TileLayer(0).SetTile(0, 1, TILES_PER_TILESET+3)
	m.RecomputeCollisionData()

	for _, row := range m.CollisionData() {
		for _, cell := range row {
			if cell != 0 {
				t.Fatalf("sentinel or out-of-range tiles produced collision: %v", m.CollisionData())
			}
		}
	}
}
