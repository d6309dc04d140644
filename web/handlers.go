package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/Cebion/allacrost/mapdata"
	"github.com/Cebion/allacrost/status"
	"github.com/Cebion/allacrost/tileset"
	"github.com/Cebion/allacrost/utils"
	"github.com/Cebion/allacrost/webutils"
)

var nameSuggestions utils.NameGenerator

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// runAction executes one mutation under the model lock, reports failures to
// the status channel, and answers the request.
func runAction(w http.ResponseWriter, operation string, action func() error) {
	serverLock.Lock()
	err := action()
	serverLock.Unlock()
	if err != nil {
		status.Error(operation, "%v", err)
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, map[string]bool{"ok": true})
}

func HandlerMapInfo(w http.ResponseWriter, r *http.Request) {
	serverLock.Lock()
	defer serverLock.Unlock()
	webutils.WriteJson(w, map[string]interface{}{
		"filename":    serverData.MapFilename(),
		"name":        serverData.MapName(),
		"designers":   serverData.Designers(),
		"description": serverData.Description(),
		"length":      serverData.MapLength(),
		"height":      serverData.MapHeight(),
		"modified":    serverData.IsModified(),
		"layers":      serverData.TileLayerCount(),
		"contexts":    serverData.TileContextCount(),
	})
}

func HandlerLayerList(w http.ResponseWriter, r *http.Request) {
	type jLayer struct {
		Name      string `json:"name"`
		Visible   bool   `json:"visible"`
		Collision bool   `json:"collision"`
	}
	serverLock.Lock()
	defer serverLock.Unlock()
	layers := make([]jLayer, 0, serverData.TileLayerCount())
	for _, props := range serverData.AllTileLayerProperties() {
		layers = append(layers, jLayer{
			Name:      props.Name(),
			Visible:   props.IsVisible(),
			Collision: props.IsCollisionEnabled(),
		})
	}
	webutils.WriteJson(w, layers)
}

func HandlerContextList(w http.ResponseWriter, r *http.Request) {
	type jContext struct {
		ID           int32  `json:"id"`
		Name         string `json:"name"`
		Inherits     int32  `json:"inherits"`
		InheritsName string `json:"inheritsName,omitempty"`
	}
	serverLock.Lock()
	defer serverLock.Unlock()
	inheritedNames := serverData.InheritedTileContextNames()
	contexts := make([]jContext, 0, serverData.TileContextCount())
	for i := uint32(0); i < serverData.TileContextCount(); i++ {
		context := serverData.FindTileContextByIndex(i)
		contexts = append(contexts, jContext{
			ID:           context.ID(),
			Name:         context.Name(),
			Inherits:     context.InheritedContextID(),
			InheritsName: inheritedNames[i],
		})
	}
	webutils.WriteJson(w, contexts)
}

func HandlerTilesetList(w http.ResponseWriter, r *http.Request) {
	serverLock.Lock()
	defer serverLock.Unlock()
	webutils.WriteJson(w, serverData.TilesetFilenames())
}

func HandlerCollisionGrid(w http.ResponseWriter, r *http.Request) {
	serverLock.Lock()
	defer serverLock.Unlock()
	webutils.WriteJson(w, serverData.CollisionData())
}

func HandlerLayerTiles(w http.ResponseWriter, r *http.Request) {
	id, errID := strconv.Atoi(mux.Vars(r)["id"])
	index, errIndex := strconv.Atoi(mux.Vars(r)["index"])
	if errID != nil || errIndex != nil || index < 0 {
		webutils.WriteError(w, errors.Errorf("invalid context ID or layer index"))
		return
	}

	serverLock.Lock()
	defer serverLock.Unlock()
	context := serverData.FindTileContextByID(int32(id))
	if context == nil {
		webutils.WriteError(w, errors.Errorf("context ID %d does not exist", id))
		return
	}
	layer := context.TileLayer(uint32(index))
	if layer == nil {
		webutils.WriteError(w, errors.Errorf("layer index %d does not exist", index))
		return
	}

	tiles := make([][]int32, layer.Height())
	for y := uint32(0); y < layer.Height(); y++ {
		tiles[y] = make([]int32, layer.Length())
		for x := uint32(0); x < layer.Length(); x++ {
			tiles[y][x] = layer.Tile(x, y)
		}
	}
	webutils.WriteJson(w, tiles)
}

func HandlerNameSuggestion(w http.ResponseWriter, r *http.Request) {
	serverLock.Lock()
	nameSuggestions.Reserve(serverData.TileContextNames())
	nameSuggestions.Reserve(serverData.TileLayerNames())
	serverLock.Unlock()
	webutils.WriteJson(w, map[string]string{"name": nameSuggestions.Suggest()})
}

func HandlerDumpMap(w http.ResponseWriter, r *http.Request) {
	serverLock.Lock()
	defer serverLock.Unlock()
	webutils.WriteText(w, utils.SDump(serverData))
}

func HandlerStatusWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "websocket upgrade failed"))
		return
	}
	status.NewClient(conn)
}

func HandlerMapSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "map.save", func() error {
		if req.Filename != "" {
			return serverData.SaveDataAs(req.Filename)
		}
		return serverData.SaveData()
	})
}

func HandlerMapResize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Length uint32 `json:"length"`
		Height uint32 `json:"height"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "map.resize", func() error {
		return serverData.ResizeMap(req.Length, req.Height)
	})
}

func HandlerLayerAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		Collision bool   `json:"collision"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "layer.add", func() error {
		return serverData.AddTileLayer(req.Name, req.Collision)
	})
}

func HandlerLayerDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index uint32 `json:"index"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "layer.delete", func() error {
		return serverData.DeleteTileLayer(req.Index)
	})
}

func HandlerLayerClone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index uint32 `json:"index"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "layer.clone", func() error {
		return serverData.CloneTileLayer(req.Index)
	})
}

func HandlerLayerRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index uint32 `json:"index"`
		Name  string `json:"name"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "layer.rename", func() error {
		return serverData.RenameTileLayer(req.Index, req.Name)
	})
}

func HandlerLayerSwap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		First  uint32 `json:"first"`
		Second uint32 `json:"second"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "layer.swap", func() error {
		return serverData.SwapTileLayers(req.First, req.Second)
	})
}

func HandlerLayerVisibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index   uint32 `json:"index"`
		Visible bool   `json:"visible"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "layer.visibility", func() error {
		if req.Visible {
			return serverData.ShowTileLayer(req.Index)
		}
		return serverData.HideTileLayer(req.Index)
	})
}

func HandlerLayerCollision(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index   uint32 `json:"index"`
		Enabled bool   `json:"enabled"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "layer.collision", func() error {
		if req.Enabled {
			return serverData.EnableTileLayerCollision(req.Index)
		}
		return serverData.DisableTileLayerCollision(req.Index)
	})
}

func HandlerLayerRowsInsert(w http.ResponseWriter, r *http.Request) {
	handleRowColumnAction(w, r, "layer.rows.insert", func(index, count uint32) error {
		return serverData.InsertTileLayerRows(index, count)
	})
}

func HandlerLayerRowsRemove(w http.ResponseWriter, r *http.Request) {
	handleRowColumnAction(w, r, "layer.rows.remove", func(index, count uint32) error {
		return serverData.RemoveTileLayerRows(index, count)
	})
}

func HandlerLayerColumnsInsert(w http.ResponseWriter, r *http.Request) {
	handleRowColumnAction(w, r, "layer.columns.insert", func(index, count uint32) error {
		return serverData.InsertTileLayerColumns(index, count)
	})
}

func HandlerLayerColumnsRemove(w http.ResponseWriter, r *http.Request) {
	handleRowColumnAction(w, r, "layer.columns.remove", func(index, count uint32) error {
		return serverData.RemoveTileLayerColumns(index, count)
	})
}

func handleRowColumnAction(w http.ResponseWriter, r *http.Request, operation string, action func(index, count uint32) error) {
	var req struct {
		Index uint32 `json:"index"`
		Count uint32 `json:"count"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}
	runAction(w, operation, func() error {
		return action(req.Index, req.Count)
	})
}

func HandlerContextAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Inherits *int32 `json:"inherits"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	inherits := mapdata.INVALID_CONTEXT
	if req.Inherits != nil {
		inherits = *req.Inherits
	}
	runAction(w, "context.add", func() error {
		_, err := serverData.AddTileContext(req.Name, inherits)
		return err
	})
}

func HandlerContextDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int32 `json:"id"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "context.delete", func() error {
		return serverData.DeleteTileContext(req.ID)
	})
}

func HandlerContextClone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int32 `json:"id"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "context.clone", func() error {
		_, err := serverData.CloneTileContext(req.ID)
		return err
	})
}

func HandlerContextRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   int32  `json:"id"`
		Name string `json:"name"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "context.rename", func() error {
		return serverData.RenameTileContext(req.ID, req.Name)
	})
}

func HandlerContextInherit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       int32 `json:"id"`
		Inherits int32 `json:"inherits"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "context.inherit", func() error {
		return serverData.ChangeInheritanceTileContext(req.ID, req.Inherits)
	})
}

func HandlerContextSwap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		First  int32 `json:"first"`
		Second int32 `json:"second"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "context.swap", func() error {
		return serverData.SwapTileContexts(req.First, req.Second)
	})
}

func HandlerTilesetAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Definition string `json:"definition"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "tileset.add", func() error {
		ts, err := tileset.Open(req.Definition)
		if err != nil {
			return err
		}
		return serverData.AddTileset(ts)
	})
}

func HandlerTilesetRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index uint32 `json:"index"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "tileset.remove", func() error {
		return serverData.RemoveTileset(req.Index)
	})
}

func HandlerTilesetMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index uint32 `json:"index"`
		Up    bool   `json:"up"`
	}
	if err := webutils.ReadJsonPost(r, &req); err != nil {
		webutils.WriteError(w, err)
		return
	}
	runAction(w, "tileset.move", func() error {
		if req.Up {
			return serverData.MoveTilesetUp(req.Index)
		}
		return serverData.MoveTilesetDown(req.Index)
	})
}
