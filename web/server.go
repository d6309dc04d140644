// Package web exposes the map data model to the editor view over HTTP. Query
// endpoints return JSON snapshots of the model; action endpoints map onto the
// MapData mutation API. The model itself is single-threaded, so every handler
// runs under one lock.
package web

import (
	"log"
	"net/http"
	"os"
	"path"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/Cebion/allacrost/mapdata"
)

var serverData *mapdata.MapData
var serverLock sync.Mutex

func StartServer(addr string, m *mapdata.MapData, webPath string) error {
	serverData = m

	r := mux.NewRouter()
	r.HandleFunc("/json/map", HandlerMapInfo)
	r.HandleFunc("/json/map/layers", HandlerLayerList)
	r.HandleFunc("/json/map/contexts", HandlerContextList)
	r.HandleFunc("/json/map/tilesets", HandlerTilesetList)
	r.HandleFunc("/json/map/collision", HandlerCollisionGrid)
	r.HandleFunc("/json/map/context/{id}/layer/{index}", HandlerLayerTiles)
	r.HandleFunc("/json/namesuggestion", HandlerNameSuggestion)
	r.HandleFunc("/dump/map", HandlerDumpMap)
	r.HandleFunc("/ws/status", HandlerStatusWebsocket)

	r.HandleFunc("/action/map/save", HandlerMapSave)
	r.HandleFunc("/action/map/resize", HandlerMapResize)
	r.HandleFunc("/action/layer/add", HandlerLayerAdd)
	r.HandleFunc("/action/layer/delete", HandlerLayerDelete)
	r.HandleFunc("/action/layer/clone", HandlerLayerClone)
	r.HandleFunc("/action/layer/rename", HandlerLayerRename)
	r.HandleFunc("/action/layer/swap", HandlerLayerSwap)
	r.HandleFunc("/action/layer/visibility", HandlerLayerVisibility)
	r.HandleFunc("/action/layer/collision", HandlerLayerCollision)
	r.HandleFunc("/action/layer/rows/insert", HandlerLayerRowsInsert)
	r.HandleFunc("/action/layer/rows/remove", HandlerLayerRowsRemove)
	r.HandleFunc("/action/layer/columns/insert", HandlerLayerColumnsInsert)
	r.HandleFunc("/action/layer/columns/remove", HandlerLayerColumnsRemove)
	r.HandleFunc("/action/context/add", HandlerContextAdd)
	r.HandleFunc("/action/context/delete", HandlerContextDelete)
	r.HandleFunc("/action/context/clone", HandlerContextClone)
	r.HandleFunc("/action/context/rename", HandlerContextRename)
	r.HandleFunc("/action/context/inherit", HandlerContextInherit)
	r.HandleFunc("/action/context/swap", HandlerContextSwap)
	r.HandleFunc("/action/tileset/add", HandlerTilesetAdd)
	r.HandleFunc("/action/tileset/remove", HandlerTilesetRemove)
	r.HandleFunc("/action/tileset/move", HandlerTilesetMove)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))

	h := handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler()(r))

	log.Printf("[web] starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
