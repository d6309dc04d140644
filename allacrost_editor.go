package main

import (
	"flag"
	"log"

	"github.com/Cebion/allacrost/config"
	"github.com/Cebion/allacrost/mapdata"
	"github.com/Cebion/allacrost/mapimport"
	"github.com/Cebion/allacrost/utils"
	"github.com/Cebion/allacrost/web"

	// registers the tileset opener used by map loading
	_ "github.com/Cebion/allacrost/tileset"
)

func main() {
	var addr, mapFile, tmxFile, mapName, encoding, webPath string
	var mapLength, mapHeight uint
	var legacyText bool
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&mapFile, "map", "", "Path to a map file to open")
	flag.StringVar(&tmxFile, "tmx", "", "Path to a Tiled TMX map to import")
	flag.StringVar(&mapName, "name", "", "Name for a newly created map (random if empty)")
	flag.UintVar(&mapLength, "length", config.DEFAULT_MAP_LENGTH, "Length of a newly created map, in tiles")
	flag.UintVar(&mapHeight, "height", config.DEFAULT_MAP_HEIGHT, "Height of a newly created map, in tiles")
	flag.StringVar(&encoding, "encoding", "", "Charmap for text in legacy files (see -listencodings)")
	flag.BoolVar(&legacyText, "legacytext", false, "Decode TMX text through the legacy charmap")
	flag.StringVar(&webPath, "web", "web", "Path to the web view files")
	var listEncodings bool
	flag.BoolVar(&listEncodings, "listencodings", false, "Print supported legacy encodings and exit")
	flag.Parse()

	if listEncodings {
		for _, name := range config.ListLegacyEncodings() {
			log.Println(name)
		}
		return
	}
	if encoding != "" {
		if err := config.SetLegacyEncoding(encoding); err != nil {
			log.Fatal(err)
		}
	}

	var m *mapdata.MapData
	var err error

	switch {
	case tmxFile != "":
		m, err = mapimport.ImportTiledMap(tmxFile, legacyText)
	case mapFile != "":
		m = mapdata.NewMapData()
		err = m.LoadData(mapFile)
	default:
		m = mapdata.NewMapData()
		if err = m.CreateData(uint32(mapLength), uint32(mapHeight)); err == nil {
			if mapName == "" {
				var names utils.NameGenerator
				mapName = names.Suggest()
			}
			m.SetMapName(mapName)
		}
	}

	if err != nil {
		log.Fatal(err)
	}

	log.Printf("[editor] opened map %q (%dx%d, %d layers, %d contexts)",
		m.MapName(), m.MapLength(), m.MapHeight(), m.TileLayerCount(), m.TileContextCount())

	if err := web.StartServer(addr, m, webPath); err != nil {
		log.Fatal(err)
	}
}
