package dashboard

import "fmt"

const bannerURLFormat = "https://3icecream.com/img/banners/%s.jpg"

var borderColors = map[Difficulty]string{
	BSP: "yellow",
	DSP: "red",
	ESP: "#33bb33",
	CSP: "#dd33dd",
}

// Tile holds what the grid needs to draw one chart.
type Tile struct {
	Key         string
	Href        string
	ImageURL    string
	Alt         string
	BorderColor string
}

func TileFor(r Row) Tile {
	color, ok := borderColors[r.Difficulty]
	if !ok {
		color = borderColors[BSP]
	}
	return Tile{
		Key:         r.ID + string(r.Difficulty),
		Href:        r.YouTubeURL,
		ImageURL:    fmt.Sprintf(bannerURLFormat, r.ID),
		Alt:         r.Title,
		BorderColor: color,
	}
}

func Tiles(rows []Row) []Tile {
	out := make([]Tile, len(rows))
	for i, r := range rows {
		out[i] = TileFor(r)
	}
	return out
}
