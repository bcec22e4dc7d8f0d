package server

import (
	"fmt"
	"strconv"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/tierscope/tierscope/pkg/dashboard"
)

const gridID = "grid-container"

func PageLayout(title string, content g.Node) g.Node {
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Head(
				Meta(Charset("UTF-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(title)),
				Script(Src("https://cdn.tailwindcss.com")),
				Script(Src("https://unpkg.com/htmx.org@2.0.4")),
			),
			Body(Class("bg-slate-950 font-sans antialiased flex flex-col min-h-screen text-slate-300"),
				content,
			),
		),
	})
}

func dashboardContent(v view) g.Node {
	return Main(Class("container mx-auto mt-8 mb-20 px-2 sm:px-4"),
		H1(Class("text-2xl md:text-3xl font-bold text-white mb-6"), g.Text("Chart tiers")),
		controls(v),
		Div(ID(gridID), gridContent(v)),
	)
}

func controls(v view) g.Node {
	inputClass := "px-3 py-2 border border-slate-700 rounded-lg bg-slate-800/50 text-slate-200"

	ratingOptions := []g.Node{
		Option(Value("all"), g.Text("All ratings"), g.If(v.Filter.Rating == nil, Selected())),
	}
	for _, rating := range v.Ratings {
		label := strconv.FormatFloat(rating, 'f', -1, 64)
		ratingOptions = append(ratingOptions,
			Option(Value(label), g.Text(label), g.If(v.Filter.Rating != nil && *v.Filter.Rating == rating, Selected())),
		)
	}

	sortOptions := make([]g.Node, 0, len(dashboard.SortKeys))
	for _, key := range dashboard.SortKeys {
		sortOptions = append(sortOptions,
			Option(Value(string(key)), g.Text(string(key)), g.If(v.Sort.Key == key, Selected())),
		)
	}

	return Form(ID("controls"), Method("GET"), Action("/"),
		Class("flex flex-wrap gap-3 items-center mb-6"),
		g.Attr("hx-get", "/"),
		g.Attr("hx-target", "#"+gridID),
		g.Attr("hx-push-url", "true"),
		g.Attr("hx-trigger", "change, input changed delay:300ms from:input[name='search'], submit"),
		Input(Type("text"), Name("search"), Value(v.Filter.Search), Placeholder("Search titles..."), Class(inputClass)),
		Select(Name("rating"), Class(inputClass), g.Group(ratingOptions)),
		Input(Type("number"), Name("minScore"), Value(formatScore(v.Filter.MinScore)),
			g.Attr("min", "0"), g.Attr("max", strconv.Itoa(dashboard.MaxScore)), Class(inputClass)),
		Input(Type("number"), Name("maxScore"), Value(formatScore(v.Filter.MaxScore)),
			g.Attr("min", "0"), g.Attr("max", strconv.Itoa(dashboard.MaxScore)), Class(inputClass)),
		Label(Class("flex items-center gap-2"),
			Input(Type("checkbox"), Name("omni"), Value("1"), g.If(v.Filter.IncludeNegativeTier, Checked())),
			g.Text("Show omni"),
		),
		Select(Name("sortBy"), Class(inputClass), g.Group(sortOptions)),
		Select(Name("sortOrder"), Class(inputClass),
			Option(Value(string(dashboard.Ascending)), g.Text("asc"), g.If(v.Sort.Direction == dashboard.Ascending, Selected())),
			Option(Value(string(dashboard.Descending)), g.Text("desc"), g.If(v.Sort.Direction == dashboard.Descending, Selected())),
		),
		Button(Type("button"),
			Class("px-4 py-2 bg-cyan-600 text-white rounded-lg hover:bg-cyan-500"),
			g.Attr("hx-post", "/refresh"),
			g.Attr("hx-target", "#"+gridID),
			g.Attr("hx-include", "#controls"),
			g.Text("Refresh"),
		),
	)
}

// gridContent is what htmx swaps into the grid container.
func gridContent(v view) g.Node {
	if v.LoadErr != nil {
		return Div(Class("bg-red-900/20 border border-red-800/50 text-red-400 px-4 py-3 rounded-lg mb-6"),
			Strong(g.Text("Error: ")),
			g.Text("Could not load chart data. "+v.LoadErr.Error()),
		)
	}

	tiles := dashboard.Tiles(v.Rows)
	nodes := make([]g.Node, len(tiles))
	for i, t := range tiles {
		nodes[i] = tile(t)
	}

	return g.Group([]g.Node{
		P(Class("text-sm text-slate-400 mb-4"),
			g.Text(fmt.Sprintf("Showing %d of %d charts.", len(v.Rows), v.Total)),
		),
		Div(Class("grid grid-cols-2 sm:grid-cols-4 md:grid-cols-6 lg:grid-cols-8 gap-2"), g.Group(nodes)),
	})
}

func tile(t dashboard.Tile) g.Node {
	img := Img(Src(t.ImageURL), Alt(t.Alt), g.Attr("loading", "lazy"),
		Class("w-full rounded"),
		Style("border: 3px solid "+t.BorderColor),
	)
	if t.Href == "" {
		return Div(g.Attr("data-key", t.Key), g.Attr("title", t.Alt), img)
	}
	return A(Href(t.Href), g.Attr("target", "_blank"), Rel("noopener"), g.Attr("data-key", t.Key), g.Attr("title", t.Alt), img)
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
