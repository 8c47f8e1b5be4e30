package viewer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/janpfeifer/TriMatch/internal/deck"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// PageURL is where the preview server serves one side of a sheet.
func PageURL(page int, side string) string {
	return fmt.Sprintf("/pages/%d/%s", page, side)
}

// Gallery lists the sheets and the solution of the current deck.
type Gallery struct {
	app.Compo
	SeedInput string
}

func (g *Gallery) OnMount(ctx app.Context) {
	klog.V(1).Infof("Gallery: OnMount called")
	if app.IsServer {
		return
	}
	State.AddListener("gallery", func() {
		ctx.Dispatch(func(ctx app.Context) {})
	})
}

func (g *Gallery) OnDismount() {
	State.RemoveListener("gallery")
}

func (g *Gallery) OnNav(ctx app.Context) {
	if app.IsServer {
		return
	}
	if State.Conn() == nil {
		if err := State.ConnectWS(); err != nil {
			State.SetError(fmt.Sprintf("Failed to connect to server: %v", err))
		}
	}
}

func (g *Gallery) OnAppUpdate(ctx app.Context) {
	klog.Infof("Gallery component: App update available, reloading...")
	ctx.Reload()
}

func (g *Gallery) onSeedChange(ctx app.Context, e app.Event) {
	g.SeedInput = ctx.JSSrc().Get("value").String()
}

func (g *Gallery) onRegenerate(ctx app.Context, e app.Event) {
	e.PreventDefault()
	seed, err := strconv.ParseInt(strings.TrimSpace(g.SeedInput), 10, 64)
	if err != nil {
		State.SetError(fmt.Sprintf("Invalid seed %q", g.SeedInput))
		return
	}
	ctx.Async(func() { State.SendGenerate(seed) })
}

func (g *Gallery) Render() app.UI {
	summary, errMsg := State.Snapshot()

	body := []app.UI{
		app.Nav().Body(
			app.Ul().Body(app.Li().Body(app.Strong().Text("TriMatch"))),
			app.Ul().Body(app.Li().Body(app.A().Href("/solution.tsv").Text("solution.tsv"))),
		),
		app.Form().OnSubmit(g.onRegenerate).Body(
			app.Label().For("seed").Text("Seed"),
			app.Input().
				Type("number").
				ID("seed").
				Name("seed").
				Placeholder("e.g. 123").
				Value(g.SeedInput).
				OnInput(g.onSeedChange),
			app.Button().Type("submit").Text("Regenerate"),
		),
	}
	if errMsg != "" {
		body = append(body, app.P().Class("error").Text(errMsg))
	}
	if summary == nil {
		body = append(body, app.P().Text("Waiting for the deck..."))
		return app.Main().Class("container").Body(body...)
	}

	header := fmt.Sprintf("%d participants, %d sheets, seed %d", summary.Participants, summary.Pages, summary.Seed)
	article := []app.UI{app.Header().Body(app.Span().Text(header))}
	if summary.Dropped > 0 {
		article = append(article, app.P().Class("warning").Text(
			fmt.Sprintf("%d participants were left out to make groups of 4.", summary.Dropped)))
	}
	body = append(body, app.Article().Body(article...))
	body = append(body, g.renderSheets(summary.Pages), g.renderSolution(summary.Solution))
	return app.Main().Class("container").Body(body...)
}

func (g *Gallery) renderSheets(pages int) app.UI {
	sheets := make([]app.UI, 0, pages)
	for n := 1; n <= pages; n++ {
		sides := make([]app.UI, 0, 2)
		for _, side := range []string{"front", "back"} {
			sides = append(sides, app.A().Href(PageURL(n, side)).Body(
				app.Img().
					Src(PageURL(n, side)).
					Alt(fmt.Sprintf("Sheet %d (%s)", n, side)).
					Style("width", "45%").
					Style("margin", "2%"),
			))
		}
		sheets = append(sheets, app.Article().Body(
			app.Header().Text(fmt.Sprintf("Sheet %d", n)),
			app.Div().Body(sides...),
		))
	}
	return app.Div().Class("sheets").Body(sheets...)
}

func (g *Gallery) renderSolution(solution deck.Solution) app.UI {
	rows := make([]app.UI, 0, len(solution))
	for _, quad := range solution {
		rows = append(rows, app.Li().Text(fmt.Sprintf("%d, %d, %d, %d", quad[0], quad[1], quad[2], quad[3])))
	}
	return app.Article().Body(
		app.Header().Text("Solution"),
		app.Ol().Body(rows...),
	)
}
