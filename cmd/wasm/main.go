package main

import (
	"flag"
	"os"

	"github.com/janpfeifer/TriMatch/internal/viewer"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

func main() {
	// Initialize klog for WASM, forcing logs to stderr (console)
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	fs.Set("logtostderr", "true")
	klog.SetOutput(os.Stderr)
	klog.Infof("WASM started!")

	app.Route("/", func() app.Composer { return &viewer.Gallery{} })
	app.Route("/deck", func() app.Composer { return &viewer.Gallery{} })

	viewer.InitState()

	// When building for WEB (GOOS=js GOARCH=wasm), app.RunWhenOnBrowser() executes the frontend logic
	app.RunWhenOnBrowser()
}
