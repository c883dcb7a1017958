package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/mogaika/meshview/catalog"
	"github.com/mogaika/meshview/config"
	"github.com/mogaika/meshview/loader"
	"github.com/mogaika/meshview/panel"
	"github.com/mogaika/meshview/scene"
	"github.com/mogaika/meshview/status"
	"github.com/mogaika/meshview/vfs"
	"github.com/mogaika/meshview/view"
	"github.com/mogaika/meshview/web"
	"github.com/mogaika/meshview/xr"
)

func main() {
	var addr, catalogPath, root, webPath, encoding, xrsession string
	flag.StringVar(&addr, "i", config.DefaultAddr, "Address of server")
	flag.StringVar(&catalogPath, "catalog", "", "Path to catalog yaml, embedded demo catalog if empty")
	flag.StringVar(&root, "root", config.DefaultMeshRoot, "Directory local mesh urls are relative to")
	flag.StringVar(&webPath, "web", config.DefaultWebPath, "Path to web viewer files")
	flag.StringVar(&encoding, "encoding", "", "Text encoding of obj files: "+strings.Join(config.ListEncodings(), ", "))
	flag.StringVar(&xrsession, "xrsession", config.DefaultXRSession, "Requested AR session: mobile-ar or hmd-ar")
	flag.Parse()

	if err := config.SetEncoding(encoding); err != nil {
		log.Fatal(err)
	}
	session, err := xr.ParseSessionType(xrsession)
	if err != nil {
		log.Fatal(err)
	}

	var cat catalog.Catalog
	if catalogPath != "" {
		cat, err = catalog.Load(catalogPath)
	} else {
		cat, err = catalog.Parse(config.DefaultCatalog())
	}
	if err != nil {
		log.Fatal(err)
	}
	for _, d := range cat {
		if d.Color.Oversaturated() {
			log.Printf("[catalog] resource %d %q color %v is outside [0,1], passing as is", d.Index, d.URL, d.Color)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	hub := status.NewHub()
	renderer := view.NewRenderer(hub)
	sc := scene.New(len(cat), renderer)
	go sc.Run(ctx)

	p := panel.Generate(cat)
	helper := xr.NewRemoteHelper(hub, status.KindXR)
	p.SetXR(xr.NewARToggle(helper, session), xr.NewVRToggle(helper))
	binder := panel.Bind(p, sc)
	binder.SetSupportReporter(helper)

	pipeline := loader.NewPipeline(loader.NewResolver(vfs.NewDirectoryDriver(root)), loader.MeshDecoder{}, sc)
	pipeline.OnProgress = func(done, total int, d catalog.Descriptor, err error) {
		if err != nil {
			hub.Error("Failed to load %s: %v", d.Label(), err)
		}
		hub.Progress(float32(done)/float32(total), "Loaded %d of %d meshes", done, total)
	}
	pipeline.Start(ctx, cat)
	hub.Info("Loading %d meshes", len(cat))

	s := &web.Server{
		Catalog:  cat,
		Registry: sc.Registry(),
		Panel:    p,
		Binder:   binder,
		Renderer: renderer,
		Hub:      hub,
		WebPath:  webPath,
	}
	if err := s.ListenAndServe(ctx, addr); err != nil {
		log.Fatal(err)
	}
}
