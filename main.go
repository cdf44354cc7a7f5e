package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-scenegeom/pkg/core"
	"github.com/df07/go-scenegeom/pkg/geometry"
	"github.com/df07/go-scenegeom/pkg/loaders"
	"github.com/df07/go-scenegeom/pkg/scene"
)

// pyramid on a unit square base, apex up the z axis
const defaultSceneSMF = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0.5 0.5 1
f 1 2 5
f 2 3 5
f 3 4 5
f 4 1 5
`

func main() {
	// Parse command line flags
	scenePath := flag.String("scene", "", "Path to a YAML scene description (built-in pyramid if empty)")
	probeOrigin := flag.String("probe-origin", "", "Probe ray origin as \"x y z\" (default: camera eye)")
	probeDir := flag.String("probe-dir", "", "Probe ray direction as \"x y z\" (default: camera view direction)")
	verbose := flag.Bool("v", false, "Log load diagnostics")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Scene geometry inspector")
		fmt.Println("Usage: scenegeom [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	var logger core.Logger = core.NopLogger{}
	if *verbose {
		logger = core.NewDefaultLogger()
	}

	s, err := createScene(*scenePath, logger)
	if err != nil {
		fmt.Printf("Error loading scene: %v\n", err)
		os.Exit(1)
	}

	describeScene(os.Stdout, s)

	ray, err := probeRay(s, *probeOrigin, *probeDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	probe(os.Stdout, s, ray)
}

// createScene builds the scene at path, or the built-in pyramid scene
func createScene(path string, logger core.Logger) (*scene.Scene, error) {
	var config *loaders.SceneConfig
	if path == "" {
		config = loaders.DefaultSceneConfig()
		config.Camera.Eye = loaders.Vec3Config{0.5, 0.25, 5}
		config.Lights = []loaders.LightConfig{{Location: loaders.Vec3Config{0, 0, 10}, Color: loaders.Vec3Config{1, 1, 1}}}
		config.Meshes = []loaders.MeshConfig{{Name: "pyramid", SMF: defaultSceneSMF}}
	} else {
		var err error
		if config, err = loaders.LoadSceneConfig(path); err != nil {
			return nil, err
		}
	}
	return scene.BuildFromConfig(config, logger)
}

func describeScene(w io.Writer, s *scene.Scene) {
	if cam := s.Camera(); cam != nil {
		fmt.Fprintf(w, "Camera: %v\n", cam)
	}
	for i, l := range s.Lights() {
		fmt.Fprintf(w, "Light %d: location %v color %v\n", i, l.Location, l.Color)
	}
	s.RunOnObjects(func(obj geometry.Object) {
		box := obj.BoundingBox()
		fmt.Fprintf(w, "Object %d: %s, %d parts, bounds %v - %v\n", obj.ID(), obj.TypeName(), geometry.NumParts(obj), box.Min, box.Max)
	})
	if box, ok := s.Bounds(); ok {
		fmt.Fprintf(w, "Scene bounds: %v - %v\n", box.Min, box.Max)
	}
}

// probeRay parses the probe flags, falling back to the camera's center ray
func probeRay(s *scene.Scene, origin, dir string) (core.Ray, error) {
	var ray core.Ray
	if cam := s.Camera(); cam != nil {
		ray = cam.CenterRay()
	}
	if origin != "" {
		o, err := core.ParseVec3(origin)
		if err != nil {
			return ray, fmt.Errorf("bad probe origin: %w", err)
		}
		ray.Origin = o
	}
	if dir != "" {
		d, err := core.ParseVec3(dir)
		if err != nil {
			return ray, fmt.Errorf("bad probe direction: %w", err)
		}
		ray.Direction = d
	}
	return ray, nil
}

func probe(w io.Writer, s *scene.Scene, ray core.Ray) {
	info := s.Hit(ray)
	hit, err := info.ClosestHit()
	if err != nil {
		fmt.Fprintf(w, "Probe %v -> %v: no hit\n", ray.Origin, ray.Direction)
		return
	}
	fmt.Fprintf(w, "Probe %v -> %v: object %d part %d at t=%.4f point %v normal %v\n",
		ray.Origin, ray.Direction, hit.Object.ID(), hit.Part, hit.T, hit.Point, hit.Normal)
}
