package main

import (
	"fmt"
	"math"

	"github.com/akmonengine/bvcull"
	"github.com/akmonengine/bvcull/asset"
	"github.com/akmonengine/bvcull/frustum"
	"github.com/akmonengine/bvcull/volume"
	"github.com/go-gl/mathgl/mgl64"
)

// SetupScene creates a row of long planks, each turned about y, in front of
// the camera.
func SetupScene() (*bvcull.Scene, *bvcull.Batcher, error) {
	// a 4x0.5x0.5 plank
	positions := []mgl64.Vec3{
		{-2, -0.25, -0.25}, {2, -0.25, -0.25}, {2, 0.25, -0.25}, {-2, 0.25, -0.25},
		{-2, -0.25, 0.25}, {2, -0.25, 0.25}, {2, 0.25, 0.25}, {-2, 0.25, 0.25},
	}
	indices := []uint32{
		0, 2, 1, 0, 3, 2,
		4, 5, 6, 4, 6, 7,
		0, 1, 5, 0, 5, 4,
		3, 7, 6, 3, 6, 2,
		0, 4, 7, 0, 7, 3,
		1, 2, 6, 1, 6, 5,
	}
	plank, err := asset.NewModel("plank", positions, indices)
	if err != nil {
		return nil, nil, err
	}

	batcher := bvcull.NewBatcher()
	scene := bvcull.NewScene(bvcull.NewCuller(bvcull.SchemeOBB, true), batcher)
	scene.Workers = 4

	for i := -10; i <= 10; i++ {
		transform := volume.NewTransform()
		transform.Position = mgl64.Vec3{float64(i) * 3, 0, -15}
		transform.Rotation = mgl64.QuatRotate(float64(i)*0.3, mgl64.Vec3{0, 1, 0})
		scene.AddObject(bvcull.NewRenderContext(plank, transform))
	}

	return scene, batcher, nil
}

// TestCameraSweep pans the camera across the row and prints what enters and
// leaves the view.
func TestCameraSweep() {
	fmt.Println("Camera sweep over a row of planks")
	fmt.Println("=================================")

	scene, batcher, err := SetupScene()
	if err != nil {
		fmt.Printf("setup failed: %v\n", err)
		return
	}

	index := make(map[*bvcull.RenderContext]int, len(scene.Objects))
	for i, obj := range scene.Objects {
		index[obj] = i
	}

	scene.Events.Subscribe(bvcull.ENTER_VIEW, func(event bvcull.Event) {
		e := event.(bvcull.EnterViewEvent)
		fmt.Printf("  object %2d enters (%v)\n", index[e.Object], e.Result)
	})
	scene.Events.Subscribe(bvcull.EXIT_VIEW, func(event bvcull.Event) {
		e := event.(bvcull.ExitViewEvent)
		fmt.Printf("  object %2d exits\n", index[e.Object])
	})

	const frames = 24
	var total bvcull.FrameStats
	for frame := 0; frame < frames; frame++ {
		angle := (float64(frame)/float64(frames-1) - 0.5) * math.Pi / 2
		eye := mgl64.Vec3{0, 1, 0}
		target := eye.Add(mgl64.Vec3{math.Sin(angle), 0, -math.Cos(angle)})
		cam := frustum.NewCamera(eye, target, mgl64.DegToRad(45), 16.0/9.0, 0.1, 40)
		f := cam.Frustum()

		fmt.Printf("--- FRAME %d (yaw %.1f°) ---\n", frame+1, mgl64.RadToDeg(angle))
		batcher.Reset()
		stats := scene.Frame(&f)
		total.Add(stats)

		fmt.Printf("  visible %d/%d, %d batches, %.2f plane evals per object\n",
			stats.Rendered, stats.Requested, len(batcher.Batches()), stats.AvgPlaneTests())

		obj, _, dist := scene.Pick(volume.Ray{Origin: eye, Direction: target.Sub(eye).Normalize()})
		if obj != nil {
			fmt.Printf("  center of view: object %d at %.2f\n", index[obj], dist)
		}
	}

	fmt.Println()
	fmt.Print(total.Table(scene.Culler))
}

func main() {
	TestCameraSweep()
}
