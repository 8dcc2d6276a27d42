// Avatar still - renders a single avatar frame for a given pose and expression
// Useful for checking palette and geometry changes without a camera
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/teslashibe/go-vtuber/pkg/avatar"
	"github.com/teslashibe/go-vtuber/pkg/canvas"
	"github.com/teslashibe/go-vtuber/pkg/expression"
	"github.com/teslashibe/go-vtuber/pkg/pose"
	"gocv.io/x/gocv"
)

func main() {
	pitch := flag.Float64("pitch", 0, "Head pitch in degrees")
	yaw := flag.Float64("yaw", 0, "Head yaw in degrees")
	roll := flag.Float64("roll", 0, "Head roll in degrees")
	ear := flag.Float64("ear", expression.NeutralEar, "Eye aspect ratio for both eyes")
	mar := flag.Float64("mar", 0, "Mouth aspect ratio")
	output := flag.String("o", "avatar.png", "Output image path")
	flag.Parse()

	p := pose.Pose{Pitch: *pitch, Yaw: *yaw, Roll: *roll}.Clamped()

	empty := gocv.NewMat()
	defer empty.Close()

	img := canvas.NewRenderer(avatar.DefaultConfig()).Render(empty, p, *ear, *ear, *mar)
	defer img.Close()

	if !gocv.IMWrite(*output, img) {
		fmt.Fprintf(os.Stderr, "❌ Failed to write %s\n", *output)
		os.Exit(1)
	}
	fmt.Printf("🖼️  Wrote %s (%s)\n", *output, p)
}
