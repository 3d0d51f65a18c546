package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-voxel-volume/pkg/buffer"
	"github.com/df07/go-voxel-volume/pkg/core"
	"github.com/df07/go-voxel-volume/pkg/loaders"
	"github.com/df07/go-voxel-volume/pkg/mapping"
	"github.com/df07/go-voxel-volume/pkg/sampler"
	"github.com/df07/go-voxel-volume/pkg/volume"
)

func main() {
	// Parse command line flags
	mappingType := flag.String("mapping", "uniform", "Mapping type: 'uniform' or 'frustum'")
	resolution := flag.Int("res", 32, "Voxel buffer resolution per axis")
	imageSize := flag.Int("size", 256, "Output image size in pixels")
	filter := flag.String("filter", "linear", "Reconstruction filter: 'linear' or 'gaussian'")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Voxel Volume Demo")
		fmt.Println("Renders a procedural density sphere through the volume sampling core.")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Output will be saved to output/volume_<mapping>_<timestamp>.png")
		return
	}

	fmt.Println("Building voxel buffer...")
	buf := buildDensitySphere(*resolution)

	m, err := buildMapping(*mappingType)
	if err != nil {
		fmt.Printf("Error building mapping: %v\n", err)
		return
	}
	buf.SetMapping(m)

	// Round-trip the buffer through the file format, then wrap it
	if err := os.MkdirAll("output", 0755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		return
	}
	bufferPath := filepath.Join("output", "volume.gvox")
	if err := loaders.WriteVoxelFile(bufferPath, buf); err != nil {
		fmt.Printf("Error writing voxel file: %v\n", err)
		return
	}

	vol := volume.NewVoxelVolume(nil)
	vol.Load(bufferPath)
	if len(vol.AttributeNames()) == 0 {
		fmt.Println("Error: voxel buffer did not load")
		return
	}
	if *filter == "gaussian" {
		vol.SetSampler(sampler.NewGaussianSampler())
	}

	fmt.Printf("Marching %dx%d rays...\n", *imageSize, *imageSize)
	startTime := time.Now()
	img := renderOrthographic(vol, *imageSize)
	fmt.Printf("Render completed in %v\n", time.Since(startTime))

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join("output", fmt.Sprintf("volume_%s_%s.png", *mappingType, timestamp))
	file, err := os.Create(filename)
	if err != nil {
		fmt.Printf("Error creating output file: %v\n", err)
		return
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		fmt.Printf("Error encoding PNG: %v\n", err)
		return
	}
	fmt.Printf("Saved %s\n", filename)
}

// buildDensitySphere fills a dense buffer with a soft-edged density sphere
func buildDensitySphere(res int) *buffer.DenseBuffer {
	window := core.NewBox3iRes(res, res, res)
	buf := buffer.NewDenseBuffer("density", window, nil)

	center := float64(res) / 2
	radius := float64(res) * 0.4
	for k := 0; k < res; k++ {
		for j := 0; j < res; j++ {
			for i := 0; i < res; i++ {
				p := core.NewVec3(float64(i)+0.5, float64(j)+0.5, float64(k)+0.5)
				d := p.Distance(core.NewVec3(center, center, center))
				density := math.Max(0, 1-d/radius)
				buf.SetValue(i, j, k, core.NewVec3(density, density, density))
			}
		}
	}
	return buf
}

func buildMapping(mappingType string) (mapping.Mapping, error) {
	switch mappingType {
	case "frustum":
		return mapping.NewFrustumMappingLookAt(
			core.NewVec3(0, 0, 3), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0),
			math.Pi/4, 1.0, 2.0, 4.0)
	default:
		return mapping.NewUniformMappingBounds(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
	}
}

// renderOrthographic marches parallel rays down -Z through the volume and
// maps accumulated density to brightness
func renderOrthographic(vol *volume.VoxelVolume, size int) image.Image {
	img := image.NewGray(image.Rect(0, 0, size, size))
	attr := core.NewVolumeAttr("density")

	const extinction = 4.0
	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			x := (float64(px)/float64(size) - 0.5) * 3
			y := (0.5 - float64(py)/float64(size)) * 3
			ray := core.NewRay(core.NewVec3(x, y, 5), core.NewVec3(0, 0, -1))

			var optical float64
			for _, iv := range vol.Intersect(core.RenderState{WorldRay: ray}) {
				for t := iv.T0; t < iv.T1; t += iv.StepLength {
					value := vol.Sample(core.SampleState{WorldP: ray.At(t)}, attr)
					optical += value.X * iv.StepLength
				}
			}

			brightness := 1 - math.Exp(-extinction*optical)
			img.SetGray(px, py, color.Gray{Y: uint8(brightness * 255)})
		}
	}
	return img
}
