// Command backscatter-map renders a 2D map of backscatter intensity over
// beam positions from a processed survey file. It can write a static PNG
// scatter plot and/or an interactive HTML chart.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/seafloor.report/internal/sonar"
	"github.com/banshee-data/seafloor.report/internal/sonar/pipeline"
)

var (
	inputFile = flag.String("file", "", "Path to the .all survey recording (required)")
	pngOut    = flag.String("png", "", "Output path for a PNG scatter map")
	htmlOut   = flag.String("html", "", "Output path for an interactive HTML map")
	maxPoints = flag.Int("max-points", 50000, "Downsample to at most this many points")
)

func main() {
	flag.Parse()

	if *inputFile == "" || (*pngOut == "" && *htmlOut == "") {
		flag.Usage()
		os.Exit(2)
	}

	ds, stats, err := pipeline.RunFile(*inputFile, pipeline.Config{})
	if err != nil {
		log.Fatalf("processing failed: %v", err)
	}
	log.Printf("run %s: %d soundings from %d pings", stats.RunID, stats.Soundings, stats.PingsProcessed)

	bs := sonar.Summarize(ds.Backscatter)
	fmt.Printf("backscatter: min=%.2f dB max=%.2f dB mean=%.2f dB\n", bs.Min, bs.Max, bs.Mean)

	// Downsample by stride to keep plot payloads manageable.
	stride := 1
	if ds.NumSoundings() > *maxPoints {
		stride = int(math.Ceil(float64(ds.NumSoundings()) / float64(*maxPoints)))
	}

	if *pngOut != "" {
		if err := writePNG(ds, bs, stride, *pngOut); err != nil {
			log.Fatalf("write png: %v", err)
		}
		log.Printf("wrote %s", *pngOut)
	}

	if *htmlOut != "" {
		if err := writeHTML(ds, stride, *htmlOut); err != nil {
			log.Fatalf("write html: %v", err)
		}
		log.Printf("wrote %s", *htmlOut)
	}
}

// writePNG renders a grayscale scatter of backscatter over lon/lat.
func writePNG(ds *sonar.SoundingDataset, bs sonar.ColumnSummary, stride int, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Backscatter Map (%d points)", ds.NumSoundings())
	p.X.Label.Text = "Longitude (degrees)"
	p.Y.Label.Text = "Latitude (degrees)"

	pts := make(plotter.XYs, 0, ds.NumSoundings()/stride+1)
	vals := make([]float64, 0, ds.NumSoundings()/stride+1)
	for i := 0; i < ds.NumSoundings(); i += stride {
		pts = append(pts, plotter.XY{X: ds.Lon[i], Y: ds.Lat[i]})
		vals = append(vals, ds.Backscatter[i])
	}

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}

	// Grayscale by intensity: strong returns plot light, weak returns dark.
	span := bs.Max - bs.Min
	if span == 0 {
		span = 1
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		shade := uint8(255 * (vals[i] - bs.Min) / span)
		return draw.GlyphStyle{
			Color:  color.Gray{Y: shade},
			Radius: vg.Points(0.5),
			Shape:  draw.CircleGlyph{},
		}
	}

	p.Add(sc)
	return p.Save(12*vg.Inch, 8*vg.Inch, path)
}

// writeHTML renders an interactive scatter chart of backscatter over
// lon/lat.
func writeHTML(ds *sonar.SoundingDataset, stride int, path string) error {
	data := make([]opts.ScatterData, 0, ds.NumSoundings()/stride+1)
	for i := 0; i < ds.NumSoundings(); i += stride {
		data = append(data, opts.ScatterData{
			Value: []interface{}{ds.Lon[i], ds.Lat[i], ds.Backscatter[i]},
		})
	}

	lon := sonar.Summarize(ds.Lon)
	lat := sonar.Summarize(ds.Lat)
	bs := sonar.Summarize(ds.Backscatter)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Backscatter Map", Width: "1200px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{Title: "Backscatter Map", Subtitle: fmt.Sprintf("points=%d stride=%d", len(data), stride)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: lon.Min, Max: lon.Max, Name: "Longitude (deg)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: lat.Min, Max: lat.Max, Name: "Latitude (deg)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(bs.Min),
			Max:        float32(bs.Max),
			InRange:    &opts.VisualMapInRange{Color: []string{"#000000", "#444444", "#888888", "#cccccc", "#ffffff"}},
		}),
	)
	scatter.AddSeries("backscatter", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return scatter.Render(f)
}
