package bvcull

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

// FrameStats counts the culling work of one frame. Values are owned by the
// caller; a frame typically starts from a zero FrameStats.
type FrameStats struct {
	Requested  int
	Rendered   int
	Inside     int
	PlaneTests int
}

// Outside returns the number of rejected objects.
func (s FrameStats) Outside() int {
	return s.Requested - s.Rendered
}

// Straddling returns the number of objects crossing the frustum boundary.
func (s FrameStats) Straddling() int {
	return s.Rendered - s.Inside
}

// AvgPlaneTests returns the mean number of plane evaluations per object.
func (s FrameStats) AvgPlaneTests() float64 {
	if s.Requested == 0 {
		return 0
	}
	return float64(s.PlaneTests) / float64(s.Requested)
}

// Add accumulates other into s.
func (s *FrameStats) Add(other FrameStats) {
	s.Requested += other.Requested
	s.Rendered += other.Rendered
	s.Inside += other.Inside
	s.PlaneTests += other.PlaneTests
}

// Table renders the statistics together with the culler settings that
// produced them.
func (s FrameStats) Table(c *Culler) string {
	coherency := "off"
	if c.Coherent() {
		coherency = "on"
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Statistic", "Value"})
	table.Append([]string{"Bounding volume", c.Scheme().String()})
	table.Append([]string{"Plane coherency", coherency})
	table.Append([]string{"#objs outside frustum", fmt.Sprint(s.Outside())})
	table.Append([]string{"#objs straddling", fmt.Sprint(s.Straddling())})
	table.Append([]string{"#objs inside", fmt.Sprint(s.Inside)})
	table.Append([]string{"Avg #plane eqn evals per obj", fmt.Sprintf("%.2f", s.AvgPlaneTests())})
	table.SetFooter([]string{"Total objects", fmt.Sprint(s.Requested)})
	table.Render()

	return buf.String()
}
