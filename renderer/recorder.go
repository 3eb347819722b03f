package renderer

import "image/color"

// Op is one recorded canvas call.
type Op struct {
	Name  string
	Args  []float32
	Color color.RGBA
	Image Image
}

// Recorder is a Canvas that records every call. It tracks transforms and
// paths like a host would, so Fills reflects device-space geometry.
type Recorder struct {
	*State
	Ops []Op

	// Fills holds the device-space outline of every filled path.
	Fills [][]Vec
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{State: NewState()}
}

func (r *Recorder) record(name string, args ...float32) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args})
}

func (r *Recorder) ClearRect(x, y, w, h float32) { r.record("clearRect", x, y, w, h) }

func (r *Recorder) Save() {
	r.State.Save()
	r.record("save")
}

func (r *Recorder) Restore() {
	r.State.Restore()
	r.record("restore")
}

func (r *Recorder) Scale(sx, sy float32) {
	r.State.Scale(sx, sy)
	r.record("scale", sx, sy)
}

func (r *Recorder) Translate(x, y float32) {
	r.State.Translate(x, y)
	r.record("translate", x, y)
}

func (r *Recorder) Rotate(angle float32) {
	r.State.Rotate(angle)
	r.record("rotate", angle)
}

func (r *Recorder) BeginPath() {
	r.State.BeginPath()
	r.record("beginPath")
}

func (r *Recorder) MoveTo(x, y float32) {
	r.State.MoveTo(x, y)
	r.record("moveTo", x, y)
}

func (r *Recorder) LineTo(x, y float32) {
	r.State.LineTo(x, y)
	r.record("lineTo", x, y)
}

func (r *Recorder) ClosePath() {
	r.State.ClosePath()
	r.record("closePath")
}

func (r *Recorder) Fill(c color.RGBA) {
	path, _ := r.Path()
	r.Fills = append(r.Fills, append([]Vec(nil), path...))
	r.Ops = append(r.Ops, Op{Name: "fill", Color: c})
}

func (r *Recorder) Stroke(c color.RGBA, width float32) {
	r.Ops = append(r.Ops, Op{Name: "stroke", Args: []float32{width}, Color: c})
}

func (r *Recorder) DrawImage(img Image, x, y, w, h float32) {
	r.Ops = append(r.Ops, Op{Name: "drawImage", Args: []float32{x, y, w, h}, Image: img})
}

// Count returns how many times the named call was recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Reset drops recorded calls and restores the identity transform.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.Fills = r.Fills[:0]
	r.State.Reset()
}

// Discard is a Canvas that draws nothing.
var Discard Canvas = discard{}

type discard struct{}

func (discard) ClearRect(x, y, w, h float32)            {}
func (discard) Save()                                   {}
func (discard) Restore()                                {}
func (discard) Scale(sx, sy float32)                    {}
func (discard) Translate(x, y float32)                  {}
func (discard) Rotate(angle float32)                    {}
func (discard) BeginPath()                              {}
func (discard) MoveTo(x, y float32)                     {}
func (discard) LineTo(x, y float32)                     {}
func (discard) ClosePath()                              {}
func (discard) Fill(c color.RGBA)                       {}
func (discard) Stroke(c color.RGBA, width float32)      {}
func (discard) DrawImage(img Image, x, y, w, h float32) {}
