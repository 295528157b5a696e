package main

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/benoitkugler/inknote/canvas"
	"github.com/benoitkugler/inknote/stroke"
)

// script is a list of pointer events replayed on a canvas:
//
//	events:
//	  - {op: down, at: [10, 10]}
//	  - {op: move, points: [[20, 10], [30, 12]]}
//	  - {op: up}
//	  - {op: erase}
//	  - {op: move, at: [20, 10]}
//	  - {op: draw}
//	  - {op: clear}
type script struct {
	Events []scriptEvent `yaml:"events"`
}

type scriptEvent struct {
	Op     string      `yaml:"op"`
	At     []float64   `yaml:"at"`
	Points [][]float64 `yaml:"points"` // move only, after At
}

func toPoint(coords []float64) (stroke.Point, error) {
	if len(coords) != 2 {
		return stroke.Point{}, fmt.Errorf("expected 2 coordinates, got %d", len(coords))
	}
	return stroke.Pt(coords[0], coords[1]), nil
}

// points returns At followed by Points
func (ev scriptEvent) points() ([]stroke.Point, error) {
	var out []stroke.Point
	if ev.At != nil {
		p, err := toPoint(ev.At)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	for _, coords := range ev.Points {
		p, err := toPoint(coords)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (ev scriptEvent) validate() error {
	pts, err := ev.points()
	if err != nil {
		return err
	}
	switch ev.Op {
	case "down":
		if len(pts) != 1 || ev.Points != nil {
			return errors.New("down expects a single point in 'at'")
		}
	case "move":
		if len(pts) == 0 {
			return errors.New("move expects at least one point")
		}
	case "up", "erase", "draw", "clear":
		if len(pts) != 0 {
			return fmt.Errorf("%s takes no point", ev.Op)
		}
	default:
		return fmt.Errorf("unknown op %q", ev.Op)
	}
	return nil
}

// parseScript reads and checks a whole script, so that
// an invalid script has no effect.
func parseScript(r io.Reader) (script, error) {
	var sc script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return script{}, fmt.Errorf("parse script: %w", err)
	}
	for i, ev := range sc.Events {
		if err := ev.validate(); err != nil {
			return script{}, fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	return sc, nil
}

// replay sends the events to c and returns the number of
// events the canvas rejected.
func (sc script) replay(c *canvas.Canvas) (ignored int) {
	for _, ev := range sc.Events {
		pts, _ := ev.points() // validated by parseScript
		var err error
		switch ev.Op {
		case "down":
			err = c.PointerDown(pts[0])
		case "move":
			for _, p := range pts {
				if err = c.PointerMove(p); err != nil {
					break
				}
			}
		case "up":
			err = c.PointerUp()
		case "erase":
			c.SetEraseMode(true)
		case "draw":
			c.SetEraseMode(false)
		case "clear":
			c.Clear()
		}
		if err != nil {
			ignored++
		}
	}
	return ignored
}
