// Package detection supplies per-frame people detections to the analyzer.
//
// No computer vision happens here. A Source fabricates or replays bounding
// boxes for each frame index, and the rest of the system only ever sees the
// Source interface, so a real detector can be plugged in without touching the
// heatmap or session code.
//
// # Coordinate System
//
// Boxes are normalized to the frame: X, Y, Width and Height are fractions of
// the frame width and height, with (0,0) at the top-left corner. A box's
// (X, Y) corner doubles as the point fed to the density heatmap.
//
// # Sources
//
//   - MockSource: seeded random crowd whose size oscillates over time
//   - ReplaySource: cycles through a fixed list of frames
//
// # Drawing
//
// DrawBoxes strokes box outlines onto an RGBA image; RenderBoxes produces a
// full detection overlay, optionally on top of a still frame.
package detection
