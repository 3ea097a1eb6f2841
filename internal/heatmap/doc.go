// Package heatmap turns a rolling history of detection centroids into a
// crowd-density raster.
//
// The pipeline is a pure function of (history, width, height):
//
//  1. Accumulate: every centroid stamps a radial falloff kernel of radius 20
//     pixels onto a dense width×height grid. Contributions that fall outside
//     the grid are discarded.
//  2. Normalize: the grid is divided by its maximum so the hottest cell is
//     exactly 1.0. An all-zero grid has nothing to draw.
//  3. Color: each normalized value above 0.1 maps to a yellow→orange→red
//     color whose alpha grows with the value.
//  4. Render: heat pixels are composited over a dark background and a
//     translucent 50 pixel reference grid is drawn on top.
//
// # Coordinate System
//
// Centroids are normalized to [0,1] relative to the frame. A centroid at
// (x, y) is rasterized to cell (floor(x*width), floor(y*height)). Grid cells
// and output pixels share the same 0-based coordinates with (0,0) at the
// top-left corner.
//
// # Thread Safety
//
// History is safe for concurrent use: a producer may Append while a renderer
// takes a Snapshot. Accumulate, Normalize and Render never retain their
// inputs and can be called concurrently on different snapshots.
//
// # Determinism
//
// Identical inputs always produce byte-identical images. The kernel is
// precomputed with the same formula the brute-force stamp would use and cells
// are summed in the same frame, centroid, row, column order.
package heatmap
