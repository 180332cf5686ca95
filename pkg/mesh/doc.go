// Package mesh builds toroidal cell meshes for neighbor-exchange simulations.
//
// A Grid of labelled cells is built first, Wire resolves each cell's compass
// neighbors with wraparound and produces the directed edges, and Execute hands
// the vertices and edges to a Runtime, runs it, and reassembles the recorded
// per-tick states into a TimeSeries.
package mesh
