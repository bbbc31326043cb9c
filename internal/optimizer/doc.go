// Package optimizer partitions weighted items into packages bounded by a
// maximum weight so that the total billing cost is minimized. It offers an
// exact branch-and-bound search and a first-fit-decreasing heuristic behind
// a common facade; both share the same cost model.
package optimizer
