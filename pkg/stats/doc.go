// Package stats aggregates records into per-population frequencies and the
// quartile summaries drawn by the box plot.
//
// # Frequencies
//
// For every (population, condition) pair, and for every batch when batches
// are given, [Frequencies] computes
//
//	sum(count | population, condition[, batch]) / sum(count | condition[, batch])
//
// Pairs whose ratio is not a number (an empty denominator) are dropped from
// the result rather than reported as errors.
//
// # Summaries
//
// [Summaries] reduces the surviving samples of each (population, condition)
// pair to quartiles, minimum and maximum. The box edges Lower and Upper are
// the quartiles pushed apart by one percent of the maximum so that a box is
// visible even when all samples coincide.
package stats
