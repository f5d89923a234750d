// Package dataset defines the tabular inputs consumed by the chart renderers.
//
// # Records
//
// A [Record] is one measured entity: a set of categorical tags (population,
// condition, batch) and a count. Box plots aggregate records into frequencies:
//
//	records := dataset.Records{
//	    {Names: []string{"PopA", "CondX"}, Count: 10},
//	    {Names: []string{"CondX"}, Count: 20},
//	}
//	records.Sum("PopA", "CondX") // 10
//
// # Density Series
//
// [ViolinData] holds one [DensitySeries] per group, all aligned to a shared
// sequence of bin centres. Use [ViolinData.Validate] before rendering when the
// data comes from an untrusted source.
//
// # Events
//
// Raw per-event measurements ([Event]) are read from CSV with [ReadEventsCSV],
// optionally transformed with [Arcsinh], and collapsed into records with
// [CountRecords].
package dataset
