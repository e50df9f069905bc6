// Package metrics counts what the event loop does.
//
// Every Metrics value owns its own Prometheus registry, so concurrent runs
// and tests never share counters. The counters are:
//
//	evsel_events_read_total                  records taken from the cursor
//	evsel_events_selected_total              records passing every filter
//	evsel_cutflow_passed_total{filter}       records passing each filter
//	evsel_collection_builds_total{collection} derived collection rebuilds
//	evsel_selected_weight_sum                sum of nominal weights of selected records
package metrics
