// Package metrics records per-run conversion metrics in a private
// Prometheus registry and writes them as a node_exporter textfile.
//
// The textfile collector of node_exporter picks up *.prom files from a
// directory, which suits a batch job that exits instead of serving
// /metrics:
//
//	treeconv -i in -o out --metrics-file /var/lib/node_exporter/treeconv.prom
package metrics
