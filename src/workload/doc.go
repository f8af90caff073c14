// Package workload lists the example workloads shipped with glomers.
//
// A workload is a payload family, described by a message.Catalog, and a
// node.Handler answering its requests. Neither of the workloads below needs
// any coordination between nodes.
//
//	echo        echo -> echo_ok, repeating the echo field
//	unique-ids  generate -> generate_ok, with an id unique across the cluster
package workload

// Names of the example workloads.
const (
	Echo      = "echo"
	UniqueIDs = "unique-ids"
)

// Names returns the names of the example workloads.
func Names() []string {
	return []string{Echo, UniqueIDs}
}
