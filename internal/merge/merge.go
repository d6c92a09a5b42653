// Package merge reconciles a local collection with rows pulled from the remote.
package merge

import "github.com/MrJamesThe3rd/pocketbook/internal/finance"

// Merge applies last-writer-wins between local and the remote rows. A remote
// record replaces the local one when its LastModified is greater or equal, so
// the remote wins exact ties. Local-only records are returned as they are.
//
// The result keeps local order, followed by remote-only records in row order.
func Merge[T finance.Entity, R any](local []T, rows []R, toLocal func(R) T) []T {
	out := make([]T, len(local), len(local)+len(rows))
	copy(out, local)

	index := make(map[string]int, len(local)+len(rows))
	for i, v := range out {
		index[v.EntityID()] = i
	}

	for _, row := range rows {
		remote := toLocal(row)

		i, ok := index[remote.EntityID()]
		if !ok {
			index[remote.EntityID()] = len(out)
			out = append(out, remote)

			continue
		}

		if remote.LastModified() >= out[i].LastModified() {
			out[i] = remote
		}
	}

	return out
}
