package favourites

import "github.com/Venuja2003/Estate-Agent/internal/core/dragdrop"

// DropTarget is the favourites panel's drop zone. A dropped property goes
// through Store.Add, so dragging and clicking dedupe the same way.
func DropTarget(s *Store) *dragdrop.Target {
	return dragdrop.NewTarget(func(p dragdrop.Payload) {
		s.Add(p.Record)
	}, dragdrop.TagProperty)
}
