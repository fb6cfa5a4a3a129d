package wing

import "fmt"

// NamedEntityNotFoundError reports a missing input body or sketch. It is
// returned before any geometry is created, so the document is untouched.
type NamedEntityNotFoundError struct {
	Kind string
	Name string
}

func (e *NamedEntityNotFoundError) Error() string {
	return fmt.Sprintf("no %s named %q in the document", e.Kind, e.Name)
}

// CoplanarFaceError reports that a cut body no longer carries a face on
// one of its bounding planes, so it cannot be shelled open there.
type CoplanarFaceError struct {
	Body string
	Side string
}

func (e *CoplanarFaceError) Error() string {
	return fmt.Sprintf("body %q has no face coplanar with its %s cut plane", e.Body, e.Side)
}
