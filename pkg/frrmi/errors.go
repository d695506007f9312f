package frrmi

import "fmt"

// ReloadError reports the peer's non-Ok reply to an Apply request; the
// reply payload is carried verbatim as diagnostic text.
type ReloadError struct {
	Reply string
}

func (e *ReloadError) Error() string {
	return fmt.Sprintf("frrmi: reload failed: %s", e.Reply)
}
