package models

// FragmentOverhead is the space reserved in each fragment document for the
// fragment's own metadata (parent id, index, field names). A fragment's data
// may use at most the backend's document ceiling minus this overhead.
const FragmentOverhead = 1024

// Fragment is one ordered slice of a stored object's bytes.
type Fragment struct {
	ParentID string `json:"parent_id"`
	Index    int    `json:"index"`
	Data     []byte `json:"data"`
}
