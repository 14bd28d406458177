package domain

import "strings"

// AnatomyTerm is an anatomical structure from the UBERON ontology.
type AnatomyTerm struct {
	Label string `json:"label"`
	OBOID string `json:"obo_id"`
}

// FolderName builds "{OBOID without ':'}_{Label with spaces as '_'}",
// e.g. "UBERON0000981_femur".
func (t AnatomyTerm) FolderName() string {
	id := strings.ReplaceAll(t.OBOID, ":", "")
	label := strings.ReplaceAll(t.Label, " ", "_")
	return id + "_" + label
}
