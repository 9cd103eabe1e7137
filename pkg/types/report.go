package types

// ArtifactState reports whether one owned artifact exists on disk.
type ArtifactState struct {
	Kind    ArtifactKind `json:"kind" yaml:"kind"`
	Path    string       `json:"path" yaml:"path"`
	Present bool         `json:"present" yaml:"present"`
}

// ApplicationStatus is the read-only view returned by the engine's Status.
type ApplicationStatus struct {
	Record    ApplicationRecord `json:"record" yaml:"record"`
	Artifacts []ArtifactState   `json:"artifacts" yaml:"artifacts"`
	// Snapshot is true when the view was read without reconciling because
	// another operation held the registry lock.
	Snapshot bool `json:"snapshot" yaml:"snapshot"`
}

// ReconcileReport lists what a reconciliation pass changed.
type ReconcileReport struct {
	// RemovedRecords are ids whose installed binary had disappeared.
	RemovedRecords []string `json:"removedRecords" yaml:"removedRecords"`
	// RepairedRecords are ids whose derived artifacts were regenerated or
	// whose missing optional artifacts were dropped from the record.
	RepairedRecords []string `json:"repairedRecords" yaml:"repairedRecords"`
	// RemovedOrphans are files under the managed tree no record referenced.
	RemovedOrphans []string `json:"removedOrphans" yaml:"removedOrphans"`
}

// Empty reports whether the pass changed nothing.
func (r ReconcileReport) Empty() bool {
	return len(r.RemovedRecords) == 0 && len(r.RepairedRecords) == 0 && len(r.RemovedOrphans) == 0
}

// ApplicationList is the read-only view returned by the engine's List.
type ApplicationList struct {
	Applications []ApplicationRecord `json:"applications" yaml:"applications"`
	// Snapshot has the same meaning as in ApplicationStatus.
	Snapshot bool `json:"snapshot" yaml:"snapshot"`
}
