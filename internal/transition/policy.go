package transition

// DefaultSuffix marks locked files.
const DefaultSuffix = ".locked"

// Policy controls how a path is transitioned.
type Policy struct {
	// Suffix is appended on lock and stripped on unlock. An empty suffix
	// transforms files in place and makes every file eligible for unlock.
	Suffix string

	// Overwrite allows replacing an existing destination.
	Overwrite bool

	// ContinueOnError turns per-file failures into warnings.
	ContinueOnError bool

	// DryRun reports what would happen without reading or writing anything.
	DryRun bool
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{Suffix: DefaultSuffix}
}

// InPlace returns a copy of p that rewrites files under their own name.
func (p Policy) InPlace() Policy {
	p.Suffix = ""
	p.Overwrite = true
	return p
}
