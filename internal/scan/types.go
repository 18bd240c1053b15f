package scan

import (
	"time"

	"github.com/mvp-joe/beangraph/internal/javasrc"
	"github.com/mvp-joe/beangraph/internal/model"
)

// ScannedType is one declared class or interface.
type ScannedType struct {
	FQCN      string
	Package   string
	File      string // repository-relative, forward slashes
	Interface bool

	// Local and Remote are only ever set on interfaces.
	Local  bool
	Remote bool

	// Lifecycle is only ever set on classes.
	Lifecycle model.Lifecycle

	ImplementsRaw []string // normalized, unresolved
	ExtendsRaw    []string // normalized, unresolved

	InjectedFields []InjectedField
}

// IsBean reports whether the type carries a session bean lifecycle annotation.
func (t *ScannedType) IsBean() bool {
	return t.Lifecycle != model.LifecycleNone
}

// InjectedField is a field-level injection point on a ScannedType.
type InjectedField struct {
	Name    string
	TypeRaw string
	Via     model.Mechanism
}

// ScannedInjection is one injection edge: a field, or one parameter of an
// injected method.
type ScannedInjection struct {
	OwnerFQCN    string
	OwnerPackage string
	MemberKind   model.MemberKind
	Member       string // field name or synthesized method signature
	TypeRaw      string // normalized, import-expanded, unresolved
	Via          model.Mechanism
}

// FileResult is everything extracted from a single source file.
type FileResult struct {
	Module      string
	Path        string
	Types       []ScannedType
	Injections  []ScannedInjection
	Warning     bool // parse diagnostics or failure
	Diagnostics []javasrc.Diagnostic
	Err         error // set when the file contributed nothing
}

// ProgressReporter receives scanning progress. Calls are serialized.
type ProgressReporter interface {
	OnScanStart(totalFiles int)
	OnFileScanned(path string)
	OnScanComplete(files, warnings int, duration time.Duration)
}
