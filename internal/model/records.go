package model

import (
	"cmp"
	"slices"
)

// TypeRecord is one line of types.<module>.jsonl.
type TypeRecord struct {
	ID            string    `json:"id"`
	Kind          TypeKind  `json:"kind"`
	File          string    `json:"file"`
	ImplementsIDs []string  `json:"implementsIds"`
	ExtendsIDs    []string  `json:"extendsIds"`
	EJB           Lifecycle `json:"ejb"`
	EJBLocal      []string  `json:"ejbLocal"`
	EJBRemote     []string  `json:"ejbRemote"`
	Injects       []string  `json:"injects"`       // field injection ids only
	InjectMembers []string  `json:"injectMembers"` // field and method injection ids
}

// InjectionRecord is one line of inject.<module>.jsonl.
type InjectionRecord struct {
	From       string     `json:"from"`
	MemberKind MemberKind `json:"memberKind"`
	Member     string     `json:"member"`
	Type       string     `json:"type"`
	Via        Mechanism  `json:"via"`
	Verified   bool       `json:"verified"` // type is declared in the scanned repository
}

// BindingRecord is one line of ejb.<module>.jsonl.
type BindingRecord struct {
	Iface  string   `json:"iface"`
	Local  bool     `json:"local"`
	Remote bool     `json:"remote"`
	Impls  []string `json:"impls"`
}

// SortTypes orders type records by identifier.
func SortTypes(records []TypeRecord) {
	slices.SortFunc(records, func(a, b TypeRecord) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

// SortInjections orders injection records by (from, memberKind, member, type, via).
func SortInjections(records []InjectionRecord) {
	slices.SortFunc(records, func(a, b InjectionRecord) int {
		return cmp.Or(
			cmp.Compare(a.From, b.From),
			cmp.Compare(a.MemberKind, b.MemberKind),
			cmp.Compare(a.Member, b.Member),
			cmp.Compare(a.Type, b.Type),
			cmp.Compare(a.Via, b.Via),
		)
	})
}

// SortBindings orders binding records by interface identifier.
func SortBindings(records []BindingRecord) {
	slices.SortFunc(records, func(a, b BindingRecord) int {
		return cmp.Compare(a.Iface, b.Iface)
	})
}
