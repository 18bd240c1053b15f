package model

import (
	"encoding/json"
	"strings"
)

// MemberKind distinguishes field injection from method (setter/initializer) injection.
type MemberKind string

const (
	MemberField  MemberKind = "field"
	MemberMethod MemberKind = "method"
)

// Mechanism is the injection mechanism of a member.
type Mechanism string

const (
	MechanismCDI Mechanism = "CDI" // @Inject
	MechanismEJB Mechanism = "EJB" // @EJB
	MechanismJPA Mechanism = "JPA" // @PersistenceContext
)

// Lifecycle is the session bean kind of a class. Empty means "not a bean".
type Lifecycle string

const (
	LifecycleNone      Lifecycle = ""
	LifecycleStateless Lifecycle = "stateless"
	LifecycleStateful  Lifecycle = "stateful"
	LifecycleSingleton Lifecycle = "singleton"
)

// LifecycleFromAnnotation maps an annotation short name to a lifecycle kind.
func LifecycleFromAnnotation(name string) Lifecycle {
	switch name {
	case "Stateless", "Stateful", "Singleton":
		return Lifecycle(strings.ToLower(name))
	}
	return LifecycleNone
}

// MarshalJSON writes LifecycleNone as null.
func (l Lifecycle) MarshalJSON() ([]byte, error) {
	if l == LifecycleNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(l))
}

// TypeKind is the emitted kind of a declared type.
type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindInterface TypeKind = "interface"
)
