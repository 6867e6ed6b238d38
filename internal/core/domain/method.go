package domain

import (
	"fmt"
	"unique"
)

// KeySeparator joins the declaring type and the method name in a MethodKey.
const KeySeparator = "::"

// Address is a compiled entry address inside the host process.
type Address uintptr

// String formats the address as a fixed-width hex value.
func (a Address) String() string {
	return fmt.Sprintf("0x%016x", uintptr(a))
}

// MethodKey is the stable identity of a reloadable method across builds.
// It wraps an interned string of the form "<declaring type>::<method>".
type MethodKey struct {
	h unique.Handle[string]
}

// NewMethodKey builds the identity of a method from its declaring type's
// fully qualified name and its simple name.
func NewMethodKey(typeName, methodName string) MethodKey {
	return MethodKey{h: unique.Make(typeName + KeySeparator + methodName)}
}

// ParseMethodKey interns an already formatted key.
func ParseMethodKey(s string) MethodKey {
	return MethodKey{h: unique.Make(s)}
}

// String returns the formatted key.
func (k MethodKey) String() string {
	return k.h.Value()
}

// IsZero reports whether the key was never initialized.
func (k MethodKey) IsZero() bool {
	return k == MethodKey{}
}

// MarshalText implements encoding.TextMarshaler.
func (k MethodKey) MarshalText() ([]byte, error) {
	return []byte(k.h.Value()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *MethodKey) UnmarshalText(text []byte) error {
	k.h = unique.Make(string(text))
	return nil
}

// Method is a reloadable method discovered in a module together with its
// current compiled entry address.
type Method struct {
	Key     MethodKey
	Address Address
}

// RegistryEntry is the registry's view of a method identity.
type RegistryEntry struct {
	Key     MethodKey
	Address Address
}

// Visibility is the access level of a method as declared in its module.
type Visibility uint8

const (
	// VisibilityPublic marks a method visible outside its module.
	VisibilityPublic Visibility = iota
	// VisibilityInternal marks a method visible only inside its module.
	VisibilityInternal
	// VisibilityPrivate marks a method visible only inside its declaring type.
	VisibilityPrivate
)

// String returns the lower-case name of the visibility.
func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityInternal:
		return "internal"
	case VisibilityPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// ImplFlag is a method implementation flag attached by the compiler.
type ImplFlag string

// FlagNoInlining marks a method the compiler must never inline. It is the
// reload-eligibility marker: a method that is never inlined keeps a single
// entry address that can be redirected.
const FlagNoInlining ImplFlag = "noinline"

// TypeDescriptor describes a type declared by a loaded module.
type TypeDescriptor struct {
	// FullName is the fully qualified type name.
	FullName string
	// Methods lists every method of the type, whatever its visibility.
	Methods []MethodDescriptor
}

// MethodDescriptor describes one method of a loaded module.
type MethodDescriptor struct {
	Name          string
	DeclaringType string
	Visibility    Visibility
	Static        bool
	Flags         []ImplFlag
	// Handle is an opaque, loader-specific reference used by the address resolver.
	Handle any
}

// HasFlag reports whether the method carries the given implementation flag.
func (m MethodDescriptor) HasFlag(flag ImplFlag) bool {
	for _, f := range m.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Key returns the method's identity.
func (m MethodDescriptor) Key() MethodKey {
	return NewMethodKey(m.DeclaringType, m.Name)
}
