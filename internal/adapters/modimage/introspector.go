// Package modimage introspects module images published as YAML symbol documents.
package modimage

import (
	"bytes"
	"errors"
	"strings"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var (
	_ ports.ModuleLoader    = (*Introspector)(nil)
	_ ports.MarkerInspector = (*Introspector)(nil)
	_ ports.AddressResolver = (*Introspector)(nil)
)

// Introspector loads module images and answers marker and address queries
// about the methods they declare.
type Introspector struct {
	marker domain.ImplFlag
}

// NewIntrospector creates an Introspector that treats the no-inlining flag as
// the reload-eligibility marker.
func NewIntrospector() *Introspector {
	return &Introspector{marker: domain.FlagNoInlining}
}

// Load parses a module image and returns its types. Each method descriptor's
// Handle points at the decoded method record.
func (i *Introspector) Load(data []byte) ([]domain.TypeDescriptor, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, zerr.Wrap(domain.ErrModuleLoad, "module image is empty")
	}

	var img Image
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&img); err != nil {
		return nil, errors.Join(domain.ErrModuleLoad, err)
	}

	types := make([]domain.TypeDescriptor, 0, len(img.Types))
	for ti := range img.Types {
		t := &img.Types[ti]
		if strings.TrimSpace(t.Name) == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrModuleLoad, "type without a name"), "index", ti)
		}

		desc := domain.TypeDescriptor{
			FullName: t.Name,
			Methods:  make([]domain.MethodDescriptor, 0, len(t.Methods)),
		}
		for mi := range t.Methods {
			m := &t.Methods[mi]
			method, err := describeMethod(t.Name, m)
			if err != nil {
				return nil, err
			}
			desc.Methods = append(desc.Methods, method)
		}
		types = append(types, desc)
	}

	return types, nil
}

func describeMethod(typeName string, m *MethodDTO) (domain.MethodDescriptor, error) {
	if strings.TrimSpace(m.Name) == "" {
		return domain.MethodDescriptor{}, zerr.With(
			zerr.Wrap(domain.ErrModuleLoad, "method without a name"), "type", typeName)
	}

	visibility, err := parseVisibility(m.Visibility)
	if err != nil {
		return domain.MethodDescriptor{}, zerr.With(err, "method", typeName+domain.KeySeparator+m.Name)
	}

	flags := make([]domain.ImplFlag, 0, len(m.Flags))
	for _, f := range m.Flags {
		flags = append(flags, domain.ImplFlag(strings.ToLower(strings.TrimSpace(f))))
	}

	return domain.MethodDescriptor{
		Name:          m.Name,
		DeclaringType: typeName,
		Visibility:    visibility,
		Static:        m.Static,
		Flags:         flags,
		Handle:        m,
	}, nil
}

func parseVisibility(s string) (domain.Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "public":
		return domain.VisibilityPublic, nil
	case "internal":
		return domain.VisibilityInternal, nil
	case "private":
		return domain.VisibilityPrivate, nil
	default:
		return 0, zerr.With(zerr.Wrap(domain.ErrModuleLoad, "unknown visibility"), "visibility", s)
	}
}

// IsReloadable reports whether the method carries the no-inlining flag.
func (i *Introspector) IsReloadable(method domain.MethodDescriptor) bool {
	return method.HasFlag(i.marker)
}

// ResolveAddress returns the compiled entry address recorded for the method.
func (i *Introspector) ResolveAddress(method domain.MethodDescriptor) (domain.Address, error) {
	record, ok := method.Handle.(*MethodDTO)
	if !ok || record == nil {
		return 0, zerr.With(zerr.New("method was not loaded by this introspector"), "key", method.Key().String())
	}
	if record.Address == nil || *record.Address == 0 {
		return 0, zerr.With(zerr.Wrap(domain.ErrMethodNotCompiled, ""), "key", method.Key().String())
	}
	return domain.Address(*record.Address), nil
}
