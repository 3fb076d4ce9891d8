package printers

import (
	"fmt"

	"github.com/randalmurphal/dalipp/pkg/dalipp"
)

// Namespace is the C++ namespace the printers are registered under.
type Namespace string

// Supported namespaces.
const (
	Dali   Namespace = "Dali"
	DaliVk Namespace = "DaliVk"
)

// Registry names, as seen by the debugger.
const (
	LibDali   = "libdali"
	LibDaliVk = "libdali-toolkit-vk"
)

// Namespaces lists the supported namespaces.
var Namespaces = []Namespace{Dali, DaliVk}

// ParseNamespace accepts a namespace ("Dali") or a registry name ("libdali").
func ParseNamespace(s string) (Namespace, error) {
	switch s {
	case string(Dali), LibDali:
		return Dali, nil
	case string(DaliVk), LibDaliVk:
		return DaliVk, nil
	}
	return "", fmt.Errorf("unknown namespace %q", s)
}

// RegistryName returns the registry name for ns.
func (ns Namespace) RegistryName() string {
	if ns == DaliVk {
		return LibDaliVk
	}
	return LibDali
}

// Qualify prefixes name with the namespace: Dali.Qualify("Vector2") is
// "Dali::Vector2".
func (ns Namespace) Qualify(name string) string {
	return string(ns) + "::" + name
}

// Factories returns every printer of ns keyed by the type name it formats.
func Factories(ns Namespace) map[string]dalipp.Factory {
	f := map[string]dalipp.Factory{
		ns.Qualify("Handle"):                           handleFactory(ns),
		ns.Qualify("Actor"):                            actorFactory(ns),
		ns.Qualify("Vector2"):                          newVector2,
		ns.Qualify("Vector3"):                          newVector3,
		ns.Qualify("Vector4"):                          newVector4,
		ns.Qualify("Quaternion"):                       newQuaternion,
		ns.Qualify("Matrix"):                           newMatrix,
		ns.Qualify("Matrix3"):                          newMatrix3,
		ns.Qualify("Property::Value"):                  propertyValueFactory(ns),
		ns.Qualify("Property::Array"):                  propertyArrayFactory(ns),
		ns.Qualify("Property::Map"):                    propertyMapFactory(ns),
		ns.Qualify("Internal::PropertyMetadata"):       newPropertyMetadata,
		ns.Qualify("Internal::CustomPropertyMetadata"): newCustomPropertyMetadata,
		ns.Qualify("Vector"):                           newVector,
		ns.Qualify("Toolkit::TreeNode"):                treeNodeFactory(ns),
	}
	if ns == DaliVk {
		f[ns.Qualify("Material")] = newMaterial
	}
	return f
}

// Build creates and freezes the registry of ns.
func Build(ns Namespace, opts ...dalipp.Option) (*dalipp.Registry, error) {
	r := dalipp.New(ns.RegistryName(), opts...)
	if err := r.RegisterMany(Factories(ns)); err != nil {
		return nil, fmt.Errorf("build %s: %w", ns.RegistryName(), err)
	}
	r.Freeze()
	return r, nil
}

// NewLibDali builds the "libdali" registry.
func NewLibDali(opts ...dalipp.Option) (*dalipp.Registry, error) {
	return Build(Dali, opts...)
}

// NewLibDaliVk builds the "libdali-toolkit-vk" registry.
func NewLibDaliVk(opts ...dalipp.Option) (*dalipp.Registry, error) {
	return Build(DaliVk, opts...)
}

// Install builds the registry of ns and hands it to inst.
func Install(inst dalipp.Installer, ns Namespace, opts ...dalipp.Option) (*dalipp.Registry, error) {
	r, err := Build(ns, opts...)
	if err != nil {
		return nil, err
	}
	if err := inst.Install(r); err != nil {
		return nil, fmt.Errorf("install %s: %w", r.Name(), err)
	}
	return r, nil
}
