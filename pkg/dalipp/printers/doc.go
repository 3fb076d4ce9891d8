// Package printers provides the DALi pretty-printers.
//
// The same printers serve the Dali namespace (registry "libdali") and the
// DaliVk namespace of the Vulkan toolkit (registry "libdali-toolkit-vk").
// Build them with NewLibDali or NewLibDaliVk, or install them directly:
//
//	host := dalipp.NewHost()
//	if _, err := printers.Install(host, printers.Dali); err != nil {
//	    return err
//	}
//
// # Object Layout
//
// Printers read values through package value and expect this layout, with
// NS standing for the namespace:
//
//   - NS::Vector2/3/4: members x, y, z, w.
//   - NS::Quaternion: member mVector holding a Vector4.
//   - NS::Matrix: member mMatrix, a float array. NS::Matrix3: member mElements.
//   - NS::Handle and NS::Actor: mObjectHandle.mPtr points at the internal
//     object. Its dynamic type names the concrete class.
//   - NS::Internal::Actor: mName, mNode (pointer to a scene-graph node with
//     member mId) and, in the DaliVk layout, mId.
//   - NS::Internal::CustomActor: mImpl.mPtr points at the user implementation.
//   - NS::Property::Value: mImpl points at an NS::DebugPropertyValue with
//     members type (an NS::Property::Type) and value (the payload).
//   - NS::Property::Array: mImpl points at an NS::DebugPropertyValueArray
//     whose elements are property values.
//   - NS::Property::Map: mImpl points at an NS::DebugPropertyValueMap with
//     members stringValues and intValues, arrays of {first, second} pairs.
//   - NS::Vector<T>: mData points at the element array. A null mData is an
//     empty vector.
//   - NS::Toolkit::TreeNode: mName (char pointer), mType (NodeType),
//     mStringValue, mIntValue and mFloatValue.
//
// Enumerators are read from the program's types when it declares them and
// from the DALi declaration order otherwise.
package printers
